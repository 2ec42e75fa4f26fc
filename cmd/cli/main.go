// Package main provides the showcase-cli tool for running catalog exports
// from the command line, without going through the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Blazer-YJJ/showcase-backend/internal/config"
	"github.com/Blazer-YJJ/showcase-backend/internal/imaging"
	"github.com/Blazer-YJJ/showcase-backend/internal/model"
	"github.com/Blazer-YJJ/showcase-backend/internal/render"
	"github.com/Blazer-YJJ/showcase-backend/internal/service"
	"github.com/Blazer-YJJ/showcase-backend/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "showcase-cli",
		Short: "Catalog management CLI tools",
	}

	root.AddCommand(exportCmd())
	return root
}

func exportCmd() *cobra.Command {
	var (
		categoryID int64
		keyword    string
		sortField  string
		sortOrder  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Generate a catalog document",
		Long: `Generate a catalog document for all products, one category,
or a keyword search, using the active export configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if categoryID != 0 && keyword != "" {
				return fmt.Errorf("--category and --keyword are mutually exclusive")
			}
			return runExport(categoryID, keyword, sortField, sortOrder)
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category", 0, "Export a single category by id")
	cmd.Flags().StringVar(&keyword, "keyword", "", "Export products matching a keyword")
	cmd.Flags().StringVar(&sortField, "sort", "created_at", "Sort field for keyword exports: name, created_at, updated_at")
	cmd.Flags().StringVar(&sortOrder, "order", "desc", "Sort order for keyword exports: asc, desc")
	return cmd
}

func runExport(categoryID int64, keyword, sortField, sortOrder string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("SHOWCASE_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	output, err := storage.NewOutputFS(cfg.Storage.ExportDir)
	if err != nil {
		return fmt.Errorf("preparing export directory: %w", err)
	}

	loader := imaging.NewLoader(time.Duration(cfg.Image.FetchTimeoutSeconds)*time.Second, cfg.Image.MaxBytes)
	fonts := render.NewSystemFontResolver(cfg.Export.FontCandidates)
	renderer := render.NewRenderer(loader, fonts, logger)

	exports := service.NewExportService(
		storage.NewProductRepository(db),
		storage.NewCategoryRepository(db),
		storage.NewExportConfigRepository(db),
		storage.NewCompanyProfileRepository(db),
		renderer,
		output,
		logger,
	)

	// Ctrl+C cancels in-flight image fetches and aborts the export.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("cancelling export...")
		cancel()
	}()

	var result *model.ExportResult
	switch {
	case categoryID != 0:
		result, err = exports.ExportByCategory(ctx, categoryID)
	case keyword != "":
		result, err = exports.ExportBySearch(ctx, keyword, sortField, sortOrder)
	default:
		result, err = exports.ExportAll(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Printf("exported %s\n", result.StoragePath)
	return nil
}
