// Package main is the entry point for the showcase-backend HTTP server.
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
	"go.uber.org/zap"

	"github.com/Blazer-YJJ/showcase-backend/internal/config"
	"github.com/Blazer-YJJ/showcase-backend/internal/imaging"
	"github.com/Blazer-YJJ/showcase-backend/internal/render"
	"github.com/Blazer-YJJ/showcase-backend/internal/server"
	"github.com/Blazer-YJJ/showcase-backend/internal/service"
	"github.com/Blazer-YJJ/showcase-backend/internal/storage"
)

func main() {
	// run() keeps deferred cleanup working; os.Exit skips defers.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may be set by the supervisor.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("SHOWCASE_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
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

	products := storage.NewProductRepository(db)
	categories := storage.NewCategoryRepository(db)
	configs := storage.NewExportConfigRepository(db)
	company := storage.NewCompanyProfileRepository(db)

	loader := imaging.NewLoader(time.Duration(cfg.Image.FetchTimeoutSeconds)*time.Second, cfg.Image.MaxBytes)
	fonts := render.NewSystemFontResolver(cfg.Export.FontCandidates)
	renderer := render.NewRenderer(loader, fonts, logger)

	exports := service.NewExportService(products, categories, configs, company, renderer, output, logger)

	deps := server.Deps{
		Exports:       exports,
		Products:      products,
		Categories:    categories,
		Configs:       configs,
		Company:       company,
		Banners:       storage.NewBannerRepository(db),
		Announcements: storage.NewAnnouncementRepository(db),
	}

	srv := server.New(cfg, deps, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests, including running exports, time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
