// Package service contains the catalog export orchestrator. It resolves the
// export configuration and company naming, fetches the product snapshot,
// drives the document renderer, and persists the finished document under a
// collision-safe filename.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Blazer-YJJ/showcase-backend/internal/model"
	"github.com/Blazer-YJJ/showcase-backend/internal/render"
	"github.com/Blazer-YJJ/showcase-backend/internal/storage"
)

// Caller-input errors. The HTTP layer maps these to 404/400; nothing is
// written when they occur.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrEmptyKeyword     = errors.New("search keyword is empty")
	ErrInvalidSort      = errors.New("invalid sort field")
)

// Fallback filename stem when neither an export config nor a company
// profile supplies a company name.
const defaultFileCompany = "catalog"

// DocumentRenderer is the renderer seam; *render.Renderer satisfies it.
type DocumentRenderer interface {
	Render(ctx context.Context, products []model.Product, title string, opts render.Options) ([]byte, error)
}

// ExportService is the top-level entry point for catalog exports.
type ExportService struct {
	products   storage.ProductRepository
	categories storage.CategoryRepository
	configs    storage.ExportConfigRepository
	company    storage.CompanyProfileRepository
	renderer   DocumentRenderer
	output     *storage.OutputFS
	logger     *zap.Logger
}

// NewExportService wires the orchestrator.
func NewExportService(
	products storage.ProductRepository,
	categories storage.CategoryRepository,
	configs storage.ExportConfigRepository,
	company storage.CompanyProfileRepository,
	renderer DocumentRenderer,
	output *storage.OutputFS,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		products:   products,
		categories: categories,
		configs:    configs,
		company:    company,
		renderer:   renderer,
		output:     output,
		logger:     logger,
	}
}

// ExportAll renders the full unpaged product snapshot.
func (s *ExportService) ExportAll(ctx context.Context) (*model.ExportResult, error) {
	naming, opts := s.resolveConfig(ctx)

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading product snapshot: %w", err)
	}

	return s.run(ctx, products, naming.title("Product Catalog"), "all", naming, opts)
}

// ExportByCategory renders a single category's products under a
// category-qualified title.
func (s *ExportService) ExportByCategory(ctx context.Context, categoryID int64) (*model.ExportResult, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolving category %d: %w", categoryID, err)
	}

	naming, opts := s.resolveConfig(ctx)

	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("loading category snapshot: %w", err)
	}

	label := "category_" + sanitizeFileName(category.Name)
	return s.run(ctx, products, naming.title(category.Name+" Catalog"), label, naming, opts)
}

// ExportBySearch renders a keyword-filtered, sorted snapshot under a generic
// search-export title.
func (s *ExportService) ExportBySearch(ctx context.Context, keyword, sortField, sortOrder string) (*model.ExportResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	if !storage.ValidProductSort(sortField) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, sortField)
	}

	naming, opts := s.resolveConfig(ctx)

	products, err := s.products.Search(ctx, keyword, sortField, sortOrder)
	if err != nil {
		return nil, fmt.Errorf("loading search snapshot: %w", err)
	}

	return s.run(ctx, products, naming.title("Search Export"), "search", naming, opts)
}

// run is the shared tail of every export: render, persist, describe.
func (s *ExportService) run(ctx context.Context, products []model.Product, title, label string, naming companyNaming, opts render.Options) (*model.ExportResult, error) {
	data, err := s.renderer.Render(ctx, products, title, opts)
	if err != nil {
		return nil, fmt.Errorf("rendering catalog: %w", err)
	}

	generatedAt := time.Now()
	fileName := fmt.Sprintf("%s_%s_%d.pdf", sanitizeFileName(naming.fileName), label, generatedAt.UnixMilli())

	displayName, path, err := s.output.Write(fileName, data)
	if err != nil {
		return nil, fmt.Errorf("persisting catalog: %w", err)
	}

	s.logger.Info("catalog exported",
		zap.String("file", displayName),
		zap.Int("products", len(products)),
		zap.Int("columns", opts.Columns),
	)

	return &model.ExportResult{
		DisplayName: displayName,
		StoragePath: path,
		GeneratedAt: generatedAt,
	}, nil
}

// companyNaming separates the filename form of the company name from the
// in-document heading form. Either may be empty when nothing is configured.
type companyNaming struct {
	fileName  string
	titleName string
}

// title prefixes the document heading with the configured company title
// name, if any.
func (n companyNaming) title(suffix string) string {
	return strings.TrimSpace(n.titleName + " " + suffix)
}

// resolveConfig determines naming and layout for one export call: the
// active export config wins, then the company profile supplies both name
// roles, then generic literals. Lookup failures only ever degrade to
// defaults; configuration can never block an export.
func (s *ExportService) resolveConfig(ctx context.Context) (companyNaming, render.Options) {
	naming := companyNaming{fileName: defaultFileCompany}
	opts := render.Options{Columns: model.DefaultColumns}

	cfg, err := s.configs.GetActive(ctx)
	switch {
	case err == nil:
		cfg.Normalize()
		opts.Columns = cfg.ColumnsPerRow
		if cfg.BackgroundImage != nil {
			opts.BackgroundRef = *cfg.BackgroundImage
		}
		if cfg.CompanyName != "" {
			naming.fileName = cfg.CompanyName
		}
		if cfg.CompanyTitleName != "" {
			naming.titleName = cfg.CompanyTitleName
		}
		if cfg.CompanyName != "" && cfg.CompanyTitleName != "" {
			return naming, opts
		}
	case !errors.Is(err, storage.ErrNotFound):
		s.logger.Warn("loading export config", zap.Error(err))
	}

	profile, err := s.company.Get(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("loading company profile", zap.Error(err))
		}
		return naming, opts
	}

	if profile.Name != "" {
		if naming.fileName == defaultFileCompany {
			naming.fileName = profile.Name
		}
		if naming.titleName == "" {
			naming.titleName = profile.Name
		}
	}
	return naming, opts
}

var unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)

// sanitizeFileName strips characters that are unsafe in filenames on any
// supported platform and collapses whitespace to underscores.
func sanitizeFileName(s string) string {
	s = unsafeFileChars.ReplaceAllString(s, "_")
	s = strings.Join(strings.Fields(s), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return defaultFileCompany
	}
	return s
}
