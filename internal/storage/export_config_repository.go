package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Blazer-YJJ/showcase-backend/internal/model"
)

// ExportConfigRepository manages the layout configurations for catalog
// exports. At most one row is active; Save atomically replaces the active
// configuration.
type ExportConfigRepository interface {
	GetActive(ctx context.Context) (*model.ExportConfig, error)
	List(ctx context.Context) ([]model.ExportConfig, error)
	Save(ctx context.Context, cfg *model.ExportConfig) error
}

type sqliteExportConfigRepository struct {
	db *sqlx.DB
}

// NewExportConfigRepository creates a SQLite-backed ExportConfigRepository.
func NewExportConfigRepository(db *sqlx.DB) ExportConfigRepository {
	return &sqliteExportConfigRepository{db: db}
}

func (r *sqliteExportConfigRepository) GetActive(ctx context.Context) (*model.ExportConfig, error) {
	var cfg model.ExportConfig
	err := r.db.GetContext(ctx, &cfg,
		"SELECT * FROM export_configs WHERE active = 1 ORDER BY updated_at DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting active export config: %w", err)
	}
	return &cfg, nil
}

func (r *sqliteExportConfigRepository) List(ctx context.Context) ([]model.ExportConfig, error) {
	var configs []model.ExportConfig
	err := r.db.SelectContext(ctx, &configs, "SELECT * FROM export_configs ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing export configs: %w", err)
	}
	return configs, nil
}

// Save inserts cfg as the new active configuration, deactivating all others
// in the same transaction.
func (r *sqliteExportConfigRepository) Save(ctx context.Context, cfg *model.ExportConfig) error {
	cfg.Normalize()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE export_configs SET active = 0 WHERE active = 1"); err != nil {
		return fmt.Errorf("deactivating configs: %w", err)
	}

	result, err := tx.NamedExecContext(ctx, `
		INSERT INTO export_configs (company_name, company_title_name, background_image, columns_per_row, active)
		VALUES (:company_name, :company_title_name, :background_image, :columns_per_row, 1)
	`, cfg)
	if err != nil {
		return fmt.Errorf("saving export config: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	cfg.ID = id
	cfg.Active = true

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export config: %w", err)
	}
	return nil
}

// CompanyProfileRepository reads and writes the single "about us" row.
type CompanyProfileRepository interface {
	Get(ctx context.Context) (*model.CompanyProfile, error)
	Save(ctx context.Context, profile *model.CompanyProfile) error
}

type sqliteCompanyProfileRepository struct {
	db *sqlx.DB
}

// NewCompanyProfileRepository creates a SQLite-backed CompanyProfileRepository.
func NewCompanyProfileRepository(db *sqlx.DB) CompanyProfileRepository {
	return &sqliteCompanyProfileRepository{db: db}
}

func (r *sqliteCompanyProfileRepository) Get(ctx context.Context) (*model.CompanyProfile, error) {
	var profile model.CompanyProfile
	err := r.db.GetContext(ctx, &profile, "SELECT * FROM company_profile WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting company profile: %w", err)
	}
	return &profile, nil
}

func (r *sqliteCompanyProfileRepository) Save(ctx context.Context, profile *model.CompanyProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO company_profile (id, name, intro, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, intro = excluded.intro, updated_at = CURRENT_TIMESTAMP
	`, profile.Name, profile.Intro)
	if err != nil {
		return fmt.Errorf("saving company profile: %w", err)
	}
	return nil
}
