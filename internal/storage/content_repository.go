package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Blazer-YJJ/showcase-backend/internal/model"
)

// BannerRepository manages storefront carousel entries.
type BannerRepository interface {
	List(ctx context.Context, onlyEnabled bool) ([]model.Banner, error)
	Create(ctx context.Context, banner *model.Banner) error
	Delete(ctx context.Context, id int64) error
}

type sqliteBannerRepository struct {
	db *sqlx.DB
}

// NewBannerRepository creates a SQLite-backed BannerRepository.
func NewBannerRepository(db *sqlx.DB) BannerRepository {
	return &sqliteBannerRepository{db: db}
}

func (r *sqliteBannerRepository) List(ctx context.Context, onlyEnabled bool) ([]model.Banner, error) {
	query := "SELECT * FROM banners"
	if onlyEnabled {
		query += " WHERE enabled = 1"
	}
	query += " ORDER BY sort_order, id"

	var banners []model.Banner
	if err := r.db.SelectContext(ctx, &banners, query); err != nil {
		return nil, fmt.Errorf("listing banners: %w", err)
	}
	return banners, nil
}

func (r *sqliteBannerRepository) Create(ctx context.Context, banner *model.Banner) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO banners (title, image_url, link_url, sort_order, enabled)
		VALUES (:title, :image_url, :link_url, :sort_order, :enabled)
	`, banner)
	if err != nil {
		return fmt.Errorf("creating banner: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	banner.ID = id
	return nil
}

func (r *sqliteBannerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM banners WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting banner %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AnnouncementRepository manages storefront notices.
type AnnouncementRepository interface {
	List(ctx context.Context, onlyEnabled bool) ([]model.Announcement, error)
	Create(ctx context.Context, announcement *model.Announcement) error
	Delete(ctx context.Context, id int64) error
}

type sqliteAnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates a SQLite-backed AnnouncementRepository.
func NewAnnouncementRepository(db *sqlx.DB) AnnouncementRepository {
	return &sqliteAnnouncementRepository{db: db}
}

func (r *sqliteAnnouncementRepository) List(ctx context.Context, onlyEnabled bool) ([]model.Announcement, error) {
	query := "SELECT * FROM announcements"
	if onlyEnabled {
		query += " WHERE enabled = 1"
	}
	query += " ORDER BY id DESC"

	var announcements []model.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query); err != nil {
		return nil, fmt.Errorf("listing announcements: %w", err)
	}
	return announcements, nil
}

func (r *sqliteAnnouncementRepository) Create(ctx context.Context, announcement *model.Announcement) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO announcements (title, content, enabled)
		VALUES (:title, :content, :enabled)
	`, announcement)
	if err != nil {
		return fmt.Errorf("creating announcement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	announcement.ID = id
	return nil
}

func (r *sqliteAnnouncementRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting announcement %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
