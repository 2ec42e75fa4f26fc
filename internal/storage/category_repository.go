package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/Blazer-YJJ/showcase-backend/internal/model"
)

// CategoryRepository reads the category tree (a flat list in this system).
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
}

type sqliteCategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a SQLite-backed CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &sqliteCategoryRepository{db: db}
}

func (r *sqliteCategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category
	err := r.db.GetContext(ctx, &category, "SELECT * FROM categories WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting category %d: %w", id, err)
	}
	return &category, nil
}

func (r *sqliteCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY sort_order, id")
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}
