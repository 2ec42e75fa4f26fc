package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Blazer-YJJ/showcase-backend/internal/model"
)

// ErrNotFound is the sentinel for any missing record. Callers check it with
// errors.Is.
var ErrNotFound = errors.New("record not found")

// productSortColumns whitelists the sortable fields for product search.
// SQL column names cannot be parameterized, so anything outside this map is
// rejected before it reaches a query.
var productSortColumns = map[string]string{
	"name":       "p.name",
	"created_at": "p.created_at",
	"updated_at": "p.updated_at",
}

// ValidProductSort reports whether field is an accepted sort key. Empty
// means "use the default".
func ValidProductSort(field string) bool {
	if field == "" {
		return true
	}
	_, ok := productSortColumns[field]
	return ok
}

// ProductRepository supplies product snapshots: fully populated products
// with their ordered image and parameter lists. All queries are read-only.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)
	Search(ctx context.Context, keyword, sortField, sortOrder string) ([]model.Product, error)
}

type sqliteProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a SQLite-backed ProductRepository.
func NewProductRepository(db *sqlx.DB) ProductRepository {
	return &sqliteProductRepository{db: db}
}

const productSelect = `
	SELECT p.id, p.name, p.category_id, c.name AS category_name, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
`

func (r *sqliteProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.GetContext(ctx, &product, productSelect+" WHERE p.id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	products := []model.Product{product}
	if err := r.attachDetails(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *sqliteProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	return r.list(ctx, productSelect+" ORDER BY p.id ASC")
}

func (r *sqliteProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	return r.list(ctx, productSelect+" WHERE p.category_id = ? ORDER BY p.id ASC", categoryID)
}

// Search returns a keyword-filtered, sorted, unpaged snapshot. The sort
// field must pass the whitelist; unknown fields fall back to created_at.
func (r *sqliteProductRepository) Search(ctx context.Context, keyword, sortField, sortOrder string) ([]model.Product, error) {
	column, ok := productSortColumns[sortField]
	if !ok {
		column = "p.created_at"
	}

	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}

	query := productSelect + " WHERE p.name LIKE ? ORDER BY " + column + " " + order
	return r.list(ctx, query, "%"+keyword+"%")
}

func (r *sqliteProductRepository) list(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	if err := r.attachDetails(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// attachDetails loads images and params for the given products in two
// batched queries and distributes them in sort order.
func (r *sqliteProductRepository) attachDetails(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	index := make(map[int64]*model.Product, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = &products[i]
	}

	query, args, err := sqlx.In(
		"SELECT id, product_id, url, type, sort_order FROM product_images WHERE product_id IN (?) ORDER BY product_id, sort_order, id", ids)
	if err != nil {
		return fmt.Errorf("building image query: %w", err)
	}
	var images []model.Image
	if err := r.db.SelectContext(ctx, &images, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("loading product images: %w", err)
	}
	for _, img := range images {
		p := index[img.ProductID]
		p.Images = append(p.Images, img)
	}

	query, args, err = sqlx.In(
		"SELECT id, product_id, key, value, sort_order FROM product_params WHERE product_id IN (?) ORDER BY product_id, sort_order, id", ids)
	if err != nil {
		return fmt.Errorf("building param query: %w", err)
	}
	var params []model.Param
	if err := r.db.SelectContext(ctx, &params, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("loading product params: %w", err)
	}
	for _, param := range params {
		p := index[param.ProductID]
		p.Params = append(p.Params, param)
	}

	return nil
}
