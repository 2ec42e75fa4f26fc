package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedCatalog inserts two categories and three products with images and
// params, returning the category ids.
func seedCatalog(t *testing.T, db *sqlx.DB) (toysID, toolsID int64) {
	t.Helper()

	mustExec := func(query string, args ...any) int64 {
		res, err := db.Exec(query, args...)
		if err != nil {
			t.Fatalf("seeding: %v", err)
		}
		id, _ := res.LastInsertId()
		return id
	}

	toysID = mustExec("INSERT INTO categories (name, sort_order) VALUES ('Toys', 1)")
	toolsID = mustExec("INSERT INTO categories (name, sort_order) VALUES ('Tools', 2)")

	ball := mustExec("INSERT INTO products (name, category_id) VALUES ('Bouncy Ball', ?)", toysID)
	kite := mustExec("INSERT INTO products (name, category_id) VALUES ('Box Kite', ?)", toysID)
	drill := mustExec("INSERT INTO products (name, category_id) VALUES ('Hand Drill', ?)", toolsID)

	mustExec("INSERT INTO product_images (product_id, url, type, sort_order) VALUES (?, 'gallery/ball-side.jpg', 'sub', 1)", ball)
	mustExec("INSERT INTO product_images (product_id, url, type, sort_order) VALUES (?, 'gallery/ball.jpg', 'main', 0)", ball)
	mustExec("INSERT INTO product_params (product_id, key, value, sort_order) VALUES (?, 'Diameter', '6cm', 0)", ball)
	mustExec("INSERT INTO product_params (product_id, key, value, sort_order) VALUES (?, 'Color', 'Red', 1)", ball)
	mustExec("INSERT INTO product_images (product_id, url, type, sort_order) VALUES (?, 'gallery/drill.jpg', 'main', 0)", drill)
	_ = kite

	return toysID, toolsID
}

func TestProductRepository_ListAll(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewProductRepository(db)

	products, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}

	ball := products[0]
	if ball.Name != "Bouncy Ball" || ball.CategoryName != "Toys" {
		t.Errorf("unexpected first product: %+v", ball)
	}
	if len(ball.Images) != 2 || len(ball.Params) != 2 {
		t.Fatalf("expected 2 images and 2 params, got %d/%d", len(ball.Images), len(ball.Params))
	}
	// Images come back in sort order, so MainImage picks the main-tagged one.
	if ball.MainImage() != "gallery/ball.jpg" {
		t.Errorf("MainImage = %q, want gallery/ball.jpg", ball.MainImage())
	}
	if ball.Params[0].Key != "Diameter" {
		t.Errorf("params out of order: %+v", ball.Params)
	}

	kite := products[1]
	if len(kite.Images) != 0 || kite.MainImage() != "" {
		t.Errorf("expected no images for kite, got %+v", kite.Images)
	}
}

func TestProductRepository_ListByCategory(t *testing.T) {
	db := setupTestDB(t)
	_, toolsID := seedCatalog(t, db)
	repo := NewProductRepository(db)

	products, err := repo.ListByCategory(context.Background(), toolsID)
	if err != nil {
		t.Fatalf("ListByCategory failed: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Hand Drill" {
		t.Errorf("unexpected tools listing: %+v", products)
	}
}

func TestProductRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewProductRepository(db)

	products, err := repo.Search(context.Background(), "b", "name", "asc")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 matches for 'b', got %d", len(products))
	}
	if products[0].Name != "Bouncy Ball" || products[1].Name != "Box Kite" {
		t.Errorf("unexpected sort order: %+v", products)
	}
}

func TestProductRepository_SearchIgnoresUnknownSortField(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewProductRepository(db)

	// A hostile sort field must not reach SQL; the repository falls back to
	// the default column.
	products, err := repo.Search(context.Background(), "", "name; DROP TABLE products", "asc")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(products) != 3 {
		t.Errorf("expected all products, got %d", len(products))
	}
}

func TestValidProductSort(t *testing.T) {
	tests := []struct {
		field string
		want  bool
	}{
		{"", true},
		{"name", true},
		{"created_at", true},
		{"updated_at", true},
		{"price", false},
		{"name; --", false},
	}

	for _, tt := range tests {
		if got := ValidProductSort(tt.field); got != tt.want {
			t.Errorf("ValidProductSort(%q) = %v, want %v", tt.field, got, tt.want)
		}
	}
}

func TestProductRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewProductRepository(db)

	product, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if product.Name != "Bouncy Ball" || len(product.Images) != 2 {
		t.Errorf("unexpected product: %+v", product)
	}

	if _, err := repo.GetByID(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
