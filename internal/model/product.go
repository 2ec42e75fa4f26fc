// Package model defines the domain types for the showcase backend.
// Struct tags map fields for sqlx (`db:`) and for JSON API responses (`json:`).
package model

import "time"

// ImageType distinguishes the primary card image from additional gallery shots.
type ImageType string

const (
	ImageMain ImageType = "main"
	ImageSub  ImageType = "sub"
)

// Image is one product image reference: a local path or an http(s) URL.
type Image struct {
	ID        int64     `db:"id" json:"id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	URL       string    `db:"url" json:"url"`
	Type      ImageType `db:"type" json:"type"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
}

// Param is one key/value specification pair shown on a catalog card.
type Param struct {
	ID        int64  `db:"id" json:"id"`
	ProductID int64  `db:"product_id" json:"product_id"`
	Key       string `db:"key" json:"key"`
	Value     string `db:"value" json:"value"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

// Product is the catalog entity. For export calls it is treated as a
// read-only snapshot: built once by the repository, never mutated by the
// renderer, discarded when the document is finished.
type Product struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	CategoryID   int64     `db:"category_id" json:"category_id"`
	CategoryName string    `db:"category_name" json:"category_name"`
	Images       []Image   `db:"-" json:"images"`
	Params       []Param   `db:"-" json:"params"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// MainImage returns the URL of the primary image: the lowest-sorted image
// tagged "main", falling back to the first image of any type. Empty string
// when the product has no images at all.
func (p *Product) MainImage() string {
	for _, img := range p.Images {
		if img.Type == ImageMain {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

// Category groups products for browsing and category-scoped exports.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
