package model

import "time"

// Banner is a storefront carousel entry.
type Banner struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	LinkURL   string    `db:"link_url" json:"link_url"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Announcement is a short storefront notice.
type Announcement struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
