package model

import "time"

// Columns-per-row bounds for the catalog grid. Anything else is rejected at
// the API boundary and by ExportConfig.Normalize.
const (
	MinColumns = 2
	MaxColumns = 3

	// DefaultColumns applies when no export config is active.
	DefaultColumns = 2
)

// ExportConfig is the optional, admin-managed layout configuration for
// catalog exports. At most one row is active at a time.
type ExportConfig struct {
	ID int64 `db:"id" json:"id"`

	// CompanyName is used for generated filenames; CompanyTitleName is the
	// heading printed on the first page. They are kept separate because
	// filenames are usually the short form.
	CompanyName      string `db:"company_name" json:"company_name"`
	CompanyTitleName string `db:"company_title_name" json:"company_title_name"`

	// BackgroundImage is a local path or URL composited full-bleed under
	// every page. Nil means plain white pages.
	BackgroundImage *string `db:"background_image" json:"background_image,omitempty"`

	ColumnsPerRow int       `db:"columns_per_row" json:"columns_per_row"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Normalize clamps ColumnsPerRow into {2,3}, defaulting invalid values.
func (c *ExportConfig) Normalize() {
	if c.ColumnsPerRow < MinColumns || c.ColumnsPerRow > MaxColumns {
		c.ColumnsPerRow = DefaultColumns
	}
}

// CompanyProfile is the "about us" record consulted when no export config
// supplies company names.
type CompanyProfile struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Intro     string    `db:"intro" json:"intro"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ExportResult describes one finished catalog document. The storage path is
// only populated after the file has been fully written and renamed into
// place, so a returned result always points at a complete document.
type ExportResult struct {
	DisplayName string    `json:"display_name"`
	StoragePath string    `json:"storage_path"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GeneratedAtISO returns the generation timestamp in RFC 3339 form, the
// format exposed on the API.
func (r *ExportResult) GeneratedAtISO() string {
	return r.GeneratedAt.Format(time.RFC3339)
}
