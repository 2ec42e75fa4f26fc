// Package render turns a product snapshot into a paginated catalog PDF:
// grid geometry, platform font resolution, and the page-by-page document
// renderer built on go-pdf/fpdf.
package render

// Fixed page format: ISO A4 portrait in points with 15 pt margins. Every
// geometry computation derives from these constants, so they must not change
// without breaking output compatibility.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
	Margin     = 15.0

	// RowsPerPage is fixed; only columns-per-row is configurable.
	RowsPerPage = 3

	// headerHeight reserves room for the title and info bar. It is applied
	// on every page, including continuation pages that carry no title; the
	// resulting slack is intentional and keeps card height constant across
	// the document.
	headerHeight = 100.0

	// imageAreaRatio splits each card between image and text.
	imageAreaRatio = 0.6
)

// Geometry holds the derived grid measurements for one export call.
// Cards tile edge to edge: no inter-card gutter.
type Geometry struct {
	Columns      int
	UsableWidth  float64
	UsableHeight float64
	CardWidth    float64
	CardHeight   float64
	ImageHeight  float64
	TextHeight   float64
	ItemsPerPage int
}

// NewGeometry computes the grid for the given columns-per-row. Values
// outside {2,3} are clamped to the default of 2.
func NewGeometry(columns int) Geometry {
	if columns < 2 || columns > 3 {
		columns = 2
	}

	usableW := PageWidth - 2*Margin
	usableH := PageHeight - 2*Margin
	cardH := (usableH - headerHeight) / RowsPerPage

	return Geometry{
		Columns:      columns,
		UsableWidth:  usableW,
		UsableHeight: usableH,
		CardWidth:    usableW / float64(columns),
		CardHeight:   cardH,
		ImageHeight:  cardH * imageAreaRatio,
		TextHeight:   cardH * (1 - imageAreaRatio),
		ItemsPerPage: columns * RowsPerPage,
	}
}

// ContentTop is the Y coordinate where the card grid starts on every page.
func (g Geometry) ContentTop() float64 {
	return Margin + headerHeight
}

// Cell maps a zero-based item index to its grid slot and absolute placement.
// The index is reduced modulo ItemsPerPage, so callers may pass either a
// per-page or a document-wide index.
func (g Geometry) Cell(index int) (row, col int, x, y float64) {
	slot := index % g.ItemsPerPage
	row = slot / g.Columns
	col = slot % g.Columns
	x = Margin + float64(col)*g.CardWidth
	y = g.ContentTop() + float64(row)*g.CardHeight
	return row, col, x, y
}

// PageCount returns the number of pages needed for n items, floored at one:
// an empty catalog still produces a title page.
func (g Geometry) PageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + g.ItemsPerPage - 1) / g.ItemsPerPage
}
