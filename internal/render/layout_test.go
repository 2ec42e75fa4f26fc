package render

import (
	"math"
	"testing"
)

func TestNewGeometry(t *testing.T) {
	tests := []struct {
		name         string
		columns      int
		wantColumns  int
		wantItemsPer int
	}{
		{"two columns", 2, 2, 6},
		{"three columns", 3, 3, 9},
		{"zero clamps to default", 0, 2, 6},
		{"too many clamps to default", 5, 2, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := NewGeometry(tt.columns)
			if geo.Columns != tt.wantColumns {
				t.Errorf("Columns = %d, want %d", geo.Columns, tt.wantColumns)
			}
			if geo.ItemsPerPage != tt.wantItemsPer {
				t.Errorf("ItemsPerPage = %d, want %d", geo.ItemsPerPage, tt.wantItemsPer)
			}
		})
	}
}

func TestGeometry_DerivedMeasurements(t *testing.T) {
	geo := NewGeometry(2)

	wantUsableW := PageWidth - 2*Margin
	wantUsableH := PageHeight - 2*Margin
	wantCardH := (wantUsableH - headerHeight) / RowsPerPage

	if math.Abs(geo.UsableWidth-wantUsableW) > 1e-9 {
		t.Errorf("UsableWidth = %f, want %f", geo.UsableWidth, wantUsableW)
	}
	if math.Abs(geo.CardWidth-wantUsableW/2) > 1e-9 {
		t.Errorf("CardWidth = %f, want %f", geo.CardWidth, wantUsableW/2)
	}
	if math.Abs(geo.CardHeight-wantCardH) > 1e-9 {
		t.Errorf("CardHeight = %f, want %f", geo.CardHeight, wantCardH)
	}
	if math.Abs(geo.ImageHeight-wantCardH*0.6) > 1e-9 {
		t.Errorf("ImageHeight = %f, want %f", geo.ImageHeight, wantCardH*0.6)
	}
	if math.Abs(geo.ImageHeight+geo.TextHeight-geo.CardHeight) > 1e-9 {
		t.Error("image and text areas must exactly split the card height")
	}
}

func TestGeometry_PageCount(t *testing.T) {
	for _, columns := range []int{2, 3} {
		geo := NewGeometry(columns)
		for n := 0; n <= 40; n++ {
			want := 1
			if n > 0 {
				want = int(math.Ceil(float64(n) / float64(geo.ItemsPerPage)))
			}
			if got := geo.PageCount(n); got != want {
				t.Errorf("columns=%d n=%d: PageCount = %d, want %d", columns, n, got, want)
			}
		}
	}
}

func TestGeometry_CellWithinPrintableArea(t *testing.T) {
	for _, columns := range []int{2, 3} {
		geo := NewGeometry(columns)
		for i := 0; i < geo.ItemsPerPage; i++ {
			_, _, x, y := geo.Cell(i)
			if x < Margin-1e-9 || x+geo.CardWidth > PageWidth-Margin+1e-9 {
				t.Errorf("columns=%d index=%d: card exceeds horizontal printable area (x=%f)", columns, i, x)
			}
			if y < Margin-1e-9 || y+geo.CardHeight > PageHeight-Margin+1e-9 {
				t.Errorf("columns=%d index=%d: card exceeds vertical printable area (y=%f)", columns, i, y)
			}
		}
	}
}

func TestGeometry_CellsDoNotOverlap(t *testing.T) {
	for _, columns := range []int{2, 3} {
		geo := NewGeometry(columns)
		type rect struct{ x, y float64 }
		cells := make([]rect, geo.ItemsPerPage)
		for i := range cells {
			_, _, x, y := geo.Cell(i)
			cells[i] = rect{x, y}
		}

		for i := 0; i < len(cells); i++ {
			for j := i + 1; j < len(cells); j++ {
				xOverlap := cells[i].x < cells[j].x+geo.CardWidth-1e-9 && cells[j].x < cells[i].x+geo.CardWidth-1e-9
				yOverlap := cells[i].y < cells[j].y+geo.CardHeight-1e-9 && cells[j].y < cells[i].y+geo.CardHeight-1e-9
				if xOverlap && yOverlap {
					t.Errorf("columns=%d: cells %d and %d overlap", columns, i, j)
				}
			}
		}
	}
}

func TestGeometry_CellWrapsDocumentIndex(t *testing.T) {
	geo := NewGeometry(2)

	// Index 7 on a 6-per-page grid lands in the second slot of its page.
	rowA, colA, xA, yA := geo.Cell(7)
	rowB, colB, xB, yB := geo.Cell(1)
	if rowA != rowB || colA != colB || xA != xB || yA != yB {
		t.Error("document-wide index must reduce to the same slot as its per-page index")
	}
}
