package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"regexp"
	"strconv"
	"testing"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/Blazer-YJJ/showcase-backend/internal/model"
)

// fakeLoader serves canned bytes or a canned error without touching the
// network or filesystem.
type fakeLoader struct {
	data []byte
	err  error

	originalCalls   int
	backgroundCalls int
}

func (f *fakeLoader) LoadOriginal(ctx context.Context, ref string) ([]byte, error) {
	f.originalCalls++
	return f.data, f.err
}

func (f *fakeLoader) LoadBackground(ctx context.Context, ref string, targetW, targetH int) ([]byte, error) {
	f.backgroundCalls++
	return f.data, f.err
}

// fakeResolver reports no usable system font, forcing the builtin fallback
// so tests never depend on fonts installed on the host.
type fakeResolver struct {
	path string
	ok   bool
}

func (f fakeResolver) Resolve() (string, bool) { return f.path, f.ok }

func testJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test jpeg: %v", err)
	}
	return buf.Bytes()
}

func testProducts(t *testing.T, n int) []model.Product {
	t.Helper()

	products := make([]model.Product, n)
	for i := range products {
		products[i] = model.Product{
			ID:           int64(i + 1),
			Name:         fmt.Sprintf("Product %d", i+1),
			CategoryName: "Widgets",
			Images:       []model.Image{{URL: fmt.Sprintf("img-%d.jpg", i+1), Type: model.ImageMain}},
			Params: []model.Param{
				{Key: "Size", Value: "L"},
				{Key: "Color", Value: "Blue"},
			},
		}
	}
	return products
}

var pageCountRe = regexp.MustCompile(`/Count (\d+)`)

// pdfPageCount extracts the page count from the document's page tree. The
// page tree dictionary is written uncompressed, so this works regardless of
// content stream compression.
func pdfPageCount(t *testing.T, data []byte) int {
	t.Helper()

	m := pageCountRe.FindSubmatch(data)
	if m == nil {
		t.Fatal("no page tree found in output")
	}
	n, err := strconv.Atoi(string(m[1]))
	if err != nil {
		t.Fatalf("parsing page count: %v", err)
	}
	return n
}

func newTestRenderer(loader ImageLoader) *Renderer {
	return NewRenderer(loader, fakeResolver{}, zap.NewNop())
}

func TestRender_EmptyCatalogProducesOnePage(t *testing.T) {
	r := newTestRenderer(&fakeLoader{err: errors.New("should not be called")})

	data, err := r.Render(context.Background(), nil, "Empty Catalog", Options{Columns: 2})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := pdfPageCount(t, data); got != 1 {
		t.Errorf("expected 1 page for empty catalog, got %d", got)
	}
}

func TestRender_SevenItemsTwoColumnsIsTwoPages(t *testing.T) {
	loader := &fakeLoader{data: testJPEG(t)}
	r := newTestRenderer(loader)

	data, err := r.Render(context.Background(), testProducts(t, 7), "Catalog", Options{Columns: 2})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := pdfPageCount(t, data); got != 2 {
		t.Errorf("expected 2 pages for 7 items at 2 columns, got %d", got)
	}
	if loader.originalCalls != 7 {
		t.Errorf("expected one image load per product, got %d", loader.originalCalls)
	}
}

func TestRender_ThreeColumnsCapacity(t *testing.T) {
	loader := &fakeLoader{data: testJPEG(t)}
	r := newTestRenderer(loader)

	// 9 items fit exactly one page at 3 columns.
	data, err := r.Render(context.Background(), testProducts(t, 9), "Catalog", Options{Columns: 3})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := pdfPageCount(t, data); got != 1 {
		t.Errorf("expected 1 page for 9 items at 3 columns, got %d", got)
	}
}

func TestRender_FailedImagesFallBackToPlaceholder(t *testing.T) {
	loader := &fakeLoader{err: errors.New("connection refused")}
	r := newTestRenderer(loader)

	data, err := r.Render(context.Background(), testProducts(t, 3), "Catalog", Options{Columns: 2})
	if err != nil {
		t.Fatalf("Render must survive image load failures, got: %v", err)
	}
	if got := pdfPageCount(t, data); got != 1 {
		t.Errorf("expected 1 page, got %d", got)
	}
}

func TestRender_ProductWithoutImagesGetsPlaceholder(t *testing.T) {
	loader := &fakeLoader{data: testJPEG(t)}
	r := newTestRenderer(loader)

	products := []model.Product{{ID: 1, Name: "Bare", CategoryName: "Misc"}}
	_, err := r.Render(context.Background(), products, "Catalog", Options{Columns: 2})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if loader.originalCalls != 0 {
		t.Error("loader must not be called for a product with no images")
	}
}

func TestRender_BackgroundFailureDowngradesToPlainPages(t *testing.T) {
	loader := &fakeLoader{err: errors.New("timeout")}
	r := newTestRenderer(loader)

	data, err := r.Render(context.Background(), nil, "Catalog", Options{Columns: 2, BackgroundRef: "https://example.com/bg.jpg"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if loader.backgroundCalls != 1 {
		t.Errorf("expected one background load attempt, got %d", loader.backgroundCalls)
	}
	if got := pdfPageCount(t, data); got != 1 {
		t.Errorf("expected 1 page, got %d", got)
	}
}

func TestParamSummary(t *testing.T) {
	tests := []struct {
		name   string
		params []model.Param
		want   string
	}{
		{"none", nil, ""},
		{"one", []model.Param{{Key: "Size", Value: "L"}}, "Size: L"},
		{
			"two",
			[]model.Param{{Key: "Size", Value: "L"}, {Key: "Color", Value: "Red"}},
			"Size: L | Color: Red",
		},
		{
			"four shows two plus marker",
			[]model.Param{
				{Key: "Size", Value: "L"},
				{Key: "Color", Value: "Red"},
				{Key: "Weight", Value: "2kg"},
				{Key: "Origin", Value: "DE"},
			},
			"Size: L | Color: Red ...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paramSummary(tt.params); got != tt.want {
				t.Errorf("paramSummary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateToWidth(t *testing.T) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 11)

	short := "abc"
	if got := truncateToWidth(pdf, short, 200); got != short {
		t.Errorf("short string must pass through, got %q", got)
	}

	long := "this product name is definitely far too long to fit in a narrow card"
	got := truncateToWidth(pdf, long, 80)
	if got == long {
		t.Error("expected truncation")
	}
	if len(got) < 4 || got[len(got)-3:] != "..." {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if pdf.GetStringWidth(got) > 80 {
		t.Errorf("truncated string still exceeds width: %f", pdf.GetStringWidth(got))
	}
}
