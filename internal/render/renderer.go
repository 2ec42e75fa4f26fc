package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
	"golang.org/x/image/font/opentype"

	"github.com/Blazer-YJJ/showcase-backend/internal/imaging"
	"github.com/Blazer-YJJ/showcase-backend/internal/model"
)

const (
	// fontFamily is the logical name the resolved system font is registered
	// under; builtinFont is the fallback when no usable font is found.
	fontFamily  = "catalog"
	builtinFont = "Helvetica"

	// Background composites are rasterized at roughly 150 DPI for A4.
	bgPixelWidth  = 1240
	bgPixelHeight = 1754

	cardPadding = 6.0

	// Cards show at most this many parameter pairs; the rest collapse into
	// a truncation marker.
	maxCardParams = 2
)

// ImageLoader is the slice of the image pipeline the renderer needs.
// *imaging.Loader satisfies it; tests supply fakes.
type ImageLoader interface {
	LoadOriginal(ctx context.Context, ref string) ([]byte, error)
	LoadBackground(ctx context.Context, ref string, targetW, targetH int) ([]byte, error)
}

// Options selects the per-export layout knobs.
type Options struct {
	// Columns is the columns-per-row value, 2 or 3.
	Columns int
	// BackgroundRef optionally names a full-page background image.
	BackgroundRef string
}

// Renderer produces finished catalog PDFs. One Renderer serves all exports;
// all per-call state lives in the document struct.
type Renderer struct {
	loader ImageLoader
	fonts  FontResolver
	logger *zap.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(loader ImageLoader, fonts FontResolver, logger *zap.Logger) *Renderer {
	return &Renderer{loader: loader, fonts: fonts, logger: logger}
}

// document is the per-export render state. customFont is an explicit field
// here rather than a side channel on the PDF object: every draw call
// consults it to pick between the registered font and the builtin fallback.
type document struct {
	pdf *fpdf.Fpdf
	geo Geometry

	title       string
	totalItems  int
	totalPages  int
	pageNum     int
	generatedAt time.Time

	customFont bool
	background bool
	bgFormat   string
}

// Render drives the full template: optional background composite, title on
// the first page, info bar on every page, then one card per product with
// page breaks at grid capacity. It returns the finished document bytes; the
// caller decides where they live.
func (r *Renderer) Render(ctx context.Context, products []model.Product, title string, opts Options) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, Margin)

	d := &document{
		pdf:         pdf,
		geo:         NewGeometry(opts.Columns),
		title:       title,
		totalItems:  len(products),
		generatedAt: time.Now(),
	}
	d.totalPages = d.geo.PageCount(len(products))
	d.customFont = r.registerFonts(pdf)
	r.prepareBackground(ctx, d, opts.BackgroundRef)

	d.startPage(true)
	for i := range products {
		if i > 0 && i%d.geo.ItemsPerPage == 0 {
			d.startPage(false)
		}
		r.drawCard(ctx, d, &products[i], i)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("finalizing document: %w", err)
	}
	return buf.Bytes(), nil
}

// registerFonts binds the resolved system font under the regular and bold
// roles (the same file serves both; a true bold variant is not required).
// Any failure leaves the builtin font active and never aborts the export.
func (r *Renderer) registerFonts(pdf *fpdf.Fpdf) bool {
	path, ok := r.fonts.Resolve()
	if !ok {
		r.logger.Warn("no system font found, using builtin font")
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("reading font file", zap.String("path", path), zap.Error(err))
		return false
	}

	// Validate before handing the bytes to fpdf: a bad font registration
	// would poison the whole document.
	if _, err := opentype.Parse(data); err != nil {
		r.logger.Warn("unusable font file", zap.String("path", path), zap.Error(err))
		return false
	}

	pdf.AddUTF8FontFromBytes(fontFamily, "", data)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", data)
	if pdf.Err() {
		r.logger.Warn("registering font", zap.String("path", path), zap.Error(pdf.Error()))
		pdf.ClearError()
		return false
	}

	r.logger.Debug("registered catalog font", zap.String("path", path))
	return true
}

// prepareBackground loads and registers the full-page background image once;
// pages reuse the registration. Load failures downgrade to plain pages.
func (r *Renderer) prepareBackground(ctx context.Context, d *document, ref string) {
	if ref == "" {
		return
	}

	data, err := r.loader.LoadBackground(ctx, ref, bgPixelWidth, bgPixelHeight)
	if err != nil {
		r.logger.Warn("background image unavailable", zap.String("ref", ref), zap.Error(err))
		return
	}

	format, err := imaging.DetectFormat(data)
	if err != nil {
		r.logger.Warn("background image format", zap.String("ref", ref), zap.Error(err))
		return
	}

	d.pdf.RegisterImageOptionsReader("page-background", fpdf.ImageOptions{ImageType: format}, bytes.NewReader(data))
	if d.pdf.Err() {
		r.logger.Warn("registering background image", zap.Error(d.pdf.Error()))
		d.pdf.ClearError()
		return
	}
	d.background = true
	d.bgFormat = format
}

// startPage opens a new physical page: background first so all drawing sits
// on top of it, then the title (first page only) and the running info bar.
func (d *document) startPage(withTitle bool) {
	d.pdf.AddPage()
	d.pageNum++

	if d.background {
		d.pdf.ImageOptions("page-background", 0, 0, PageWidth, PageHeight, false,
			fpdf.ImageOptions{ImageType: d.bgFormat}, 0, "")
	}

	if withTitle {
		d.setFont("B", 22)
		d.pdf.SetTextColor(20, 20, 20)
		d.pdf.SetXY(Margin, Margin+8)
		d.pdf.CellFormat(d.geo.UsableWidth, 28, d.title, "", 0, "C", false, 0, "")
	}

	d.drawInfoBar()
}

// drawInfoBar prints item count, page position and generation time above a
// thin rule line. It appears on every page at the same offset.
func (d *document) drawInfoBar() {
	info := fmt.Sprintf("%d items | page %d of %d | generated %s",
		d.totalItems, d.pageNum, d.totalPages, d.generatedAt.Format("2006-01-02 15:04:05"))

	d.setFont("", 9)
	d.pdf.SetTextColor(110, 110, 110)
	d.pdf.SetXY(Margin, Margin+58)
	d.pdf.CellFormat(d.geo.UsableWidth, 12, info, "", 0, "C", false, 0, "")

	ruleY := Margin + 76
	d.pdf.SetDrawColor(180, 180, 180)
	d.pdf.SetLineWidth(0.5)
	d.pdf.Line(Margin, ruleY, PageWidth-Margin, ruleY)
}

// drawCard renders one product: image area, name, category, and a truncated
// parameter summary.
func (r *Renderer) drawCard(ctx context.Context, d *document, p *model.Product, index int) {
	_, _, x, y := d.geo.Cell(index)

	innerW := d.geo.CardWidth - 2*cardPadding
	imageH := d.geo.ImageHeight - 2*cardPadding
	r.drawCardImage(ctx, d, p, index, x+cardPadding, y+cardPadding, innerW, imageH)

	textY := y + d.geo.ImageHeight + 2
	d.setFont("B", 11)
	d.pdf.SetTextColor(30, 30, 30)
	d.pdf.SetXY(x+cardPadding, textY)
	d.pdf.CellFormat(innerW, 14, truncateToWidth(d.pdf, p.Name, innerW), "", 2, "L", false, 0, "")

	d.setFont("", 9)
	d.pdf.SetTextColor(130, 130, 130)
	d.pdf.CellFormat(innerW, 12, truncateToWidth(d.pdf, p.CategoryName, innerW), "", 2, "L", false, 0, "")

	if summary := paramSummary(p.Params); summary != "" {
		d.setFont("", 8)
		d.pdf.SetTextColor(90, 90, 90)
		d.pdf.CellFormat(innerW, 11, truncateToWidth(d.pdf, summary, innerW), "", 2, "L", false, 0, "")
	}
}

// drawCardImage places the product's primary image at original fidelity,
// falling back to an exact-size placeholder when loading fails. If even the
// placeholder cannot be produced the card renders without an image; a single
// bad image never aborts the document.
func (r *Renderer) drawCardImage(ctx context.Context, d *document, p *model.Product, index int, x, y, w, h float64) {
	name := fmt.Sprintf("card-%d", index)
	data, format, ok := r.cardImageBytes(ctx, p)
	if !ok {
		var err error
		// Placeholder pixels at 2x the point size keep it crisp in viewers.
		data, err = imaging.Placeholder(int(w*2), int(h*2), "No Image")
		if err != nil {
			r.logger.Error("placeholder generation failed", zap.Int64("product", p.ID), zap.Error(err))
			return
		}
		format = "JPG"
		name = fmt.Sprintf("card-%d-ph", index)
	}

	d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: format}, bytes.NewReader(data))
	if d.pdf.Err() {
		r.logger.Warn("embedding card image", zap.Int64("product", p.ID), zap.Error(d.pdf.Error()))
		d.pdf.ClearError()
		return
	}
	d.pdf.ImageOptions(name, x, y, w, h, false, fpdf.ImageOptions{ImageType: format}, 0, "")
}

// cardImageBytes loads the primary product image as-is and sniffs a format
// the document builder can embed.
func (r *Renderer) cardImageBytes(ctx context.Context, p *model.Product) ([]byte, string, bool) {
	ref := p.MainImage()
	if ref == "" {
		return nil, "", false
	}

	data, err := r.loader.LoadOriginal(ctx, ref)
	if err != nil {
		r.logger.Warn("product image unavailable",
			zap.Int64("product", p.ID),
			zap.String("ref", ref),
			zap.Error(err),
		)
		return nil, "", false
	}

	format, err := imaging.DetectFormat(data)
	if err != nil {
		r.logger.Warn("product image format",
			zap.Int64("product", p.ID),
			zap.String("ref", ref),
			zap.Error(err),
		)
		return nil, "", false
	}
	return data, format, true
}

// setFont selects the registered catalog font when one was bound, otherwise
// the builtin fallback.
func (d *document) setFont(style string, size float64) {
	if d.customFont {
		d.pdf.SetFont(fontFamily, style, size)
	} else {
		d.pdf.SetFont(builtinFont, style, size)
	}
}

// truncateToWidth ellipsizes s so it fits within maxW at the current font.
func truncateToWidth(pdf *fpdf.Fpdf, s string, maxW float64) string {
	if s == "" || pdf.GetStringWidth(s) <= maxW {
		return s
	}

	const ellipsis = "..."
	for s != "" && pdf.GetStringWidth(s+ellipsis) > maxW {
		_, n := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-n]
	}
	return s + ellipsis
}

// paramSummary joins up to maxCardParams key/value pairs, appending a
// truncation marker when more exist. This display policy is fixed.
func paramSummary(params []model.Param) string {
	if len(params) == 0 {
		return ""
	}

	shown := params
	if len(shown) > maxCardParams {
		shown = shown[:maxCardParams]
	}

	parts := make([]string, 0, len(shown))
	for _, p := range shown {
		parts = append(parts, p.Key+": "+p.Value)
	}

	summary := strings.Join(parts, " | ")
	if len(params) > maxCardParams {
		summary += " ..."
	}
	return summary
}
