package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	placeholderFill  = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	placeholderInk   = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
	placeholderQuality = 90
)

var labelFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// Placeholder synthesizes a flat grey rectangle with a centered label,
// encoded as JPEG. It stands in for any card or background image that could
// not be loaded and has no external dependency: the label font is the
// embedded Go Regular face, so under normal conditions this cannot fail.
func Placeholder(w, h int, label string) ([]byte, error) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	canvas := imaging.New(w, h, placeholderFill)
	drawLabel(canvas, w, h, label)

	var buf bytes.Buffer
	err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(placeholderQuality))
	if err != nil {
		return nil, &LoadError{Ref: "placeholder", Stage: StageEncode, Err: err}
	}
	return buf.Bytes(), nil
}

// drawLabel centers the label text on the canvas. Text that cannot be drawn
// (font parse failure, degenerate canvas) is simply skipped: a blank
// placeholder is still a valid placeholder.
func drawLabel(canvas *image.NRGBA, w, h int, label string) {
	if label == "" {
		return
	}

	parsed, err := labelFont()
	if err != nil {
		return
	}

	// Scale the label with the placeholder, within sane bounds.
	size := float64(h) / 8
	if size < 10 {
		size = 10
	}
	if size > 28 {
		size = 28
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return
	}
	defer face.Close()

	drawer := &xfont.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(placeholderInk),
		Face: face,
	}

	width := drawer.MeasureString(label)
	metrics := face.Metrics()
	drawer.Dot = fixed.Point26_6{
		X: (fixed.I(w) - width) / 2,
		Y: (fixed.I(h) + metrics.Ascent - metrics.Descent) / 2,
	}
	drawer.DrawString(label)
}

// DetectFormat sniffs the encoded image format from its magic bytes. The
// renderer needs this to register raw pass-through bytes with the document
// builder, which does not auto-detect from readers.
func DetectFormat(data []byte) (string, error) {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "JPG", nil
	case len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "PNG", nil
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return "GIF", nil
	default:
		return "", fmt.Errorf("unsupported image format")
	}
}
