// Package imaging resolves image references (local paths or http(s) URLs)
// into encoded bytes for the catalog renderer. It offers three modes:
// normalized (fit + flatten), background (cover fit), and original
// passthrough, plus synthetic placeholder generation for failed loads.
//
// Resizing and alpha flattening go through bimg (libvips bindings). Every
// failure is returned as a *LoadError; nothing in this package panics past
// the public boundary.
package imaging

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/h2non/bimg"
)

// Load stages, recorded on LoadError so callers and logs can tell a dead
// URL from a corrupt file.
const (
	StageFetch  = "fetch"
	StageResize = "resize"
	StageEncode = "encode"
)

// LoadError is the typed failure for any image pipeline operation. The
// renderer checks for it and substitutes a placeholder instead of aborting
// the document.
type LoadError struct {
	Ref   string // original path or URL
	Stage string // fetch, resize or encode
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("image %s failed for %q: %v", e.Stage, e.Ref, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

const (
	normalizedQuality = 95
	backgroundQuality = 90
)

// Loader fetches and transforms images. Safe for concurrent use; each
// export call drives it sequentially, but two exports may run at once.
type Loader struct {
	client   *http.Client
	maxBytes int64
}

// NewLoader creates a Loader with a bounded fetch timeout and response size.
// Zero values fall back to 10s and 10MB.
func NewLoader(fetchTimeout time.Duration, maxBytes int64) *Loader {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &Loader{
		client:   &http.Client{Timeout: fetchTimeout},
		maxBytes: maxBytes,
	}
}

// LoadOriginal fetches the referenced image and returns its bytes unmodified.
// Catalog card images favor source fidelity over file-size control, so no
// re-encoding happens here.
func (l *Loader) LoadOriginal(ctx context.Context, ref string) ([]byte, error) {
	data, err := l.fetch(ctx, ref)
	if err != nil {
		return nil, &LoadError{Ref: ref, Stage: StageFetch, Err: err}
	}
	return data, nil
}

// LoadNormalized fetches the referenced image, resizes it to fit inside
// (maxW, maxH) preserving aspect ratio (enlarging smaller sources), flattens
// any alpha channel onto white, and re-encodes as JPEG at quality 95.
func (l *Loader) LoadNormalized(ctx context.Context, ref string, maxW, maxH int) ([]byte, error) {
	data, err := l.fetch(ctx, ref)
	if err != nil {
		return nil, &LoadError{Ref: ref, Stage: StageFetch, Err: err}
	}

	img := bimg.NewImage(data)
	size, err := img.Size()
	if err != nil {
		return nil, &LoadError{Ref: ref, Stage: StageResize, Err: err}
	}

	w, h := fitInside(size.Width, size.Height, maxW, maxH)
	out, err := img.Process(bimg.Options{
		Width:   w,
		Height:  h,
		Type:    bimg.JPEG,
		Quality: normalizedQuality,
		Enlarge: true,
		// White flatten for any source alpha channel.
		Background:     bimg.Color{R: 255, G: 255, B: 255},
		Interpretation: bimg.InterpretationSRGB,
	})
	if err != nil {
		return nil, &LoadError{Ref: ref, Stage: StageResize, Err: err}
	}
	return out, nil
}

// LoadBackground fetches the referenced image and cover-fits it to exactly
// (targetW, targetH): the target rectangle is filled completely, cropping
// overflow around the center. Used only for full-page background composites.
func (l *Loader) LoadBackground(ctx context.Context, ref string, targetW, targetH int) ([]byte, error) {
	data, err := l.fetch(ctx, ref)
	if err != nil {
		return nil, &LoadError{Ref: ref, Stage: StageFetch, Err: err}
	}

	out, err := bimg.NewImage(data).Process(bimg.Options{
		Width:          targetW,
		Height:         targetH,
		Type:           bimg.JPEG,
		Quality:        backgroundQuality,
		Crop:           true,
		Gravity:        bimg.GravityCentre,
		Enlarge:        true,
		Interpretation: bimg.InterpretationSRGB,
	})
	if err != nil {
		return nil, &LoadError{Ref: ref, Stage: StageResize, Err: err}
	}
	return out, nil
}

// fetch resolves a reference to raw bytes: HTTP for http(s) URLs, the local
// filesystem for everything else.
func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty image reference")
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return l.fetchRemote(ctx, ref)
	}

	if _, err := os.Stat(ref); err != nil {
		return nil, fmt.Errorf("stat %s: %w", ref, err)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ref, err)
	}
	return data, nil
}

func (l *Loader) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "showcase-backend/1.0")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return data, nil
}

// fitInside scales (w, h) so it fits inside (maxW, maxH) without exceeding
// either bound, preserving aspect ratio. Smaller sources are scaled up.
func fitInside(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	outW := int(float64(w) * scale)
	outH := int(float64(h) * scale)
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return outW, outH
}
