package render

import (
	"os"
	"runtime"
)

// FontResolver locates a usable TTF font file for the document. It is an
// interface so tests can inject a fake instead of probing the real
// filesystem.
type FontResolver interface {
	// Resolve returns the path of the first available candidate font and
	// whether one was found at all.
	Resolve() (string, bool)
}

// SystemFontResolver probes an ordered candidate list on disk. Candidates
// supplied by configuration are tried before the built-in per-platform list.
type SystemFontResolver struct {
	candidates []string
}

// NewSystemFontResolver builds a resolver from optional extra candidates
// plus the defaults for the current platform.
func NewSystemFontResolver(extra []string) *SystemFontResolver {
	candidates := make([]string, 0, len(extra)+4)
	candidates = append(candidates, extra...)
	candidates = append(candidates, defaultCandidates(runtime.GOOS)...)
	return &SystemFontResolver{candidates: candidates}
}

// Resolve returns the first candidate that exists on disk.
func (r *SystemFontResolver) Resolve() (string, bool) {
	for _, path := range r.candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// defaultCandidates lists well-known system font locations per platform.
// Only single-face .ttf files are listed; .ttc collections cannot be
// registered with the document builder.
func defaultCandidates(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			`C:\Windows\Fonts\simhei.ttf`,
			`C:\Windows\Fonts\arial.ttf`,
			`C:\Windows\Fonts\verdana.ttf`,
		}
	case "darwin":
		return []string{
			"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
			"/System/Library/Fonts/Supplemental/Arial.ttf",
			"/Library/Fonts/Arial.ttf",
		}
	default:
		return []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/truetype/freefont/FreeSans.ttf",
		}
	}
}
