package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// OutputFS writes finished catalog documents into the export directory.
// Documents are written to a temporary file and renamed into place, so a
// path is only ever visible once the bytes behind it are complete.
type OutputFS struct {
	dir string
}

// NewOutputFS creates the export directory if needed.
func NewOutputFS(dir string) (*OutputFS, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}
	return &OutputFS{dir: dir}, nil
}

// Dir returns the export directory path.
func (o *OutputFS) Dir() string {
	return o.dir
}

// Write persists data under name, resolving collisions by appending a
// millisecond timestamp instead of overwriting. It returns the final name
// and absolute path.
func (o *OutputFS) Write(name string, data []byte) (string, string, error) {
	final := filepath.Join(o.dir, name)
	if _, err := os.Stat(final); err == nil {
		ext := filepath.Ext(name)
		stem := name[:len(name)-len(ext)]
		name = fmt.Sprintf("%s_%d%s", stem, time.Now().UnixMilli(), ext)
		final = filepath.Join(o.dir, name)
	}

	tmp, err := os.CreateTemp(o.dir, ".export-*")
	if err != nil {
		return "", "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", "", fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", "", fmt.Errorf("closing document: %w", err)
	}

	if err := os.Rename(tmpPath, final); err != nil {
		os.Remove(tmpPath)
		return "", "", fmt.Errorf("publishing document: %w", err)
	}

	return name, final, nil
}
