package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nakita628/hono-takibi-sub031/internal/packager"
)

// ErrStale is returned in check mode when generated output differs from
// what is on disk.
var ErrStale = errors.New("generated output is out of date")

// WriteOptions controls WriteFile.
type WriteOptions struct {
	// Check compares instead of writing.
	Check bool
}

// WriteFile writes data to path unless the file already holds it. The
// write goes through a temporary file and a rename so readers never see a
// partial file. In check mode nothing is written and a differing or
// missing file yields ErrStale.
func WriteFile(path string, data []byte, opt WriteOptions) (wrote bool, err error) {
	existing, readErr := os.ReadFile(path)
	if readErr == nil {
		if bytes.Equal(existing, data) {
			return false, nil
		}
		if opt.Check {
			return false, fmt.Errorf("%s differs: %w", path, ErrStale)
		}
	} else if !os.IsNotExist(readErr) {
		return false, fmt.Errorf("failed to read existing %s: %w", path, readErr)
	}

	if opt.Check {
		return false, fmt.Errorf("%s would be created: %w", path, ErrStale)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return true, nil
}

// MultiFileWriter writes every file of a plan
type MultiFileWriter struct {
	// Root is prepended to relative plan paths.
	Root    string
	Check   bool
	Workers int
}

// Summary reports what Write did.
type Summary struct {
	Written   []string
	Unchanged []string
	// Stale lists files that differ from the plan in check mode.
	Stale []string
}

// NewMultiFileWriter creates a new plan writer
func NewMultiFileWriter(root string, check bool) *MultiFileWriter {
	return &MultiFileWriter{Root: root, Check: check}
}

// Write renders and writes the files of p in plan order. The first I/O
// error aborts the remaining writes. In check mode every stale file is
// collected and reported together as ErrStale.
func (w *MultiFileWriter) Write(p *packager.Plan) (Summary, error) {
	var sum Summary
	rendered := RenderAll(p, w.Workers)
	for i, f := range p.Files {
		path := f.Path
		if w.Root != "" && !filepath.IsAbs(path) {
			path = filepath.Join(w.Root, path)
		}
		wrote, err := WriteFile(path, rendered[i], WriteOptions{Check: w.Check})
		switch {
		case errors.Is(err, ErrStale):
			sum.Stale = append(sum.Stale, path)
		case err != nil:
			return sum, fmt.Errorf("failed to write %s: %w", f.Path, err)
		case wrote:
			sum.Written = append(sum.Written, path)
		default:
			sum.Unchanged = append(sum.Unchanged, path)
		}
	}
	if len(sum.Stale) > 0 {
		return sum, fmt.Errorf("%d file(s) differ: %w", len(sum.Stale), ErrStale)
	}
	return sum, nil
}

