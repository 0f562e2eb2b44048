// Package export persists generated drawings to disk. The output format
// follows the path extension, and the target is replaced atomically so a
// failed export never leaves a partial file behind.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/drafter/pkg/diag"
	"github.com/chazu/drafter/pkg/drawing"
	"github.com/chazu/drafter/pkg/host"
)

// ErrUnsupportedFormat is returned for a path whose extension names no
// known drawing format.
var ErrUnsupportedFormat = errors.New("unsupported drawing format")

// Error is an export failure for one target path.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Result is the outcome of one export.
type Result struct {
	Success bool
	Path    string
	Err     error
}

// encoder writes a sheet to a new file at path.
type encoder func(s *host.Sheet, path string) error

var encoders = map[string]encoder{
	".dxf": writeDXF,
	".svg": writeSVG,
}

// Formats returns the supported file extensions.
func Formats() []string {
	return []string{".dxf", ".svg"}
}

// Writer saves artifacts.
type Writer struct {
	sink diag.Sink
}

// New returns a writer. A nil sink discards events.
func New(sink diag.Sink) *Writer {
	if sink == nil {
		sink = diag.Discard
	}
	return &Writer{sink: sink}
}

// Export writes a's sheet to path, replacing any existing file. On
// success the artifact is released; on failure it is left open and the
// target is untouched.
func (w *Writer) Export(a *drawing.Artifact, path string) Result {
	if err := w.export(a, path); err != nil {
		e := &Error{Path: path, Err: err}
		diag.Recordf(w.sink, "%v", e)
		return Result{Path: path, Err: e}
	}
	if err := a.Release(); err != nil {
		diag.Recordf(w.sink, "export %s: release drawing: %v", path, err)
	}
	diag.Recordf(w.sink, "exported %d views to %s", a.ViewCount(), path)
	return Result{Success: true, Path: path}
}

func (w *Writer) export(a *drawing.Artifact, path string) error {
	if a == nil {
		return errors.New("no drawing to export")
	}
	if a.Released() {
		return errors.New("drawing already released")
	}
	if strings.TrimSpace(path) == "" {
		return errors.New("empty output path")
	}
	ext := strings.ToLower(filepath.Ext(path))
	enc, ok := encoders[ext]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}
	return writeAtomic(path, func(tmp string) error { return enc(a.Sheet(), tmp) })
}

// writeAtomic fills a temporary file next to dest and renames it over
// dest. The temporary file is removed on any failure.
func writeAtomic(dest string, fill func(tmp string) error) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".drafter-*"+filepath.Ext(dest))
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := fill(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := syncFile(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	_ = syncDir(dir)
	return nil
}

func syncFile(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// syncDir flushes directory metadata. Best effort.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
