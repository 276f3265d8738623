package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dshills/selectword/internal/engine"
)

// Document is the loaded text together with its selection engine.
type Document struct {
	// Path is the file path (empty for standard input).
	Path string

	// Name is the display name (file name or "<stdin>").
	Name string

	// Engine holds the buffer, cursor and selection.
	Engine *engine.Engine

	// version counts reloads from disk.
	version atomic.Int64
}

// LoadDocument reads the document from path, or from r when path is empty
// or "-".
func LoadDocument(path string, r io.Reader, opts ...engine.Option) (*Document, error) {
	if path == "" || path == "-" {
		if r == nil {
			return nil, fmt.Errorf("load document: no input")
		}
		eng, err := engine.NewFromReader(r, opts...)
		if err != nil {
			return nil, NewOperationError("load", "<stdin>", err)
		}
		return &Document{Name: "<stdin>", Engine: eng}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewOperationError("load", path, err)
	}

	return &Document{
		Path:   path,
		Name:   filepath.Base(path),
		Engine: engine.New(string(data), opts...),
	}, nil
}

// IsStdin returns true if the document was read from standard input.
func (d *Document) IsStdin() bool {
	return d.Path == ""
}

// Reload re-reads the file. The cursor is clamped to the new text and the
// selection is cleared.
func (d *Document) Reload() error {
	if d.IsStdin() {
		return nil
	}

	data, err := os.ReadFile(d.Path)
	if err != nil {
		return NewOperationError("reload", d.Path, err)
	}

	d.Engine.Reset(string(data))
	d.version.Add(1)
	return nil
}

// Version returns the number of times the document was reloaded.
func (d *Document) Version() int64 {
	return d.version.Load()
}
