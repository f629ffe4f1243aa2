// Package file reads the input table from the local filesystem.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens one file on disk.
type Local struct{ path string }

func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the configured file path.
func (l *Local) Path() string { return l.path }

// Open returns the file for reading. A canceled ctx short-circuits before the
// filesystem is touched; a directory is rejected. Errors keep the underlying
// cause for errors.Is.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", l.path, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: is a directory", l.path)
	}
	return f, nil
}
