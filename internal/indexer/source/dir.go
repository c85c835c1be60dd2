package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/errors"
)

// DirSource reads files relative to a root directory. Absolute names are
// opened as given.
type DirSource struct {
	root string
}

// NewDirSource returns a source reading files under root.
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

// Open opens root/name.
func (s *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, name)
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NotFoundf("file %s", path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

// Root returns the directory documents are read from.
func (s *DirSource) Root() string {
	return s.root
}
