// Package source provides the named text streams a build pass reads: the
// manifest, the noise-word list and the documents themselves. Sources are
// backed by a directory on disk or by a PostgreSQL table.
package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// DocumentSource opens named text streams. Open returns an error wrapping
// errors.ErrNotFound when name does not exist. Callers must close the
// returned reader.
type DocumentSource interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// ReadLines returns the whitespace-delimited entries of the named stream,
// in order. Manifests and noise-word lists are conventionally one entry per
// line.
func ReadLines(ctx context.Context, src DocumentSource, name string) ([]string, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Split(bufio.ScanWords)
	var entries []string
	for scanner.Scan() {
		entries = append(entries, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return entries, nil
}
