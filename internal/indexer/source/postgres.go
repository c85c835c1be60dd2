package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lib/pq"

	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/errors"
)

// PostgresSource serves named texts from a table with (name TEXT PRIMARY KEY,
// body TEXT) columns. Manifests and noise-word lists live in the same table
// as the documents.
type PostgresSource struct {
	db    *sql.DB
	query string
}

// NewPostgresSource reads from table on db. The table name is quoted, so it
// may be any identifier.
func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	return &PostgresSource{
		db:    db,
		query: fmt.Sprintf("SELECT body FROM %s WHERE name = $1", pq.QuoteIdentifier(table)),
	}
}

// Open returns the body of the row named name.
func (s *PostgresSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	var body string
	err := s.db.QueryRowContext(ctx, s.query, name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFoundf("document %q", name)
		}
		return nil, fmt.Errorf("querying document %q: %w", name, err)
	}
	return io.NopCloser(strings.NewReader(body)), nil
}
