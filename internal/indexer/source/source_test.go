package source

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/errors"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirSourceOpen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc1.txt", "hello world")
	src := NewDirSource(dir)

	rc, err := src.Open(context.Background(), "doc1.txt")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))

	abs, err := src.Open(context.Background(), filepath.Join(dir, "doc1.txt"))
	require.NoError(t, err)
	abs.Close()
}

func TestDirSourceNotFound(t *testing.T) {
	src := NewDirSource(t.TempDir())
	_, err := src.Open(context.Background(), "missing.txt")
	require.Error(t, err)
	require.True(t, apperrors.IsNotFound(err), "expected not found, got %v", err)
}

func TestDirSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDirSource(t.TempDir()).Open(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docs.txt", "a.txt\nb.txt\n\n  c.txt\n")
	got, err := ReadLines(context.Background(), NewDirSource(dir), "docs.txt")
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, got)

	_, err = ReadLines(context.Background(), NewDirSource(dir), "nope.txt")
	require.True(t, apperrors.IsNotFound(err))
}

var bodyQuery = regexp.QuoteMeta(`SELECT body FROM "documents" WHERE name = $1`)

func TestPostgresSourceOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(bodyQuery).
		WithArgs("moby.txt").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow("Call me Ishmael."))

	src := NewPostgresSource(db, "documents")
	rc, err := src.Open(context.Background(), "moby.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "Call me Ishmael.", string(data))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourceNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(bodyQuery).
		WithArgs("ghost.txt").
		WillReturnError(sql.ErrNoRows)

	_, err = NewPostgresSource(db, "documents").Open(context.Background(), "ghost.txt")
	require.True(t, apperrors.IsNotFound(err), "expected not found, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSourceQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery(bodyQuery).WithArgs("a").WillReturnError(boom)

	_, err = NewPostgresSource(db, "documents").Open(context.Background(), "a")
	require.ErrorIs(t, err, boom)
	require.False(t, apperrors.IsNotFound(err))
}

func TestPostgresSourceReadLines(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(bodyQuery).
		WithArgs("noisewords.txt").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow("the\na\nof\n"))

	got, err := ReadLines(context.Background(), NewPostgresSource(db, "documents"), "noisewords.txt")
	require.NoError(t, err)
	require.Equal(t, []string{"the", "a", "of"}, got)
}
