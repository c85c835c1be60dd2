package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

const upsert = `INSERT INTO "documents" (name, body) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body`

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "docs" (name TEXT PRIMARY KEY, body TEXT NOT NULL)`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c := NewWithDB(db, "docs")
	require.NoError(t, c.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPutDocumentsCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsert)).WithArgs("docs.txt", "d1.txt d2.txt").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(upsert)).WithArgs("d1.txt", "apple pear").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c := NewWithDB(db, "")
	require.Equal(t, "documents", c.Table())
	err = c.PutDocuments(context.Background(), []Document{
		{Name: "docs.txt", Body: "d1.txt d2.txt"},
		{Name: "d1.txt", Body: "apple pear"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPutDocumentsRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(upsert)).WithArgs("d1.txt", "apple").WillReturnError(boom)
	mock.ExpectRollback()

	err = NewWithDB(db, "documents").PutDocuments(context.Background(), []Document{{Name: "d1.txt", Body: "apple"}})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), `"d1.txt"`)
	require.NoError(t, mock.ExpectationsWereMet())
}
