// Package test provides fixture builders and arrange helpers for the
// integration tests.
package test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/libtrack/recordstore-go/library/tables"
	"github.com/libtrack/recordstore-go/recordstore"
	"github.com/libtrack/recordstore-go/recordstore/postgresengine"
)

// GivenUniqueID supplies a fresh uuid for a test fixture.
func GivenUniqueID(t testing.TB) string {
	t.Helper()

	return uuid.NewString()
}

// BuildAuthorRow creates an author row fixture with sensible defaults.
func BuildAuthorRow(id string, name string) tables.AuthorRow {
	return tables.AuthorRow{
		ID:        id,
		Name:      name,
		Birthdate: time.Date(1920, time.January, 2, 0, 0, 0, 0, time.UTC),
		Bio:       "Science fiction writer and professor of biochemistry",
	}
}

// BuildBookRow creates a book row fixture with the given stock.
func BuildBookRow(id string, authorID string, title string, availableCopies int) tables.BookRow {
	return tables.BookRow{
		ID:              id,
		Title:           title,
		AuthorID:        authorID,
		PublishedYear:   "1951",
		Genre:           []string{"Science Fiction"},
		AvailableCopies: availableCopies,
	}
}

// BuildBorrowedRecordRow creates a borrowed-record row fixture.
func BuildBorrowedRecordRow(id string, bookID string, borrower string) tables.BorrowedRecordRow {
	return tables.BorrowedRecordRow{
		ID:         id,
		BookID:     bookID,
		Borrower:   borrower,
		BorrowDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
	}
}

// GivenAuthorExists persists an author row as test arrangement.
func GivenAuthorExists(
	t testing.TB,
	ctx context.Context,
	repo postgresengine.Repository[tables.AuthorRow],
	row tables.AuthorRow,
) tables.AuthorRow {
	t.Helper()

	saved, err := repo.Save(ctx, row)
	assert.NoError(t, err, "error in arranging test data: author")

	return saved
}

// GivenBookExists persists a book row as test arrangement.
func GivenBookExists(
	t testing.TB,
	ctx context.Context,
	repo postgresengine.Repository[tables.BookRow],
	row tables.BookRow,
) tables.BookRow {
	t.Helper()

	saved, err := repo.Save(ctx, row)
	assert.NoError(t, err, "error in arranging test data: book")

	return saved
}

// GivenBorrowedRecordExists persists a borrowed-record row as test arrangement.
func GivenBorrowedRecordExists(
	t testing.TB,
	ctx context.Context,
	repo postgresengine.Repository[tables.BorrowedRecordRow],
	row tables.BorrowedRecordRow,
) tables.BorrowedRecordRow {
	t.Helper()

	saved, err := repo.Save(ctx, row)
	assert.NoError(t, err, "error in arranging test data: borrowed record")

	return saved
}

// EnsureSchema creates the three tables if they do not exist yet.
func EnsureSchema(t testing.TB, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS authors (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			birthdate TIMESTAMPTZ NOT NULL,
			bio TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			author_id UUID NOT NULL REFERENCES authors (id),
			published_year TEXT NOT NULL,
			genre JSONB NOT NULL,
			available_copies INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS borrowed_records (
			id UUID PRIMARY KEY,
			book_id UUID NOT NULL REFERENCES books (id),
			borrower TEXT NOT NULL,
			borrow_date TIMESTAMPTZ NOT NULL,
			return_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, statement := range statements {
		_, err := pool.Exec(ctx, statement)
		assert.NoError(t, err, "error in creating the test schema")
	}
}

// CleanUpTables removes all rows so every test starts from an empty store.
func CleanUpTables(t testing.TB, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(ctx, `TRUNCATE TABLE borrowed_records, books, authors`)
	assert.NoError(t, err, "error in cleaning up the test tables")
}

// CountRows counts the rows matching the predicate, failing the test on error.
func CountRows[T any](
	t testing.TB,
	ctx context.Context,
	repo postgresengine.Repository[T],
	predicate recordstore.Predicate,
) int64 {
	t.Helper()

	count, err := repo.Count(ctx, predicate)
	assert.NoError(t, err, "error in counting rows")

	return count
}
