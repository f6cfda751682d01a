package tables_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/libtrack/recordstore-go/library/core"
	"github.com/libtrack/recordstore-go/library/tables"
)

func Test_AuthorRowFromAggregate_MapsEveryField(t *testing.T) {
	// arrange
	author, err := core.NewAuthor(core.AuthorInput{
		Name:      "Isaac Asimov",
		Birthdate: "1920-01-02",
		Bio:       "Science fiction writer and professor of biochemistry",
	})
	assert.NoError(t, err)

	// act
	row := tables.AuthorRowFromAggregate(author)

	// assert
	assert.Equal(t, author.ID(), row.ID)
	assert.Equal(t, author.Name(), row.Name)
	assert.Equal(t, author.Birthdate(), row.Birthdate)
	assert.Equal(t, author.Bio(), row.Bio)
	assert.True(t, row.CreatedAt.IsZero(), "the creation timestamp is stamped at persistence, not mapping")
}

func Test_BookRowFromAggregate_MapsEveryField(t *testing.T) {
	// arrange
	authorID := uuid.NewString()
	book, err := core.NewBook(core.BookInput{
		Title:           "Foundation",
		AuthorID:        authorID,
		PublishedYear:   "1951",
		Genre:           []string{"Science Fiction", "Classic"},
		AvailableCopies: 3,
	})
	assert.NoError(t, err)

	// act
	row := tables.BookRowFromAggregate(book)

	// assert
	assert.Equal(t, book.ID(), row.ID)
	assert.Equal(t, "Foundation", row.Title)
	assert.Equal(t, authorID, row.AuthorID)
	assert.Equal(t, "1951", row.PublishedYear)
	assert.Equal(t, []string{"Science Fiction", "Classic"}, row.Genre)
	assert.Equal(t, 3, row.AvailableCopies)
	assert.Nil(t, row.Author, "relations are only populated by eager loading")
}

func Test_BorrowedRecordRowFromAggregate_MapsEveryField(t *testing.T) {
	// arrange
	bookID := uuid.NewString()
	record, err := core.NewBorrowedRecord(core.BorrowedRecordInput{
		BookID:     bookID,
		Borrower:   "Hari Seldon",
		BorrowDate: "2025-03-01",
		ReturnDate: "2025-03-15",
	})
	assert.NoError(t, err)

	// act
	row := tables.BorrowedRecordRowFromAggregate(record)

	// assert
	assert.Equal(t, record.ID(), row.ID)
	assert.Equal(t, bookID, row.BookID)
	assert.Equal(t, "Hari Seldon", row.Borrower)
	assert.Equal(t, record.BorrowDate(), row.BorrowDate)
	assert.Equal(t, record.ReturnDate(), row.ReturnDate)
	assert.Nil(t, row.Book)
}

func Test_AuthorRecord_StampsTheCreationTimestampOnce(t *testing.T) {
	// arrange
	fresh := tables.AuthorRow{ID: uuid.NewString(), Name: "Isaac Asimov"}
	existing := fresh
	existing.CreatedAt = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	// act
	freshRecord := tables.Authors.Record(fresh)
	existingRecord := tables.Authors.Record(existing)

	// assert
	stamped, ok := freshRecord[tables.ColAuthorCreatedAt].(time.Time)
	assert.True(t, ok)
	assert.False(t, stamped.IsZero())
	assert.Equal(t, existing.CreatedAt, existingRecord[tables.ColAuthorCreatedAt])
}

func Test_SchemaIdentity_ReturnsTheRowID(t *testing.T) {
	// arrange
	id := uuid.NewString()

	// act / assert
	assert.Equal(t, id, tables.Authors.ID(tables.AuthorRow{ID: id}))
	assert.Equal(t, id, tables.Books.ID(tables.BookRow{ID: id}))
	assert.Equal(t, id, tables.BorrowedRecords.ID(tables.BorrowedRecordRow{ID: id}))
}
