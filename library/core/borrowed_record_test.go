package core_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/libtrack/recordstore-go/library/core"
)

func Test_NewBorrowedRecord_WithValidInput_BuildsTheAggregate(t *testing.T) {
	// arrange
	bookID := uuid.NewString()
	input := core.BorrowedRecordInput{
		BookID:     bookID,
		Borrower:   "Hari Seldon",
		BorrowDate: "2025-03-01",
		ReturnDate: "2025-03-15",
	}

	// act
	record, err := core.NewBorrowedRecord(input)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, bookID, record.BookID())
	assert.Equal(t, "Hari Seldon", record.Borrower())
	assert.True(t, record.ReturnDate().After(record.BorrowDate()))
}

func Test_NewBorrowedRecord_CountsBorrowerCharactersNotBytes(t *testing.T) {
	// arrange
	input := core.BorrowedRecordInput{
		BookID:     uuid.NewString(),
		Borrower:   "吴亮",
		BorrowDate: "2025-03-01",
		ReturnDate: "2025-03-15",
	}

	// act
	_, err := core.NewBorrowedRecord(input)

	// assert
	var validationErr *core.ValidationError
	assert.ErrorAs(t, err, &validationErr, "two characters are below the minimum even at six bytes")
	assert.Contains(t, validationErr.Fields, "borrower")

	input.Borrower = "吴岩亮"
	_, err = core.NewBorrowedRecord(input)
	assert.NoError(t, err, "three characters satisfy the minimum regardless of byte length")
}

func Test_NewBorrowedRecord_WithInvalidInput_ReportsEveryFailedField(t *testing.T) {
	// arrange
	input := core.BorrowedRecordInput{
		BookID:     "not-a-uuid",
		Borrower:   "HS",
		BorrowDate: "soon",
		ReturnDate: "",
	}

	// act
	_, err := core.NewBorrowedRecord(input)

	// assert
	var validationErr *core.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "bookId")
	assert.Contains(t, validationErr.Fields, "borrower")
	assert.Contains(t, validationErr.Fields, "borrowDate")
	assert.Contains(t, validationErr.Fields, "returnDate")
}
