package core

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// BorrowedRecordInput is the unvalidated input for creating a BorrowedRecord
// aggregate. An empty ID means a new identity is assigned.
type BorrowedRecordInput struct {
	ID         string
	BookID     string
	Borrower   string
	BorrowDate string
	ReturnDate string
}

// BorrowedRecord is a validated borrowed-record aggregate. It can only be
// constructed through NewBorrowedRecord and is immutable afterwards.
type BorrowedRecord struct {
	id         string
	bookID     string
	borrower   string
	borrowDate time.Time
	returnDate time.Time
}

// NewBorrowedRecord validates the input and builds a BorrowedRecord, or
// returns a *ValidationError listing every failed field.
func NewBorrowedRecord(input BorrowedRecordInput) (BorrowedRecord, error) {
	v := newValidator()

	_, bookIDErr := uuid.Parse(input.BookID)
	v.check(bookIDErr == nil, "bookId", "must be a valid uuid")

	v.check(utf8.RuneCountInString(input.Borrower) >= minTextLength, "borrower", "must be at least 3 characters long")

	borrowDate, borrowOK := parseDate(input.BorrowDate)
	v.check(borrowOK, "borrowDate", "must be a valid date")

	returnDate, returnOK := parseDate(input.ReturnDate)
	v.check(returnOK, "returnDate", "must be a valid date")

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	} else {
		_, parseErr := uuid.Parse(id)
		v.check(parseErr == nil, "id", "must be a valid uuid")
	}

	if !v.valid() {
		return BorrowedRecord{}, v.err()
	}

	return BorrowedRecord{
		id:         id,
		bookID:     input.BookID,
		borrower:   input.Borrower,
		borrowDate: borrowDate,
		returnDate: returnDate,
	}, nil
}

func (r BorrowedRecord) ID() string {
	return r.id
}

func (r BorrowedRecord) BookID() string {
	return r.bookID
}

func (r BorrowedRecord) Borrower() string {
	return r.borrower
}

func (r BorrowedRecord) BorrowDate() time.Time {
	return r.borrowDate
}

func (r BorrowedRecord) ReturnDate() time.Time {
	return r.returnDate
}
