package tables

import (
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/libtrack/recordstore-go/library/core"
	"github.com/libtrack/recordstore-go/recordstore/postgresengine"
)

const (
	BorrowedRecordsTable = "borrowed_records"

	ColRecordID         = "id"
	ColRecordBookID     = "book_id"
	ColRecordBorrower   = "borrower"
	ColRecordBorrowDate = "borrow_date"
	ColRecordReturnDate = "return_date"
	ColRecordCreatedAt  = "created_at"

	RelationRecordBook = "book"
)

// BorrowedRecordRow is the persisted shape of a borrowed record. Book is
// populated only when the book relation was eager-loaded.
type BorrowedRecordRow struct {
	ID         string    `json:"id"`
	BookID     string    `json:"bookId"`
	Borrower   string    `json:"borrower"`
	BorrowDate time.Time `json:"borrowDate"`
	ReturnDate time.Time `json:"returnDate"`
	CreatedAt  time.Time `json:"createdAt"`
	Book       *BookRow  `json:"book,omitempty"`
}

// BorrowedRecords is the schema driving the generic repository for the
// borrowed_records table.
var BorrowedRecords = postgresengine.Schema[BorrowedRecordRow]{
	Table: BorrowedRecordsTable,
	Columns: []string{
		ColRecordID, ColRecordBookID, ColRecordBorrower,
		ColRecordBorrowDate, ColRecordReturnDate, ColRecordCreatedAt,
	},
	IDColumn:        ColRecordID,
	CreatedAtColumn: ColRecordCreatedAt,
	Scan:            scanBorrowedRecordRow,
	Record:          borrowedRecordRecord,
	ID:              func(row BorrowedRecordRow) string { return row.ID },
	Relations: []postgresengine.Relation{
		{
			Name:          RelationRecordBook,
			Table:         BooksTable,
			LocalColumn:   ColRecordBookID,
			ForeignColumn: ColBookID,
			Columns: []string{
				ColBookID, ColBookTitle, ColBookAuthorID, ColBookPublishedYear,
				ColBookGenre, ColBookAvailableCopies, ColBookCreatedAt,
			},
		},
	},
	ScanWith: map[string]func(scan postgresengine.RowScanner) (BorrowedRecordRow, error){
		RelationRecordBook: scanBorrowedRecordRowWithBook,
	},
}

func scanBorrowedRecordRow(scan postgresengine.RowScanner) (BorrowedRecordRow, error) {
	var row BorrowedRecordRow

	err := scan.Scan(
		&row.ID, &row.BookID, &row.Borrower,
		&row.BorrowDate, &row.ReturnDate, &row.CreatedAt,
	)
	if err != nil {
		return BorrowedRecordRow{}, err
	}

	return row, nil
}

func scanBorrowedRecordRowWithBook(scan postgresengine.RowScanner) (BorrowedRecordRow, error) {
	var row BorrowedRecordRow
	var bookID, bookTitle, bookAuthorID, bookPublishedYear sql.NullString
	var genrePayload []byte
	var bookAvailableCopies sql.NullInt64
	var bookCreatedAt sql.NullTime

	err := scan.Scan(
		&row.ID, &row.BookID, &row.Borrower,
		&row.BorrowDate, &row.ReturnDate, &row.CreatedAt,
		&bookID, &bookTitle, &bookAuthorID, &bookPublishedYear,
		&genrePayload, &bookAvailableCopies, &bookCreatedAt,
	)
	if err != nil {
		return BorrowedRecordRow{}, err
	}

	if bookID.Valid {
		book := &BookRow{
			ID:              bookID.String,
			Title:           bookTitle.String,
			AuthorID:        bookAuthorID.String,
			PublishedYear:   bookPublishedYear.String,
			AvailableCopies: int(bookAvailableCopies.Int64),
			CreatedAt:       bookCreatedAt.Time,
		}

		if len(genrePayload) > 0 {
			if unmarshalErr := json.Unmarshal(genrePayload, &book.Genre); unmarshalErr != nil {
				return BorrowedRecordRow{}, unmarshalErr
			}
		}

		row.Book = book
	}

	return row, nil
}

func borrowedRecordRecord(row BorrowedRecordRow) goqu.Record {
	return goqu.Record{
		ColRecordID:         row.ID,
		ColRecordBookID:     row.BookID,
		ColRecordBorrower:   row.Borrower,
		ColRecordBorrowDate: row.BorrowDate,
		ColRecordReturnDate: row.ReturnDate,
		ColRecordCreatedAt:  createdAtOrNow(row.CreatedAt),
	}
}

// BorrowedRecordRowFromAggregate reshapes a validated BorrowedRecord
// aggregate into its row form.
func BorrowedRecordRowFromAggregate(record core.BorrowedRecord) BorrowedRecordRow {
	return BorrowedRecordRow{
		ID:         record.ID(),
		BookID:     record.BookID(),
		Borrower:   record.Borrower(),
		BorrowDate: record.BorrowDate(),
		ReturnDate: record.ReturnDate(),
	}
}
