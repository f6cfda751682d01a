package tables

import (
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	jsoniter "github.com/json-iterator/go"

	"github.com/libtrack/recordstore-go/library/core"
	"github.com/libtrack/recordstore-go/recordstore/postgresengine"
)

const (
	BooksTable = "books"

	ColBookID              = "id"
	ColBookTitle           = "title"
	ColBookAuthorID        = "author_id"
	ColBookPublishedYear   = "published_year"
	ColBookGenre           = "genre"
	ColBookAvailableCopies = "available_copies"
	ColBookCreatedAt       = "created_at"

	RelationBookAuthor = "author"

	castJsonb = "?::jsonb"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BookRow is the persisted shape of a book. Author is populated only when the
// author relation was eager-loaded.
type BookRow struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	AuthorID        string     `json:"authorId"`
	PublishedYear   string     `json:"publishedYear"`
	Genre           []string   `json:"genre"`
	AvailableCopies int        `json:"availableCopies"`
	CreatedAt       time.Time  `json:"createdAt"`
	Author          *AuthorRow `json:"author,omitempty"`
}

// Books is the schema driving the generic repository for the books table.
// The genre column holds a jsonb list of tags, so equality filters against it
// become containment matches.
var Books = postgresengine.Schema[BookRow]{
	Table: BooksTable,
	Columns: []string{
		ColBookID, ColBookTitle, ColBookAuthorID, ColBookPublishedYear,
		ColBookGenre, ColBookAvailableCopies, ColBookCreatedAt,
	},
	IDColumn:        ColBookID,
	CreatedAtColumn: ColBookCreatedAt,
	TagColumns:      []string{ColBookGenre},
	Scan:            scanBookRow,
	Record:          bookRecord,
	ID:              func(row BookRow) string { return row.ID },
	Relations: []postgresengine.Relation{
		{
			Name:          RelationBookAuthor,
			Table:         AuthorsTable,
			LocalColumn:   ColBookAuthorID,
			ForeignColumn: ColAuthorID,
			Columns: []string{
				ColAuthorID, ColAuthorName, ColAuthorBirthdate, ColAuthorBio, ColAuthorCreatedAt,
			},
		},
	},
	ScanWith: map[string]func(scan postgresengine.RowScanner) (BookRow, error){
		RelationBookAuthor: scanBookRowWithAuthor,
	},
}

func scanBookRow(scan postgresengine.RowScanner) (BookRow, error) {
	var row BookRow
	var genrePayload []byte

	err := scan.Scan(
		&row.ID, &row.Title, &row.AuthorID, &row.PublishedYear,
		&genrePayload, &row.AvailableCopies, &row.CreatedAt,
	)
	if err != nil {
		return BookRow{}, err
	}

	if unmarshalErr := json.Unmarshal(genrePayload, &row.Genre); unmarshalErr != nil {
		return BookRow{}, unmarshalErr
	}

	return row, nil
}

func scanBookRowWithAuthor(scan postgresengine.RowScanner) (BookRow, error) {
	var row BookRow
	var genrePayload []byte
	var authorID, authorName, authorBio sql.NullString
	var authorBirthdate, authorCreatedAt sql.NullTime

	err := scan.Scan(
		&row.ID, &row.Title, &row.AuthorID, &row.PublishedYear,
		&genrePayload, &row.AvailableCopies, &row.CreatedAt,
		&authorID, &authorName, &authorBirthdate, &authorBio, &authorCreatedAt,
	)
	if err != nil {
		return BookRow{}, err
	}

	if unmarshalErr := json.Unmarshal(genrePayload, &row.Genre); unmarshalErr != nil {
		return BookRow{}, unmarshalErr
	}

	if authorID.Valid {
		row.Author = &AuthorRow{
			ID:        authorID.String,
			Name:      authorName.String,
			Birthdate: authorBirthdate.Time,
			Bio:       authorBio.String,
			CreatedAt: authorCreatedAt.Time,
		}
	}

	return row, nil
}

func bookRecord(row BookRow) goqu.Record {
	genrePayload, _ := json.Marshal(row.Genre)

	return goqu.Record{
		ColBookID:              row.ID,
		ColBookTitle:           row.Title,
		ColBookAuthorID:        row.AuthorID,
		ColBookPublishedYear:   row.PublishedYear,
		ColBookGenre:           goqu.L(castJsonb, string(genrePayload)),
		ColBookAvailableCopies: row.AvailableCopies,
		ColBookCreatedAt:       createdAtOrNow(row.CreatedAt),
	}
}

// BookRowFromAggregate reshapes a validated Book aggregate into its row form.
func BookRowFromAggregate(book core.Book) BookRow {
	return BookRow{
		ID:              book.ID(),
		Title:           book.Title(),
		AuthorID:        book.AuthorID(),
		PublishedYear:   book.PublishedYear(),
		Genre:           book.Genre(),
		AvailableCopies: book.AvailableCopies(),
	}
}
