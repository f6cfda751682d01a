package tables

import (
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/libtrack/recordstore-go/library/core"
	"github.com/libtrack/recordstore-go/recordstore/postgresengine"
)

const (
	AuthorsTable = "authors"

	ColAuthorID        = "id"
	ColAuthorName      = "name"
	ColAuthorBirthdate = "birthdate"
	ColAuthorBio       = "bio"
	ColAuthorCreatedAt = "created_at"
)

// AuthorRow is the persisted shape of an author.
type AuthorRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Birthdate time.Time `json:"birthdate"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
}

// Authors is the schema driving the generic repository for the authors table.
var Authors = postgresengine.Schema[AuthorRow]{
	Table: AuthorsTable,
	Columns: []string{
		ColAuthorID, ColAuthorName, ColAuthorBirthdate, ColAuthorBio, ColAuthorCreatedAt,
	},
	IDColumn:        ColAuthorID,
	CreatedAtColumn: ColAuthorCreatedAt,
	Scan:            scanAuthorRow,
	Record:          authorRecord,
	ID:              func(row AuthorRow) string { return row.ID },
}

func scanAuthorRow(scan postgresengine.RowScanner) (AuthorRow, error) {
	var row AuthorRow

	if err := scan.Scan(&row.ID, &row.Name, &row.Birthdate, &row.Bio, &row.CreatedAt); err != nil {
		return AuthorRow{}, err
	}

	return row, nil
}

func authorRecord(row AuthorRow) goqu.Record {
	return goqu.Record{
		ColAuthorID:        row.ID,
		ColAuthorName:      row.Name,
		ColAuthorBirthdate: row.Birthdate,
		ColAuthorBio:       row.Bio,
		ColAuthorCreatedAt: createdAtOrNow(row.CreatedAt),
	}
}

// AuthorRowFromAggregate reshapes a validated Author aggregate into its row form.
func AuthorRowFromAggregate(author core.Author) AuthorRow {
	return AuthorRow{
		ID:        author.ID(),
		Name:      author.Name(),
		Birthdate: author.Birthdate(),
		Bio:       author.Bio(),
	}
}

// createdAtOrNow stamps the creation timestamp at first persistence; the
// engine never overwrites it on the update path.
func createdAtOrNow(createdAt time.Time) time.Time {
	if createdAt.IsZero() {
		return time.Now().UTC()
	}

	return createdAt
}
