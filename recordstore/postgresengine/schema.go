package postgresengine

import (
	"github.com/doug-martin/goqu/v9"

	"github.com/libtrack/recordstore-go/recordstore"
)

const (
	defaultIDColumn        = "id"
	defaultCreatedAtColumn = "created_at"
)

// RowScanner is the scanning surface handed to schema scan functions.
type RowScanner interface {
	Scan(dest ...any) error
}

// Relation describes one eager-loadable related entity, joined with a LEFT JOIN
// on LocalColumn = ForeignColumn.
type Relation struct {
	Name          string
	Table         string
	LocalColumn   recordstore.ColumnNameString
	ForeignColumn recordstore.ColumnNameString
	Columns       []recordstore.ColumnNameString
}

// Schema describes one entity table to the generic repository: its columns,
// how a database row becomes a T, how a T becomes column values, and which
// related entities can be eager-loaded.
//
// A repository for an entity is produced by instantiating the generic engine
// with that entity's schema, not by subclassing anything.
type Schema[T any] struct {
	// Table is the table name. It can be overridden per repository with WithTableName.
	Table string

	// Columns lists all data columns including IDColumn and CreatedAtColumn.
	Columns []recordstore.ColumnNameString

	// IDColumn and CreatedAtColumn default to "id" and "created_at".
	IDColumn        recordstore.ColumnNameString
	CreatedAtColumn recordstore.ColumnNameString

	// TagColumns lists jsonb columns holding a list of string tags. Equality
	// filters against these columns are matched with jsonb containment
	// instead of plain equality.
	TagColumns []recordstore.ColumnNameString

	// Scan builds a T from one row holding exactly Columns, in order.
	Scan func(scan RowScanner) (T, error)

	// Record returns the column values to persist for a row.
	Record func(row T) goqu.Record

	// ID returns the primary key of a row.
	ID func(row T) string

	// Relations lists the eager-loadable relations. ScanWith holds, per
	// relation name, a scan function for Columns followed by the relation's
	// Columns (which may all be NULL after a LEFT JOIN miss).
	Relations []Relation
	ScanWith  map[string]func(scan RowScanner) (T, error)
}

func (s Schema[T]) idColumn() recordstore.ColumnNameString {
	if s.IDColumn == "" {
		return defaultIDColumn
	}

	return s.IDColumn
}

func (s Schema[T]) createdAtColumn() recordstore.ColumnNameString {
	if s.CreatedAtColumn == "" {
		return defaultCreatedAtColumn
	}

	return s.CreatedAtColumn
}

func (s Schema[T]) relationNamed(name string) (Relation, bool) {
	for _, relation := range s.Relations {
		if relation.Name == name {
			return relation, true
		}
	}

	return Relation{}, false
}

func (s Schema[T]) isTagColumn(column recordstore.ColumnNameString) bool {
	for _, tagColumn := range s.TagColumns {
		if tagColumn == column {
			return true
		}
	}

	return false
}
