package recordstore

import (
	"errors"
)

var ErrNilDatabaseConnection = errors.New("nil database connection supplied")
var ErrEmptyTableName = errors.New("empty tableName supplied")
var ErrNotFound = errors.New("entity not found")
var ErrDuplicateKey = errors.New("duplicate value violates a uniqueness constraint")
var ErrForeignKeyViolation = errors.New("invalid reference, foreign key constraint violated")
var ErrBuildingQueryFailed = errors.New("building the sql query failed")
var ErrQueryingRowsFailed = errors.New("querying rows failed")
var ErrExecutingStatementFailed = errors.New("executing the sql statement failed")
var ErrScanningDBRowFailed = errors.New("scanning the database row failed")
var ErrGettingRowsAffectedFailed = errors.New("getting the rows affected count failed")
var ErrNoActiveTransaction = errors.New("no transaction is active on this unit of work")
var ErrTransactionAlreadyActive = errors.New("a transaction is already active on this unit of work")

// Direction is the sort direction for ordered queries.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// IsolationLevel selects the transaction isolation level for a unit of work.
// The zero value leaves the choice to the storage engine.
type IsolationLevel string

const (
	DefaultIsolation IsolationLevel = ""
	ReadUncommitted  IsolationLevel = "read uncommitted"
	ReadCommitted    IsolationLevel = "read committed"
	RepeatableRead   IsolationLevel = "repeatable read"
	Serializable     IsolationLevel = "serializable"
)

// Fields carries the column values for a partial update, keyed by column name.
// Values may be plain values or SQL expressions (e.g. a relative decrement).
type Fields map[string]any

// Delta expresses a relative numeric update of a column, applied by the
// storage engine as one atomic read-modify-write.
type Delta struct {
	By int
}

// DeltaOf builds a Delta; negative values decrement.
func DeltaOf(by int) Delta {
	return Delta{By: by}
}

// DeleteResult reports whether a delete removed at least one row.
// A miss is a regular outcome for deletes, not an error.
type DeleteResult struct {
	Status bool
}
