package postgresengine

import (
	"errors"

	"github.com/libtrack/recordstore-go/recordstore"
)

const (
	sqlstateUniqueViolation     = "23505"
	sqlstateForeignKeyViolation = "23503"
)

// sqlStateError is satisfied by both pgconn.PgError and pq.Error.
type sqlStateError interface {
	SQLState() string
}

// translateStorageError maps constraint violations reported by the driver onto
// the shared sentinel errors, so callers can match them with errors.Is instead
// of inspecting driver-specific codes. Anything else is joined to fallback.
func translateStorageError(err error, fallback error) error {
	var stateErr sqlStateError

	if errors.As(err, &stateErr) {
		switch stateErr.SQLState() {
		case sqlstateUniqueViolation:
			return errors.Join(recordstore.ErrDuplicateKey, err)
		case sqlstateForeignKeyViolation:
			return errors.Join(recordstore.ErrForeignKeyViolation, err)
		}
	}

	return errors.Join(fallback, err)
}
