package postgresengine

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/libtrack/recordstore-go/recordstore"
	"github.com/libtrack/recordstore-go/recordstore/postgresengine/internal/adapters"
)

const (
	logMsgTransactionStarted    = "transaction started"
	logMsgTransactionCommitted  = "transaction committed"
	logMsgTransactionRolledBack = "transaction rolled back"
	logMsgRollbackFailed        = "transaction rollback failed"
	logMsgConnectionReleased    = "connection released back to the pool"
	logAttrIsolationLevel       = "isolation_level"
)

// UnitOfWork groups a sequence of repository operations into one atomic
// transaction on a dedicated connection acquired from the pool.
//
// Each scope owns exactly one connection; Complete guarantees it is released
// on every exit path so the pool cannot be exhausted by failed work.
type UnitOfWork struct {
	pool   *pgxpool.Pool
	conn   *pgxpool.Conn
	tx     pgx.Tx
	logger Logger
}

// NewUnitOfWork creates a UnitOfWork on the given pool. No connection is
// acquired until StartTransaction or Complete runs.
func NewUnitOfWork(pool *pgxpool.Pool, options ...Option) (*UnitOfWork, error) {
	if pool == nil {
		return nil, recordstore.ErrNilDatabaseConnection
	}

	applied := settings{}

	for _, option := range options {
		if err := option(&applied); err != nil {
			return nil, err
		}
	}

	return &UnitOfWork{pool: pool, logger: applied.logger}, nil
}

// StartTransaction acquires a connection from the pool and begins a
// transaction at the requested isolation level. Omitting the level leaves the
// choice to the storage engine.
func (u *UnitOfWork) StartTransaction(ctx context.Context, level ...recordstore.IsolationLevel) error {
	if u.tx != nil {
		return recordstore.ErrTransactionAlreadyActive
	}

	isolation := recordstore.DefaultIsolation
	if len(level) > 0 {
		isolation = level[0]
	}

	conn, acquireErr := u.pool.Acquire(ctx)
	if acquireErr != nil {
		return errors.Join(recordstore.ErrQueryingRowsFailed, acquireErr)
	}

	tx, beginErr := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgxIsoLevel(isolation)})
	if beginErr != nil {
		conn.Release()
		return errors.Join(recordstore.ErrQueryingRowsFailed, beginErr)
	}

	u.conn = conn
	u.tx = tx

	if u.logger != nil {
		u.logger.Debug(logMsgTransactionStarted, logAttrIsolationLevel, string(isolation))
	}

	return nil
}

// CommitTransaction commits the active transaction.
func (u *UnitOfWork) CommitTransaction(ctx context.Context) error {
	if u.tx == nil {
		return recordstore.ErrNoActiveTransaction
	}

	commitErr := u.tx.Commit(ctx)
	u.tx = nil

	if commitErr != nil {
		return errors.Join(recordstore.ErrExecutingStatementFailed, commitErr)
	}

	if u.logger != nil {
		u.logger.Debug(logMsgTransactionCommitted)
	}

	return nil
}

// RollbackTransaction rolls the active transaction back.
func (u *UnitOfWork) RollbackTransaction(ctx context.Context) error {
	if u.tx == nil {
		return recordstore.ErrNoActiveTransaction
	}

	rollbackErr := u.tx.Rollback(ctx)
	u.tx = nil

	if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
		return errors.Join(recordstore.ErrExecutingStatementFailed, rollbackErr)
	}

	if u.logger != nil {
		u.logger.Debug(logMsgTransactionRolledBack)
	}

	return nil
}

// Release returns the connection to the pool. It is safe to call more than
// once. A still-open transaction is rolled back by the pool on release.
func (u *UnitOfWork) Release() {
	if u.conn == nil {
		return
	}

	u.conn.Release()
	u.conn = nil
	u.tx = nil

	if u.logger != nil {
		u.logger.Debug(logMsgConnectionReleased)
	}
}

// Complete runs work inside the unit of work: it starts a transaction if none
// is active, commits when work returns nil, rolls back when work fails, and
// releases the connection on every exit path. The work error is preserved; a
// rollback failure is joined to it.
func (u *UnitOfWork) Complete(ctx context.Context, work func(ctx context.Context) error) error {
	defer u.Release()

	if u.tx == nil {
		if startErr := u.StartTransaction(ctx); startErr != nil {
			return startErr
		}
	}

	if workErr := work(ctx); workErr != nil {
		if rollbackErr := u.RollbackTransaction(ctx); rollbackErr != nil {
			if u.logger != nil {
				u.logger.Warn(logMsgRollbackFailed, logAttrError, rollbackErr.Error())
			}

			return errors.Join(workErr, rollbackErr)
		}

		return workErr
	}

	return u.CommitTransaction(ctx)
}

// RepositoryInScope returns a Repository bound to the unit of work's active
// transaction, so every operation performed through it sees one consistent
// view and commits or rolls back with the scope.
func RepositoryInScope[T any](uow *UnitOfWork, schema Schema[T], options ...Option) (Repository[T], error) {
	if uow == nil || uow.tx == nil {
		return Repository[T]{}, recordstore.ErrNoActiveTransaction
	}

	if uow.logger != nil {
		options = append([]Option{WithLogger(uow.logger)}, options...)
	}

	return newRepository(adapters.NewPGXTxAdapter(uow.tx), schema, options...)
}

func pgxIsoLevel(level recordstore.IsolationLevel) pgx.TxIsoLevel {
	switch level {
	case recordstore.ReadUncommitted:
		return pgx.ReadUncommitted
	case recordstore.ReadCommitted:
		return pgx.ReadCommitted
	case recordstore.RepeatableRead:
		return pgx.RepeatableRead
	case recordstore.Serializable:
		return pgx.Serializable
	default:
		return ""
	}
}
