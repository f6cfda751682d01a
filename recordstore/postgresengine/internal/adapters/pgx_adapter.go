package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXPoolAdapter implements DBAdapter for pgxpool.Pool.
type PGXPoolAdapter struct {
	pool *pgxpool.Pool
}

// NewPGXPoolAdapter creates a new adapter backed by a pgx connection pool.
func NewPGXPoolAdapter(pool *pgxpool.Pool) *PGXPoolAdapter {
	return &PGXPoolAdapter{pool: pool}
}

// Query executes a query on the pool and returns wrapped rows.
func (p *PGXPoolAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

// Exec executes a statement on the pool and returns the number of rows affected.
func (p *PGXPoolAdapter) Exec(ctx context.Context, query string) (int64, error) {
	tag, err := p.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// PGXTxAdapter implements DBAdapter for an open pgx transaction, so that
// repository operations inside a unit-of-work scope share one consistent view.
type PGXTxAdapter struct {
	tx pgx.Tx
}

// NewPGXTxAdapter creates a new adapter bound to an open transaction.
func NewPGXTxAdapter(tx pgx.Tx) *PGXTxAdapter {
	return &PGXTxAdapter{tx: tx}
}

// Query executes a query inside the transaction and returns wrapped rows.
func (p *PGXTxAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := p.tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

// Exec executes a statement inside the transaction and returns the number of rows affected.
func (p *PGXTxAdapter) Exec(ctx context.Context, query string) (int64, error) {
	tag, err := p.tx.Exec(ctx, query)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// pgxRows wraps pgx.Rows to implement the DBRows interface.
type pgxRows struct {
	rows pgx.Rows
}

// Next advances to the next row.
func (p *pgxRows) Next() bool {
	return p.rows.Next()
}

// Scan copies row values into provided destinations.
func (p *pgxRows) Scan(dest ...any) error {
	return p.rows.Scan(dest...)
}

// Close closes the rows iterator.
func (p *pgxRows) Close() error {
	p.rows.Close()
	return nil
}
