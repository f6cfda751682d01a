// Package adapters provides database adapter implementations for the PostgreSQL
// record store engine.
//
// This package implements the adapter pattern to support multiple PostgreSQL
// database libraries: pgxpool.Pool, sql.DB, and sqlx.DB, plus a pgx transaction
// adapter so that repositories can run inside a unit-of-work scope. All adapters
// provide equivalent functionality through a common DBAdapter interface.
package adapters
