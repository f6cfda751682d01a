// Package postgresengine provides the PostgreSQL implementation of the
// generic record store: a schema-driven repository and a unit of work.
//
// A repository for an entity is produced by instantiating the generic engine
// with that entity's Schema, supporting multiple database adapters
// (pgxpool, sql.DB, sqlx) behind one interface.
//
// Key features:
//   - Uniform CRUD/query surface: save, exists, find-one, paginated find,
//     keyword search, partial update, delete, count
//   - Dynamic predicate and filter building with jsonb tag containment
//   - Single-relation eager loading via LEFT JOIN
//   - Unit of work with isolation levels and guaranteed connection release
//   - Driver constraint violations translated to shared sentinel errors
//
// Usage examples:
//
//	// Basic usage
//	pool, _ := pgxpool.New(context.Background(), dsn)
//	books, _ := postgresengine.NewRepositoryFromPGXPool(pool, tables.Books)
//	page, _ := books.FindPaginated(ctx, recordstore.PageRequest{Page: 1, Size: 10}, recordstore.Where())
//
//	// Atomic multi-step work
//	uow, _ := postgresengine.NewUnitOfWork(pool)
//	err := uow.Complete(ctx, func(ctx context.Context) error {
//		scoped, _ := postgresengine.RepositoryInScope(uow, tables.Books)
//		...
//		return nil
//	})
package postgresengine
