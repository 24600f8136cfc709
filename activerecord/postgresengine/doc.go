// Package postgresengine provides a PostgreSQL executor for the
// activerecord query layer.
//
// The engine translates immutable query specifications into SQL with goqu
// and runs them through one of the supported database adapters (pgx,
// sql.DB, sqlx). One Executor serves one table; record types bind an
// Executor through activerecord.NewModel.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Equality, membership and inclusive-range predicates
//   - Streaming row access with guaranteed cleanup on early exit
//   - Cheap existence probing (SELECT ... LIMIT 1) instead of full counts
//   - Optional structured logging and metrics via functional options
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	engine, _ := postgresengine.NewFromPGXPool(db, "users")
//
//	// With logging and metrics
//	engine, _ := postgresengine.NewFromPGXPool(
//		db,
//		"users",
//		postgresengine.WithLogger(logger),
//		postgresengine.WithMetrics(collector),
//	)
package postgresengine
