// Package adapters wraps the supported database access libraries (pgx,
// sqlx, database/sql) behind the narrow DBAdapter interface the query
// engine is written against.
package adapters
