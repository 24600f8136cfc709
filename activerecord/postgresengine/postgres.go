package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/kofrasa/activerecord-go/activerecord"
	"github.com/kofrasa/activerecord-go/activerecord/postgresengine/internal/adapters"
)

const (
	logMsgBuildQueryFailed   = "failed to build sql query"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database execution failed"
	logMsgColumnsFailed      = "failed to read result set columns"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgSelectCompleted    = "select completed"
	logMsgCountCompleted     = "count completed"
	logMsgDeleteCompleted    = "delete completed"
	logMsgInsertCompleted    = "insert completed"
	logMsgUpdateCompleted    = "update completed"
	logMsgExistsCompleted    = "existence probe completed"
	logMsgSQLExecuted        = "executed sql for: "
	logMsgOperation          = "query engine operation: "
	logAttrError             = "error"
	logAttrQuery             = "query"
	logAttrTable             = "table"
	logAttrDurationMS        = "duration_ms"
	logAttrRowsAffected      = "rows_affected"
	logActionSelect          = "select"
	logActionCount           = "count"
	logActionDelete          = "delete"
	logActionInsert          = "insert"
	logActionUpdate          = "update"
	logActionExists          = "exists"
	dialectPostgres          = "postgres"
	existsProbeLiteral       = "1"
)

var ErrNilDatabaseConnection = errors.New("nil database connection supplied")

type sqlQueryString = string

// Executor translates activerecord query specifications into PostgreSQL
// statements via goqu and runs them through a database adapter. One
// Executor serves one table; it implements activerecord.Executor and the
// optional activerecord.ExistenceProber.
type Executor struct {
	db               adapters.DBAdapter
	table            string
	logger           Logger
	metricsCollector MetricsCollector
}

// NewFromPGXPool creates an Executor for the given table using a pgx pool.
func NewFromPGXPool(db *pgxpool.Pool, table string, options ...Option) (*Executor, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newExecutor(adapters.NewPGXAdapter(db), table, options...)
}

// NewFromSQLDB creates an Executor for the given table using a sql.DB.
func NewFromSQLDB(db *sql.DB, table string, options ...Option) (*Executor, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newExecutor(adapters.NewSQLAdapter(db), table, options...)
}

// NewFromSQLX creates an Executor for the given table using a sqlx.DB.
func NewFromSQLX(db *sqlx.DB, table string, options ...Option) (*Executor, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newExecutor(adapters.NewSQLXAdapter(db), table, options...)
}

func newExecutor(db adapters.DBAdapter, table string, options ...Option) (*Executor, error) {
	if table == "" {
		return nil, activerecord.ErrEmptyTableName
	}

	executor := &Executor{db: db, table: table}

	for _, option := range options {
		if err := option(executor); err != nil {
			return nil, err
		}
	}

	return executor, nil
}

// Select executes the spec and returns a lazy stream of raw rows.
// A filter set that matches nothing yields an empty stream without
// touching the database.
func (e *Executor) Select(ctx context.Context, spec activerecord.QuerySpec) (activerecord.RowStream, error) {
	if spec.Filters().MatchesNothing() {
		return emptyRowStream{}, nil
	}

	sqlQuery, buildErr := e.buildSelectQuery(spec)
	if buildErr != nil {
		e.logError(logMsgBuildQueryFailed, buildErr)
		return nil, buildErr
	}

	start := time.Now()
	rows, queryErr := e.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	e.logQueryWithDuration(sqlQuery, logActionSelect, duration)
	e.recordDuration(logActionSelect, duration)

	if queryErr != nil {
		e.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, queryErr
	}

	columns, columnsErr := rows.Columns()
	if columnsErr != nil {
		e.logError(logMsgColumnsFailed, columnsErr)
		_ = rows.Close()
		return nil, columnsErr
	}

	e.logOperation(logMsgSelectCompleted, logAttrTable, e.table, logAttrDurationMS, toMilliseconds(duration))

	return &rowStream{rows: rows, columns: columns}, nil
}

// Count executes a COUNT(*) query honoring only the filters.
func (e *Executor) Count(ctx context.Context, filters activerecord.FilterSet) (int64, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(e.table).
		Select(goqu.COUNT(goqu.Star())).
		Where(whereExpressions(filters)...)

	sqlQuery, _, buildErr := stmt.ToSQL()
	if buildErr != nil {
		e.logError(logMsgBuildQueryFailed, buildErr)
		return 0, buildErr
	}

	count, err := e.queryScalar(ctx, sqlQuery, logActionCount)
	if err != nil {
		return 0, err
	}

	e.logOperation(logMsgCountCompleted, logAttrTable, e.table)

	return count, nil
}

// Exists probes for at least one matching row with a LIMIT 1 query,
// cheaper than a full count.
func (e *Executor) Exists(ctx context.Context, filters activerecord.FilterSet) (bool, error) {
	stmt := goqu.Dialect(dialectPostgres).
		From(e.table).
		Select(goqu.L(existsProbeLiteral)).
		Where(whereExpressions(filters)...).
		Limit(1)

	sqlQuery, _, buildErr := stmt.ToSQL()
	if buildErr != nil {
		e.logError(logMsgBuildQueryFailed, buildErr)
		return false, buildErr
	}

	start := time.Now()
	rows, queryErr := e.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	e.logQueryWithDuration(sqlQuery, logActionExists, duration)
	e.recordDuration(logActionExists, duration)

	if queryErr != nil {
		e.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return false, queryErr
	}
	defer e.closeRows(rows)

	found := rows.Next()
	if err := rows.Err(); err != nil {
		e.logError(logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		return false, err
	}

	e.logOperation(logMsgExistsCompleted, logAttrTable, e.table)

	return found, nil
}

// Delete removes all rows matching the filters and returns how many.
func (e *Executor) Delete(ctx context.Context, filters activerecord.FilterSet) (int64, error) {
	stmt := goqu.Dialect(dialectPostgres).
		Delete(e.table).
		Where(whereExpressions(filters)...)

	sqlQuery, _, buildErr := stmt.ToSQL()
	if buildErr != nil {
		e.logError(logMsgBuildQueryFailed, buildErr)
		return 0, buildErr
	}

	affected, err := e.exec(ctx, sqlQuery, logActionDelete)
	if err != nil {
		return 0, err
	}

	e.logOperation(logMsgDeleteCompleted, logAttrTable, e.table, logAttrRowsAffected, affected)

	return affected, nil
}

// Insert stores one row and returns it, including database-generated
// values, via INSERT ... RETURNING.
func (e *Executor) Insert(ctx context.Context, attrs activerecord.Attrs) (activerecord.Row, error) {
	stmt := goqu.Dialect(dialectPostgres).
		Insert(e.table).
		Returning(goqu.Star())

	if len(attrs) > 0 {
		stmt = stmt.Rows(goqu.Record(attrs))
	}

	sqlQuery, _, buildErr := stmt.ToSQL()
	if buildErr != nil {
		e.logError(logMsgBuildQueryFailed, buildErr)
		return nil, buildErr
	}

	start := time.Now()
	rows, queryErr := e.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	e.logQueryWithDuration(sqlQuery, logActionInsert, duration)
	e.recordDuration(logActionInsert, duration)

	if queryErr != nil {
		e.logError(logMsgDBExecFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, queryErr
	}
	defer e.closeRows(rows)

	columns, columnsErr := rows.Columns()
	if columnsErr != nil {
		e.logError(logMsgColumnsFailed, columnsErr)
		return nil, columnsErr
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			e.logError(logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
			return nil, err
		}

		return nil, sql.ErrNoRows
	}

	row, scanErr := scanRow(rows, columns)
	if scanErr != nil {
		e.logError(logMsgScanRowFailed, scanErr)
		return nil, scanErr
	}

	e.logOperation(logMsgInsertCompleted, logAttrTable, e.table)

	return row, nil
}

// Update applies the attributes to all rows matching the filters and
// returns how many rows were affected.
func (e *Executor) Update(ctx context.Context, filters activerecord.FilterSet, attrs activerecord.Attrs) (int64, error) {
	stmt := goqu.Dialect(dialectPostgres).
		Update(e.table).
		Set(goqu.Record(attrs)).
		Where(whereExpressions(filters)...)

	sqlQuery, _, buildErr := stmt.ToSQL()
	if buildErr != nil {
		e.logError(logMsgBuildQueryFailed, buildErr)
		return 0, buildErr
	}

	affected, err := e.exec(ctx, sqlQuery, logActionUpdate)
	if err != nil {
		return 0, err
	}

	e.logOperation(logMsgUpdateCompleted, logAttrTable, e.table, logAttrRowsAffected, affected)

	return affected, nil
}

/***** sql building *****/

func (e *Executor) buildSelectQuery(spec activerecord.QuerySpec) (sqlQueryString, error) {
	stmt := goqu.Dialect(dialectPostgres).From(e.table)

	if projection := spec.Projection(); len(projection) > 0 {
		columns := make([]any, len(projection))
		for i, column := range projection {
			columns[i] = column
		}
		stmt = stmt.Select(columns...)
	}

	stmt = stmt.Where(whereExpressions(spec.Filters())...)

	if ordering, ok := spec.Order(); ok {
		if ordering.Direction() == activerecord.Desc {
			stmt = stmt.Order(goqu.I(ordering.Attribute()).Desc())
		} else {
			stmt = stmt.Order(goqu.I(ordering.Attribute()).Asc())
		}
	}

	if spec.Limit() > 0 {
		stmt = stmt.Limit(uint(spec.Limit()))
	}

	if spec.Offset() > 0 {
		stmt = stmt.Offset(uint(spec.Offset()))
	}

	sqlQuery, _, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		return "", toSQLErr
	}

	return sqlQuery, nil
}

func whereExpressions(filters activerecord.FilterSet) []goqu.Expression {
	expressions := make([]goqu.Expression, 0, filters.Len())

	for _, predicate := range filters.Predicates() {
		column := goqu.C(predicate.Attribute())

		switch predicate.Kind() {
		case activerecord.Equals:
			expressions = append(expressions, column.Eq(predicate.Operand()))

		case activerecord.In:
			expressions = append(expressions, column.In(predicate.Operands()...))

		case activerecord.Between:
			low, high := predicate.Bounds()
			expressions = append(expressions, column.Between(goqu.Range(low, high)))
		}
	}

	return expressions
}

/***** execution helpers *****/

// queryScalar runs a single-value query and scans its result into an int64.
func (e *Executor) queryScalar(ctx context.Context, sqlQuery string, action string) (int64, error) {
	start := time.Now()
	rows, queryErr := e.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	e.logQueryWithDuration(sqlQuery, action, duration)
	e.recordDuration(action, duration)

	if queryErr != nil {
		e.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return 0, queryErr
	}
	defer e.closeRows(rows)

	var value int64

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}

		return 0, sql.ErrNoRows
	}

	if scanErr := rows.Scan(&value); scanErr != nil {
		e.logError(logMsgScanRowFailed, scanErr)
		return 0, scanErr
	}

	return value, nil
}

func (e *Executor) exec(ctx context.Context, sqlQuery string, action string) (int64, error) {
	start := time.Now()
	result, execErr := e.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	e.logQueryWithDuration(sqlQuery, action, duration)
	e.recordDuration(action, duration)

	if execErr != nil {
		e.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, execErr
	}

	affected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		e.logError(logMsgRowsAffectedFailed, rowsAffectedErr)
		return 0, rowsAffectedErr
	}

	return affected, nil
}

func (e *Executor) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if e.logger != nil {
			e.logger.Warn(logMsgScanRowFailed, logAttrError, closeErr.Error())
		}
	}
}

func scanRow(rows adapters.DBRows, columns []string) (activerecord.Row, error) {
	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	if err := rows.Scan(pointers...); err != nil {
		return nil, err
	}

	row := make(activerecord.Row, len(columns))
	for i, column := range columns {
		row[column] = values[i]
	}

	return row, nil
}

/***** row streams *****/

// rowStream adapts adapter rows into the activerecord.RowStream contract,
// scanning each row into a column-keyed map.
type rowStream struct {
	rows    adapters.DBRows
	columns []string
	current activerecord.Row
	err     error
}

func (s *rowStream) Next() bool {
	if s.err != nil {
		return false
	}

	if !s.rows.Next() {
		return false
	}

	row, err := scanRow(s.rows, s.columns)
	if err != nil {
		s.err = err
		return false
	}

	s.current = row

	return true
}

func (s *rowStream) Row() (activerecord.Row, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.current, nil
}

func (s *rowStream) Err() error {
	if s.err != nil {
		return s.err
	}

	return s.rows.Err()
}

func (s *rowStream) Close() error {
	return s.rows.Close()
}

// emptyRowStream satisfies RowStream for filter sets that match nothing.
type emptyRowStream struct{}

func (emptyRowStream) Next() bool                     { return false }
func (emptyRowStream) Row() (activerecord.Row, error) { return nil, nil }
func (emptyRowStream) Err() error                     { return nil }
func (emptyRowStream) Close() error                   { return nil }
