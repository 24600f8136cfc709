package activerecord

import (
	"context"
	"errors"
	"iter"
)

// Model is the record-type façade: it composes a Schema, an Executor and a
// Materializer explicitly, instead of attaching behavior to the entity type
// itself. A Model is immutable and safe for concurrent use; every query
// expression derives fresh builder values.
type Model[E any] struct {
	schema Schema
	exec   Executor
	mat    Materializer[E]
}

// NewModel binds a validated schema to an executor engine and a
// materializer for the entity type E.
func NewModel[E any](schema Schema, exec Executor, mat Materializer[E]) (Model[E], error) {
	if exec == nil {
		return Model[E]{}, ErrNilExecutor
	}

	if mat == nil {
		return Model[E]{}, ErrNilMaterializer
	}

	return Model[E]{schema: schema, exec: exec, mat: mat}, nil
}

// Schema returns the registered schema of the record type.
func (m Model[E]) Schema() Schema {
	return m.schema
}

// Scope returns a fresh, unconstrained query builder for the record type.
func (m Model[E]) Scope() Query[E] {
	return Query[E]{schema: m.schema, exec: m.exec, mat: m.mat}
}

// Select starts a chain with the given projection.
func (m Model[E]) Select(attributes ...string) Query[E] {
	return m.Scope().Select(attributes...)
}

// Where starts a chain with the given filter criteria.
func (m Model[E]) Where(criteria Attrs) Query[E] {
	return m.Scope().Where(criteria)
}

// Find returns the record with the given primary key,
// or ErrRecordNotFound.
func (m Model[E]) Find(ctx context.Context, id any) (E, error) {
	return m.Scope().Where(Attrs{m.schema.primaryKey: id}).First(ctx)
}

// FindBy returns the first record matching the criteria, ordered by
// primary key, or ErrRecordNotFound.
func (m Model[E]) FindBy(ctx context.Context, criteria Attrs) (E, error) {
	return m.Scope().Where(criteria).OrderBy(m.schema.primaryKey, Asc).First(ctx)
}

// All returns every record of the type.
func (m Model[E]) All(ctx context.Context) ([]E, error) {
	return m.Scope().All(ctx)
}

// First returns the record with the smallest primary key,
// or ErrRecordNotFound.
func (m Model[E]) First(ctx context.Context) (E, error) {
	return m.Scope().OrderBy(m.schema.primaryKey, Asc).First(ctx)
}

// Last returns the record with the largest primary key,
// or ErrRecordNotFound.
func (m Model[E]) Last(ctx context.Context) (E, error) {
	return m.Scope().OrderBy(m.schema.primaryKey, Desc).First(ctx)
}

// Take returns up to n records ordered by primary key,
// descending when reverse is set.
func (m Model[E]) Take(ctx context.Context, n int, reverse bool) ([]E, error) {
	direction := Asc
	if reverse {
		direction = Desc
	}

	return m.Scope().OrderBy(m.schema.primaryKey, direction).Limit(n).All(ctx)
}

// Count returns the number of records of the type.
func (m Model[E]) Count(ctx context.Context) (int64, error) {
	return m.Scope().Count(ctx)
}

// Create stores a new record from the write-sanitized attributes and
// returns the materialized entity, including storage-generated values.
func (m Model[E]) Create(ctx context.Context, attrs Attrs) (E, error) {
	var none E

	row, err := m.exec.Insert(ctx, m.schema.SanitizeForWrite(attrs))
	if err != nil {
		return none, errors.Join(ErrExecutorFailed, err)
	}

	entity, err := m.mat.Materialize(row)
	if err != nil {
		return none, errors.Join(ErrMaterializeFailed, err)
	}

	return entity, nil
}

// Update applies the write-sanitized attributes to the record with the
// given primary key and returns how many rows were affected.
func (m Model[E]) Update(ctx context.Context, id any, attrs Attrs) (int64, error) {
	return m.Scope().Where(Attrs{m.schema.primaryKey: id}).UpdateAll(ctx, attrs)
}

// Destroy deletes the records with the given primary keys and returns how
// many rows were removed. With no ids it performs zero deletes and issues
// no call to the executor.
func (m Model[E]) Destroy(ctx context.Context, ids ...any) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	return m.Scope().Where(Attrs{m.schema.primaryKey: ids}).DeleteAll(ctx)
}

// FindEach streams every record one at a time, paging with the given start
// offset and batch size. See Query.FindEach.
func (m Model[E]) FindEach(ctx context.Context, start int, batchSize int) iter.Seq2[E, error] {
	return m.Scope().FindEach(ctx, start, batchSize)
}

// FindInBatches streams every record in groups, paging with the given
// start offset and batch size. See Query.FindInBatches.
func (m Model[E]) FindInBatches(ctx context.Context, start int, batchSize int) iter.Seq2[[]E, error] {
	return m.Scope().FindInBatches(ctx, start, batchSize)
}
