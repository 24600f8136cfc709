package activerecord

import (
	"context"
)

// Executor is the narrow contract a storage engine fulfills. The core never
// constructs query-language strings itself; it composes QuerySpec and
// FilterSet values and hands them to the executor, which owns translation
// into the backing store's native query form.
//
// Executor errors are propagated to the caller of the terminal operation
// unmodified (wrapped, never swallowed, never retried by the core).
type Executor interface {
	// Select returns a stream of raw rows matching the spec. The caller
	// must close the stream; closing early must release all resources.
	Select(ctx context.Context, spec QuerySpec) (RowStream, error)

	// Count returns the number of rows matching the filters, ignoring
	// projection and pagination.
	Count(ctx context.Context, filters FilterSet) (int64, error)

	// Delete removes all rows matching the filters and returns how many.
	Delete(ctx context.Context, filters FilterSet) (int64, error)

	// Insert stores one row from the given attributes and returns the
	// stored row, including storage-generated values.
	Insert(ctx context.Context, attrs Attrs) (Row, error)

	// Update applies the attributes to all rows matching the filters and
	// returns how many rows were affected.
	Update(ctx context.Context, filters FilterSet, attrs Attrs) (int64, error)
}

// ExistenceProber is an optional Executor extension answering existence
// cheaper than a full count. Terminal Exists calls prefer it when present
// and fall back to Count > 0 otherwise.
type ExistenceProber interface {
	Exists(ctx context.Context, filters FilterSet) (bool, error)
}

// RowStream is a lazy sequence of raw rows. Iteration follows the usual
// database rows shape: Next, Row, then Err after the loop, Close always.
type RowStream interface {
	Next() bool
	Row() (Row, error)
	Err() error
	Close() error
}

// Materializer converts between raw storage rows and record entities.
// It is supplied by the collaborator owning the attribute-to-storage mapping.
type Materializer[E any] interface {
	Materialize(row Row) (E, error)
	Dematerialize(entity E) (Attrs, error)
}

// MaterializerFuncs adapts a pair of functions to the Materializer interface.
type MaterializerFuncs[E any] struct {
	MaterializeFunc   func(row Row) (E, error)
	DematerializeFunc func(entity E) (Attrs, error)
}

func (m MaterializerFuncs[E]) Materialize(row Row) (E, error) {
	return m.MaterializeFunc(row)
}

func (m MaterializerFuncs[E]) Dematerialize(entity E) (Attrs, error) {
	return m.DematerializeFunc(entity)
}
