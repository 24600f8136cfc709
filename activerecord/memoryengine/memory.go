// Package memoryengine provides an in-memory executor for the activerecord
// query layer. It evaluates predicates directly on stored rows and is meant
// for tests and prototyping, where it replaces a database engine without
// changing any calling code.
package memoryengine

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kofrasa/activerecord-go/activerecord"
)

// Executor is a mutex-guarded in-memory implementation of
// activerecord.Executor and activerecord.ExistenceProber. Rows are stored
// as plain attribute maps; ordering of inserts is preserved.
type Executor struct {
	mu         sync.RWMutex
	primaryKey string
	rows       []activerecord.Row
}

// New creates an empty in-memory executor. Inserts without a value for
// primaryKey get a generated UUID string.
func New(primaryKey string) *Executor {
	return &Executor{primaryKey: primaryKey}
}

// Seed stores the given rows as-is, keeping their order. Intended for test
// fixtures; rows are copied, callers may reuse the input maps.
func (e *Executor) Seed(rows ...activerecord.Row) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, row := range rows {
		e.rows = append(e.rows, maps.Clone(row))
	}
}

// Select filters, orders, paginates and projects the stored rows per the spec.
func (e *Executor) Select(_ context.Context, spec activerecord.QuerySpec) (activerecord.RowStream, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	matched := e.matching(spec.Filters())

	if ordering, ok := spec.Order(); ok {
		sortRows(matched, ordering)
	}

	matched = paginate(matched, spec.Offset(), spec.Limit())

	projection := spec.Projection()
	result := make([]activerecord.Row, len(matched))
	for i, row := range matched {
		result[i] = project(row, projection)
	}

	return &sliceRowStream{rows: result, index: -1}, nil
}

// Count returns the number of stored rows matching the filters.
func (e *Executor) Count(_ context.Context, filters activerecord.FilterSet) (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return int64(len(e.matching(filters))), nil
}

// Exists reports whether any stored row matches the filters.
func (e *Executor) Exists(_ context.Context, filters activerecord.FilterSet) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, row := range e.rows {
		if matches(row, filters) {
			return true, nil
		}
	}

	return false, nil
}

// Delete removes all stored rows matching the filters and returns how many.
func (e *Executor) Delete(_ context.Context, filters activerecord.FilterSet) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.rows[:0]
	var removed int64

	for _, row := range e.rows {
		if matches(row, filters) {
			removed++
			continue
		}
		kept = append(kept, row)
	}

	e.rows = kept

	return removed, nil
}

// Insert stores one row, generating a UUID primary key when none is given,
// and returns a copy of the stored row.
func (e *Executor) Insert(_ context.Context, attrs activerecord.Attrs) (activerecord.Row, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	row := maps.Clone(attrs)
	if row == nil {
		row = activerecord.Row{}
	}

	if value, ok := row[e.primaryKey]; !ok || value == nil {
		row[e.primaryKey] = uuid.NewString()
	}

	e.rows = append(e.rows, row)

	return maps.Clone(row), nil
}

// Update applies the attributes to all stored rows matching the filters
// and returns how many rows were touched.
func (e *Executor) Update(_ context.Context, filters activerecord.FilterSet, attrs activerecord.Attrs) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var affected int64

	for _, row := range e.rows {
		if !matches(row, filters) {
			continue
		}

		for attribute, value := range attrs {
			row[attribute] = value
		}
		affected++
	}

	return affected, nil
}

func (e *Executor) matching(filters activerecord.FilterSet) []activerecord.Row {
	matched := make([]activerecord.Row, 0, len(e.rows))

	for _, row := range e.rows {
		if matches(row, filters) {
			matched = append(matched, row)
		}
	}

	return matched
}

func matches(row activerecord.Row, filters activerecord.FilterSet) bool {
	for _, predicate := range filters.Predicates() {
		if !matchesPredicate(row, predicate) {
			return false
		}
	}

	return true
}

func matchesPredicate(row activerecord.Row, predicate activerecord.Predicate) bool {
	value, present := row[predicate.Attribute()]

	switch predicate.Kind() {
	case activerecord.Equals:
		return present && looseEqual(value, predicate.Operand())

	case activerecord.In:
		if !present {
			return false
		}
		for _, operand := range predicate.Operands() {
			if looseEqual(value, operand) {
				return true
			}
		}
		return false

	case activerecord.Between:
		if !present {
			return false
		}
		low, high := predicate.Bounds()
		aboveLow, okLow := compareValues(value, low)
		belowHigh, okHigh := compareValues(value, high)
		return okLow && okHigh && aboveLow >= 0 && belowHigh <= 0

	default:
		return false
	}
}

func paginate(rows []activerecord.Row, offset int, limit int) []activerecord.Row {
	if offset >= len(rows) {
		return nil
	}

	rows = rows[offset:]

	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	return rows
}

func project(row activerecord.Row, projection []string) activerecord.Row {
	if len(projection) == 0 {
		return maps.Clone(row)
	}

	projected := make(activerecord.Row, len(projection))
	for _, column := range projection {
		if value, ok := row[column]; ok {
			projected[column] = value
		}
	}

	return projected
}

func sortRows(rows []activerecord.Row, ordering activerecord.Ordering) {
	attribute := ordering.Attribute()
	descending := ordering.Direction() == activerecord.Desc

	sort.SliceStable(rows, func(i, j int) bool {
		cmp, ok := compareValues(rows[i][attribute], rows[j][attribute])
		if !ok {
			return false
		}
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}

// sliceRowStream serves pre-collected rows through the RowStream contract.
type sliceRowStream struct {
	rows  []activerecord.Row
	index int
}

func (s *sliceRowStream) Next() bool {
	if s.index+1 >= len(s.rows) {
		return false
	}
	s.index++

	return true
}

func (s *sliceRowStream) Row() (activerecord.Row, error) {
	return s.rows[s.index], nil
}

func (s *sliceRowStream) Err() error {
	return nil
}

func (s *sliceRowStream) Close() error {
	return nil
}
