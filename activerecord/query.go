package activerecord

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Query is the chainable query builder for one record type. It is a
// persistent value: every builder method returns a new Query wrapping an
// updated QuerySpec and never mutates the receiver, so partially built
// queries can be branched and reused safely.
//
// Argument validation happens eagerly at the call that introduces the
// problem; the first failure sticks to every derived builder and is
// reported by the terminal operation before any executor contact, so a
// chain never silently executes an invalid spec.
type Query[E any] struct {
	schema Schema
	exec   Executor
	mat    Materializer[E]
	spec   QuerySpec
	err    error
}

// isQueryBuilder marks Query for operand classification, see NewPredicate.
func (q Query[E]) isQueryBuilder() {}

// Spec returns the accumulated immutable query specification.
func (q Query[E]) Spec() QuerySpec {
	return q.spec
}

// Err returns the first validation error recorded while building the chain.
func (q Query[E]) Err() error {
	return q.err
}

/***** builder transitions *****/

// Select sets the projection to the given attributes, preserving order and
// dropping duplicates. Repeated calls replace the projection, they do not
// union. Unknown attributes fail the chain.
func (q Query[E]) Select(attributes ...string) Query[E] {
	if q.err != nil {
		return q
	}

	if err := q.schema.checkAttributes(attributes...); err != nil {
		q.err = err
		return q
	}

	projection := make([]string, 0, len(attributes))
	for _, attribute := range attributes {
		if !slices.Contains(projection, attribute) {
			projection = append(projection, attribute)
		}
	}

	q.spec = q.spec.withProjection(projection)

	return q
}

// Where classifies each criteria value into a Predicate and merges it into
// the filter set. A later predicate on an attribute replaces an earlier one,
// across calls too. Unknown attributes and malformed operand shapes fail
// the chain at this call.
func (q Query[E]) Where(criteria Attrs) Query[E] {
	if q.err != nil {
		return q
	}

	// deterministic merge and error selection
	attributes := make([]string, 0, len(criteria))
	for attribute := range criteria {
		attributes = append(attributes, attribute)
	}
	slices.Sort(attributes)

	for _, attribute := range attributes {
		if err := q.schema.checkAttributes(attribute); err != nil {
			q.err = err
			return q
		}

		predicate, err := NewPredicate(attribute, criteria[attribute])
		if err != nil {
			q.err = err
			return q
		}

		q.spec = q.spec.withPredicate(predicate)
	}

	return q
}

// Offset skips the first n matching rows. Negative n fails the chain.
func (q Query[E]) Offset(n int) Query[E] {
	if q.err != nil {
		return q
	}

	if n < 0 {
		q.err = fmt.Errorf("%w: negative offset %d", ErrInvalidArgument, n)
		return q
	}

	q.spec = q.spec.withOffset(n)

	return q
}

// Limit bounds the result to n rows; zero means unbounded.
// Negative n fails the chain.
func (q Query[E]) Limit(n int) Query[E] {
	if q.err != nil {
		return q
	}

	if n < 0 {
		q.err = fmt.Errorf("%w: negative limit %d", ErrInvalidArgument, n)
		return q
	}

	q.spec = q.spec.withLimit(n)

	return q
}

// OrderBy sets the single active ordering directive, replacing any prior
// one. Unknown attributes fail the chain.
func (q Query[E]) OrderBy(attribute string, direction Direction) Query[E] {
	if q.err != nil {
		return q
	}

	if err := q.schema.checkAttributes(attribute); err != nil {
		q.err = err
		return q
	}

	q.spec = q.spec.withOrder(attribute, direction)

	return q
}

/***** terminal operations *****/

// All executes the accumulated spec and materializes every matching row.
func (q Query[E]) All(ctx context.Context) ([]E, error) {
	if q.err != nil {
		return nil, q.err
	}

	if q.spec.filters.MatchesNothing() {
		return []E{}, nil
	}

	return q.collect(ctx, q.spec)
}

// First executes the spec with the limit forced to one, regardless of any
// prior limit. Returns ErrRecordNotFound when nothing matches.
func (q Query[E]) First(ctx context.Context) (E, error) {
	var none E

	if q.err != nil {
		return none, q.err
	}

	if q.spec.filters.MatchesNothing() {
		return none, ErrRecordNotFound
	}

	entities, err := q.collect(ctx, q.spec.withLimit(1))
	if err != nil {
		return none, err
	}

	if len(entities) == 0 {
		return none, ErrRecordNotFound
	}

	return entities[0], nil
}

// Count executes a count-shaped query: filters are honored, projection and
// pagination are ignored.
func (q Query[E]) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}

	if q.spec.filters.MatchesNothing() {
		return 0, nil
	}

	count, err := q.exec.Count(ctx, q.spec.filters)
	if err != nil {
		return 0, errors.Join(ErrExecutorFailed, err)
	}

	return count, nil
}

// Exists reports whether any row matches the filters. When the executor
// implements ExistenceProber the cheaper probe is used, otherwise it falls
// back to Count > 0.
func (q Query[E]) Exists(ctx context.Context) (bool, error) {
	if q.err != nil {
		return false, q.err
	}

	if q.spec.filters.MatchesNothing() {
		return false, nil
	}

	if prober, ok := q.exec.(ExistenceProber); ok {
		exists, err := prober.Exists(ctx, q.spec.filters)
		if err != nil {
			return false, errors.Join(ErrExecutorFailed, err)
		}

		return exists, nil
	}

	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// DeleteAll removes every row matching the filters and returns how many
// were removed. A filter set that matches nothing issues no delete.
func (q Query[E]) DeleteAll(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}

	if q.spec.filters.MatchesNothing() {
		return 0, nil
	}

	affected, err := q.exec.Delete(ctx, q.spec.filters)
	if err != nil {
		return 0, errors.Join(ErrExecutorFailed, err)
	}

	return affected, nil
}

// UpdateAll applies the write-sanitized attributes to every row matching
// the filters and returns how many rows were affected. When the policy
// filters out every attribute, no update is issued.
func (q Query[E]) UpdateAll(ctx context.Context, attrs Attrs) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}

	sanitized := q.schema.SanitizeForWrite(attrs)
	if len(sanitized) == 0 {
		return 0, nil
	}

	if q.spec.filters.MatchesNothing() {
		return 0, nil
	}

	affected, err := q.exec.Update(ctx, q.spec.filters, sanitized)
	if err != nil {
		return 0, errors.Join(ErrExecutorFailed, err)
	}

	return affected, nil
}

// collect executes one spec and drains the row stream into entities.
// Either the whole batch materializes or the call fails; there is no
// partial-success result.
func (q Query[E]) collect(ctx context.Context, spec QuerySpec) ([]E, error) {
	stream, err := q.exec.Select(ctx, spec)
	if err != nil {
		return nil, errors.Join(ErrExecutorFailed, err)
	}
	defer func() { _ = stream.Close() }()

	entities := make([]E, 0)

	for stream.Next() {
		row, rowErr := stream.Row()
		if rowErr != nil {
			return nil, errors.Join(ErrExecutorFailed, rowErr)
		}

		entity, matErr := q.mat.Materialize(row)
		if matErr != nil {
			return nil, errors.Join(ErrMaterializeFailed, matErr)
		}

		entities = append(entities, entity)
	}

	if streamErr := stream.Err(); streamErr != nil {
		return nil, errors.Join(ErrExecutorFailed, streamErr)
	}

	return entities, nil
}
