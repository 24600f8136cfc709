package recordtest

import (
	"context"

	"github.com/kofrasa/activerecord-go/activerecord"
)

// ExecutorSpy wraps an inner executor and records every call, so tests can
// assert round-trip counts and the exact specs that reached the executor.
// It deliberately does not implement ExistenceProber, which lets tests
// exercise the Count fallback of Exists.
type ExecutorSpy struct {
	Inner activerecord.Executor

	SelectSpecs   []activerecord.QuerySpec
	CountFilters  []activerecord.FilterSet
	DeleteFilters []activerecord.FilterSet
	InsertAttrs   []activerecord.Attrs
	UpdateAttrs   []activerecord.Attrs
}

// NewExecutorSpy wraps the given executor.
func NewExecutorSpy(inner activerecord.Executor) *ExecutorSpy {
	return &ExecutorSpy{Inner: inner}
}

func (s *ExecutorSpy) Select(ctx context.Context, spec activerecord.QuerySpec) (activerecord.RowStream, error) {
	s.SelectSpecs = append(s.SelectSpecs, spec)
	return s.Inner.Select(ctx, spec)
}

func (s *ExecutorSpy) Count(ctx context.Context, filters activerecord.FilterSet) (int64, error) {
	s.CountFilters = append(s.CountFilters, filters)
	return s.Inner.Count(ctx, filters)
}

func (s *ExecutorSpy) Delete(ctx context.Context, filters activerecord.FilterSet) (int64, error) {
	s.DeleteFilters = append(s.DeleteFilters, filters)
	return s.Inner.Delete(ctx, filters)
}

func (s *ExecutorSpy) Insert(ctx context.Context, attrs activerecord.Attrs) (activerecord.Row, error) {
	s.InsertAttrs = append(s.InsertAttrs, attrs)
	return s.Inner.Insert(ctx, attrs)
}

func (s *ExecutorSpy) Update(ctx context.Context, filters activerecord.FilterSet, attrs activerecord.Attrs) (int64, error) {
	s.UpdateAttrs = append(s.UpdateAttrs, attrs)
	return s.Inner.Update(ctx, filters, attrs)
}

// Calls returns the total number of executor calls of any kind.
func (s *ExecutorSpy) Calls() int {
	return len(s.SelectSpecs) + len(s.CountFilters) + len(s.DeleteFilters) + len(s.InsertAttrs) + len(s.UpdateAttrs)
}

// FailingExecutor delegates to an inner executor until FailAfter Select
// calls have succeeded, then returns Err from every operation. Use it to
// test mid-iteration failure propagation.
type FailingExecutor struct {
	Inner     activerecord.Executor
	Err       error
	FailAfter int

	selects int
}

func (f *FailingExecutor) Select(ctx context.Context, spec activerecord.QuerySpec) (activerecord.RowStream, error) {
	if f.selects >= f.FailAfter {
		return nil, f.Err
	}
	f.selects++

	return f.Inner.Select(ctx, spec)
}

func (f *FailingExecutor) Count(_ context.Context, _ activerecord.FilterSet) (int64, error) {
	return 0, f.Err
}

func (f *FailingExecutor) Delete(_ context.Context, _ activerecord.FilterSet) (int64, error) {
	return 0, f.Err
}

func (f *FailingExecutor) Insert(_ context.Context, _ activerecord.Attrs) (activerecord.Row, error) {
	return nil, f.Err
}

func (f *FailingExecutor) Update(_ context.Context, _ activerecord.FilterSet, _ activerecord.Attrs) (int64, error) {
	return 0, f.Err
}
