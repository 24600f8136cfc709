package memoryengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofrasa/activerecord-go/activerecord"
	"github.com/kofrasa/activerecord-go/activerecord/memoryengine"
	"github.com/kofrasa/activerecord-go/testutil/recordtest"
)

func seededEngine(t *testing.T) *memoryengine.Executor {
	t.Helper()

	engine := memoryengine.New("id")
	engine.Seed(
		recordtest.UserRow(1, "alice", "DE", 30),
		recordtest.UserRow(2, "bob", "FR", 25),
		recordtest.UserRow(3, "carol", "DE", 40),
	)

	return engine
}

func drain(t *testing.T, stream activerecord.RowStream) []activerecord.Row {
	t.Helper()

	defer func() { _ = stream.Close() }()

	var rows []activerecord.Row
	for stream.Next() {
		row, err := stream.Row()
		require.NoError(t, err)
		rows = append(rows, row)
	}
	require.NoError(t, stream.Err())

	return rows
}

func whereSpec(t *testing.T, schema activerecord.Schema, criteria activerecord.Attrs) activerecord.QuerySpec {
	t.Helper()

	model, err := activerecord.NewModel(schema, memoryengine.New("id"), recordtest.UserMaterializer())
	require.NoError(t, err)

	chain := model.Where(criteria)
	require.NoError(t, chain.Err())

	return chain.Spec()
}

func Test_Executor_SelectFiltersOrdersAndPaginates(t *testing.T) {
	ctx := context.Background()
	engine := seededEngine(t)
	schema := recordtest.UserSchema()

	model, err := activerecord.NewModel(schema, engine, recordtest.UserMaterializer())
	require.NoError(t, err)

	spec := model.
		Where(activerecord.Attrs{"country": "DE"}).
		OrderBy("age", activerecord.Desc).
		Limit(1).
		Spec()

	stream, err := engine.Select(ctx, spec)
	require.NoError(t, err)

	rows := drain(t, stream)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0]["id"])
}

func Test_Executor_SelectProjectsColumns(t *testing.T) {
	ctx := context.Background()
	engine := seededEngine(t)

	model, err := activerecord.NewModel(recordtest.UserSchema(), engine, recordtest.UserMaterializer())
	require.NoError(t, err)

	spec := model.Select("id", "name").Where(activerecord.Attrs{"id": int64(1)}).Spec()

	stream, err := engine.Select(ctx, spec)
	require.NoError(t, err)

	rows := drain(t, stream)
	require.Len(t, rows, 1)
	assert.Equal(t, activerecord.Row{"id": int64(1), "name": "alice"}, rows[0])
}

func Test_Executor_PredicateEvaluation(t *testing.T) {
	ctx := context.Background()
	schema := recordtest.UserSchema()

	tests := []struct {
		name     string
		criteria activerecord.Attrs
		wantIDs  []int64
	}{
		{
			name:     "equals_compares_numbers_across_go_types",
			criteria: activerecord.Attrs{"age": 30}, // int operand against int64 column
			wantIDs:  []int64{1},
		},
		{
			name:     "in_matches_any_operand",
			criteria: activerecord.Attrs{"country": []string{"FR", "US"}},
			wantIDs:  []int64{2},
		},
		{
			name:     "between_bounds_are_inclusive",
			criteria: activerecord.Attrs{"age": activerecord.Range{Low: 25, High: 30}},
			wantIDs:  []int64{1, 2},
		},
		{
			name:     "conjunction_across_attributes",
			criteria: activerecord.Attrs{"country": "DE", "age": activerecord.Range{Low: 35, High: 45}},
			wantIDs:  []int64{3},
		},
		{
			name:     "equals_with_no_match",
			criteria: activerecord.Attrs{"country": "JP"},
			wantIDs:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine := seededEngine(t)

			stream, err := engine.Select(ctx, whereSpec(t, schema, tc.criteria))
			require.NoError(t, err)

			var ids []int64
			for _, row := range drain(t, stream) {
				ids = append(ids, row["id"].(int64))
			}
			assert.ElementsMatch(t, tc.wantIDs, ids)
		})
	}
}

func Test_Executor_CountAndExists(t *testing.T) {
	ctx := context.Background()
	engine := seededEngine(t)
	schema := recordtest.UserSchema()

	count, err := engine.Count(ctx, whereSpec(t, schema, activerecord.Attrs{"country": "DE"}).Filters())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	exists, err := engine.Exists(ctx, whereSpec(t, schema, activerecord.Attrs{"country": "DE"}).Filters())
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = engine.Exists(ctx, whereSpec(t, schema, activerecord.Attrs{"country": "JP"}).Filters())
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_Executor_DeleteRemovesMatchingRows(t *testing.T) {
	ctx := context.Background()
	engine := seededEngine(t)
	schema := recordtest.UserSchema()

	removed, err := engine.Delete(ctx, whereSpec(t, schema, activerecord.Attrs{"country": "DE"}).Filters())
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	count, err := engine.Count(ctx, activerecord.FilterSet{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func Test_Executor_InsertGeneratesMissingPrimaryKey(t *testing.T) {
	ctx := context.Background()
	engine := memoryengine.New("id")

	stored, err := engine.Insert(ctx, activerecord.Attrs{"title": "notes"})
	require.NoError(t, err)
	assert.NotEmpty(t, stored["id"])
	assert.Equal(t, "notes", stored["title"])

	kept, err := engine.Insert(ctx, activerecord.Attrs{"id": "fixed", "title": "other"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", kept["id"])
}

func Test_Executor_InsertCopiesTheRow(t *testing.T) {
	ctx := context.Background()
	engine := memoryengine.New("id")

	attrs := activerecord.Attrs{"id": "a", "title": "before"}
	stored, err := engine.Insert(ctx, attrs)
	require.NoError(t, err)

	// later mutation of either map must not leak into storage
	attrs["title"] = "after"
	stored["title"] = "after"

	count, err := engine.Count(ctx, whereSpec(t, documentSchema(t), activerecord.Attrs{"title": "before"}).Filters())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func documentSchema(t *testing.T) activerecord.Schema {
	t.Helper()
	return recordtest.DocumentSchema()
}

func Test_Executor_UpdateAppliesAttributesToMatches(t *testing.T) {
	ctx := context.Background()
	engine := seededEngine(t)
	schema := recordtest.UserSchema()

	affected, err := engine.Update(ctx,
		whereSpec(t, schema, activerecord.Attrs{"country": "DE"}).Filters(),
		activerecord.Attrs{"country": "AT"},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	count, err := engine.Count(ctx, whereSpec(t, schema, activerecord.Attrs{"country": "AT"}).Filters())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func Test_Executor_SeedCopiesFixtureRows(t *testing.T) {
	ctx := context.Background()
	engine := memoryengine.New("id")

	row := recordtest.UserRow(1, "alice", "DE", 30)
	engine.Seed(row)
	row["country"] = "FR"

	count, err := engine.Count(ctx, whereSpec(t, recordtest.UserSchema(), activerecord.Attrs{"country": "DE"}).Filters())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func Test_Executor_TimestampOrdering(t *testing.T) {
	ctx := context.Background()
	engine := memoryengine.New("id")
	engine.Seed(
		activerecord.Row{"id": int64(1), "title": "late", "created_at": time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		activerecord.Row{"id": int64(2), "title": "early", "created_at": time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	)

	schema, err := activerecord.NewSchema("posts", []string{"id", "title", "created_at"})
	require.NoError(t, err)

	model, err := activerecord.NewModel(schema, engine, recordtest.DocumentMaterializer())
	require.NoError(t, err)

	spec := model.Scope().OrderBy("created_at", activerecord.Asc).Spec()

	stream, err := engine.Select(ctx, spec)
	require.NoError(t, err)

	rows := drain(t, stream)
	require.Len(t, rows, 2)
	assert.Equal(t, "early", rows[0]["title"])
	assert.Equal(t, "late", rows[1]["title"])
}
