package activerecord_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofrasa/activerecord-go/activerecord"
	"github.com/kofrasa/activerecord-go/activerecord/memoryengine"
	"github.com/kofrasa/activerecord-go/testutil/recordtest"
)

func seedManyUsers(t *testing.T, total int) *memoryengine.Executor {
	t.Helper()

	engine := memoryengine.New("id")
	for i := 1; i <= total; i++ {
		engine.Seed(recordtest.UserRow(int64(i), fmt.Sprintf("user%03d", i), "DE", int64(20+i%40)))
	}

	return engine
}

func Test_FindInBatches_PagesThroughAllRows(t *testing.T) {
	ctx := context.Background()
	spy := recordtest.NewExecutorSpy(seedManyUsers(t, 250))
	model := userModel(t, spy)

	var sizes []int
	var seen []int64

	for batch, err := range model.Scope().OrderBy("id", activerecord.Asc).FindInBatches(ctx, 0, 100) {
		require.NoError(t, err)
		sizes = append(sizes, len(batch))
		seen = append(seen, userIDs(batch)...)
	}

	assert.Equal(t, []int{100, 100, 50}, sizes)
	assert.Len(t, seen, 250)
	assert.Equal(t, int64(1), seen[0])
	assert.Equal(t, int64(250), seen[249])

	// one bounded query per page
	require.Len(t, spy.SelectSpecs, 3)
	for i, spec := range spy.SelectSpecs {
		assert.Equal(t, i*100, spec.Offset())
		assert.Equal(t, 100, spec.Limit())
	}
}

func Test_FindInBatches_StartOffsetSkipsRows(t *testing.T) {
	ctx := context.Background()
	model := userModel(t, seedManyUsers(t, 25))

	var seen []int64
	for batch, err := range model.Scope().OrderBy("id", activerecord.Asc).FindInBatches(ctx, 20, 10) {
		require.NoError(t, err)
		seen = append(seen, userIDs(batch)...)
	}

	assert.Equal(t, []int64{21, 22, 23, 24, 25}, seen)
}

func Test_FindInBatches_NegativeStartIsTreatedAsZero(t *testing.T) {
	ctx := context.Background()
	model := userModel(t, seedManyUsers(t, 5))

	var seen []int64
	for batch, err := range model.FindInBatches(ctx, -7, 10) {
		require.NoError(t, err)
		seen = append(seen, userIDs(batch)...)
	}

	assert.Len(t, seen, 5)
}

func Test_FindInBatches_NegativeBatchSizeYieldsError(t *testing.T) {
	ctx := context.Background()
	model := userModel(t, seedManyUsers(t, 5))

	var rounds int
	for batch, err := range model.FindInBatches(ctx, 0, -1) {
		rounds++
		assert.Nil(t, batch)
		assert.ErrorIs(t, err, activerecord.ErrInvalidArgument)
	}

	assert.Equal(t, 1, rounds)
}

func Test_FindInBatches_BreakingStopsFurtherQueries(t *testing.T) {
	ctx := context.Background()
	spy := recordtest.NewExecutorSpy(seedManyUsers(t, 250))
	model := userModel(t, spy)

	for batch, err := range model.FindInBatches(ctx, 0, 100) {
		require.NoError(t, err)
		require.NotEmpty(t, batch)
		break
	}

	assert.Len(t, spy.SelectSpecs, 1)
}

func Test_FindInBatches_MidIterationFailureEndsTheSequence(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	failing := &recordtest.FailingExecutor{Inner: seedManyUsers(t, 250), Err: boom, FailAfter: 1}
	model := userModel(t, failing)

	var goodBatches int
	var gotErr error

	for batch, err := range model.FindInBatches(ctx, 0, 100) {
		if err != nil {
			gotErr = err
			continue
		}
		goodBatches++
		assert.Len(t, batch, 100)
	}

	assert.Equal(t, 1, goodBatches)
	assert.ErrorIs(t, gotErr, activerecord.ErrExecutorFailed)
	assert.ErrorIs(t, gotErr, boom)
}

func Test_FindInBatches_MatchingNothingYieldsNoBatches(t *testing.T) {
	ctx := context.Background()
	spy := recordtest.NewExecutorSpy(seedManyUsers(t, 10))
	model := userModel(t, spy)

	var rounds int
	for range model.Where(activerecord.Attrs{"id": []int64{}}).FindInBatches(ctx, 0, 5) {
		rounds++
	}

	assert.Zero(t, rounds)
	assert.Zero(t, spy.Calls())
}

func Test_FindEach_FlattensBatchesToSingleEntities(t *testing.T) {
	ctx := context.Background()
	model := userModel(t, seedManyUsers(t, 12))

	var seen []int64
	for user, err := range model.FindEach(ctx, 0, 5) {
		require.NoError(t, err)
		seen = append(seen, user.ID)
	}

	assert.Len(t, seen, 12)
	assert.Equal(t, int64(1), seen[0])
	assert.Equal(t, int64(12), seen[11])
}

func Test_FindEach_BreakingMidBatchStops(t *testing.T) {
	ctx := context.Background()
	spy := recordtest.NewExecutorSpy(seedManyUsers(t, 50))
	model := userModel(t, spy)

	var seen int
	for _, err := range model.FindEach(ctx, 0, 10) {
		require.NoError(t, err)
		seen++
		if seen == 3 {
			break
		}
	}

	assert.Equal(t, 3, seen)
	assert.Len(t, spy.SelectSpecs, 1)
}
