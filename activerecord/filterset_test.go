package activerecord_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofrasa/activerecord-go/activerecord"
)

func mustPredicate(t *testing.T, attribute string, value any) activerecord.Predicate {
	t.Helper()

	p, err := activerecord.NewPredicate(attribute, value)
	require.NoError(t, err)

	return p
}

func Test_FilterSet_MergeReplacesPerAttribute(t *testing.T) {
	var fs activerecord.FilterSet

	fs = fs.Merge(mustPredicate(t, "country", "US"))
	fs = fs.Merge(mustPredicate(t, "age", 30))
	fs = fs.Merge(mustPredicate(t, "country", "GH"))

	assert.Equal(t, 2, fs.Len())

	p, ok := fs.Get("country")
	require.True(t, ok)
	assert.Equal(t, activerecord.Equals, p.Kind())
	assert.Equal(t, "GH", p.Operand())
}

func Test_FilterSet_MergeDoesNotMutateReceiver(t *testing.T) {
	var base activerecord.FilterSet
	base = base.Merge(mustPredicate(t, "country", "US"))

	derived := base.Merge(mustPredicate(t, "country", "GH"))

	p, ok := base.Get("country")
	require.True(t, ok)
	assert.Equal(t, "US", p.Operand())

	p, ok = derived.Get("country")
	require.True(t, ok)
	assert.Equal(t, "GH", p.Operand())
}

func Test_FilterSet_PredicatesAreSortedByAttribute(t *testing.T) {
	var fs activerecord.FilterSet
	fs = fs.Merge(mustPredicate(t, "zip", "1234"))
	fs = fs.Merge(mustPredicate(t, "age", 30))
	fs = fs.Merge(mustPredicate(t, "name", "joe"))

	predicates := fs.Predicates()
	require.Len(t, predicates, 3)
	assert.Equal(t, "age", predicates[0].Attribute())
	assert.Equal(t, "name", predicates[1].Attribute())
	assert.Equal(t, "zip", predicates[2].Attribute())
}

func Test_FilterSet_MatchesNothing(t *testing.T) {
	var fs activerecord.FilterSet
	assert.False(t, fs.MatchesNothing())

	fs = fs.Merge(mustPredicate(t, "age", 30))
	assert.False(t, fs.MatchesNothing())

	fs = fs.Merge(mustPredicate(t, "id", []int{}))
	assert.True(t, fs.MatchesNothing())
}
