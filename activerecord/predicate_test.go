package activerecord_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofrasa/activerecord-go/activerecord"
)

func Test_NewPredicate_OperandClassification(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		value    any
		validate func(t *testing.T, p activerecord.Predicate)
	}{
		{
			name:  "scalar_int_becomes_equals",
			value: 42,
			validate: func(t *testing.T, p activerecord.Predicate) {
				assert.Equal(t, activerecord.Equals, p.Kind())
				assert.Equal(t, 42, p.Operand())
			},
		},
		{
			name:  "scalar_string_becomes_equals",
			value: "GH",
			validate: func(t *testing.T, p activerecord.Predicate) {
				assert.Equal(t, activerecord.Equals, p.Kind())
				assert.Equal(t, "GH", p.Operand())
			},
		},
		{
			name:  "nil_becomes_equals",
			value: nil,
			validate: func(t *testing.T, p activerecord.Predicate) {
				assert.Equal(t, activerecord.Equals, p.Kind())
				assert.Nil(t, p.Operand())
			},
		},
		{
			name:  "timestamp_becomes_equals",
			value: now,
			validate: func(t *testing.T, p activerecord.Predicate) {
				assert.Equal(t, activerecord.Equals, p.Kind())
				assert.Equal(t, now, p.Operand())
			},
		},
		{
			name:  "byte_slice_stays_scalar",
			value: []byte("blob"),
			validate: func(t *testing.T, p activerecord.Predicate) {
				assert.Equal(t, activerecord.Equals, p.Kind())
			},
		},
		{
			name:  "int_slice_becomes_in",
			value: []int{1, 2, 3},
			validate: func(t *testing.T, p activerecord.Predicate) {
				assert.Equal(t, activerecord.In, p.Kind())
				assert.Equal(t, []any{1, 2, 3}, p.Operands())
			},
		},
		{
			name:  "string_slice_becomes_in",
			value: []string{"US", "GH"},
			validate: func(t *testing.T, p activerecord.Predicate) {
				assert.Equal(t, activerecord.In, p.Kind())
				assert.Equal(t, []any{"US", "GH"}, p.Operands())
			},
		},
		{
			name:  "array_becomes_in",
			value: [2]int{7, 9},
			validate: func(t *testing.T, p activerecord.Predicate) {
				assert.Equal(t, activerecord.In, p.Kind())
				assert.Equal(t, []any{7, 9}, p.Operands())
			},
		},
		{
			name:  "range_becomes_between",
			value: activerecord.Range{Low: 1, High: 5},
			validate: func(t *testing.T, p activerecord.Predicate) {
				assert.Equal(t, activerecord.Between, p.Kind())
				low, high := p.Bounds()
				assert.Equal(t, 1, low)
				assert.Equal(t, 5, high)
			},
		},
		{
			name:  "empty_slice_becomes_in_matching_nothing",
			value: []int{},
			validate: func(t *testing.T, p activerecord.Predicate) {
				assert.Equal(t, activerecord.In, p.Kind())
				assert.Empty(t, p.Operands())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := activerecord.NewPredicate("attr", tc.value)
			require.NoError(t, err)
			assert.Equal(t, "attr", p.Attribute())
			tc.validate(t, p)
		})
	}
}

func Test_NewPredicate_RejectsMalformedOperands(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "map_operand", value: map[string]int{"a": 1}},
		{name: "func_operand", value: func() {}},
		{name: "chan_operand", value: make(chan int)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := activerecord.NewPredicate("attr", tc.value)
			assert.ErrorIs(t, err, activerecord.ErrInvalidOperand)
		})
	}
}
