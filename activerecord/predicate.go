package activerecord

import (
	"fmt"
	"reflect"
)

// Attrs is a mapping from attribute name to value, used both for filter
// criteria and for mass-assignment input.
type Attrs = map[string]any

// Row is a raw storage row keyed by column name, as produced by an Executor
// and consumed by a Materializer.
type Row = map[string]any

// PredicateKind tags the comparator of a Predicate.
type PredicateKind int

const (
	// Equals compares the attribute against a single scalar value.
	Equals PredicateKind = iota

	// In tests the attribute for membership in an ordered sequence of values.
	// An In predicate with zero values matches nothing.
	In

	// Between tests the attribute against an inclusive [low, high] range.
	Between
)

// String returns the comparator name, mainly for error messages and logs.
func (k PredicateKind) String() string {
	switch k {
	case Equals:
		return "equals"
	case In:
		return "in"
	case Between:
		return "between"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Range marks a criteria value as an inclusive range test.
// Both bounds are part of the match.
type Range struct {
	Low  any
	High any
}

/***** Predicate *****/

// Predicate is a single immutable filter condition: a target attribute,
// a comparator, and its operand(s). Construct it with NewPredicate, which
// infers the comparator from the operand shape.
type Predicate struct {
	attribute string
	kind      PredicateKind
	operand   any   // Equals
	operands  []any // In
	low, high any   // Between
}

func (p Predicate) Attribute() string {
	return p.attribute
}

func (p Predicate) Kind() PredicateKind {
	return p.kind
}

// Operand returns the scalar operand of an Equals predicate.
func (p Predicate) Operand() any {
	return p.operand
}

// Operands returns the membership operands of an In predicate.
func (p Predicate) Operands() []any {
	return p.operands
}

// Bounds returns the inclusive bounds of a Between predicate.
func (p Predicate) Bounds() (low any, high any) {
	return p.low, p.high
}

// matchesNothing reports whether the predicate can never match a row.
func (p Predicate) matchesNothing() bool {
	return p.kind == In && len(p.operands) == 0
}

// queryMarker is implemented by Query so that a builder accidentally passed
// as a criteria value is rejected instead of being compared as a scalar.
type queryMarker interface {
	isQueryBuilder()
}

// NewPredicate builds a Predicate for the given attribute, inferring the
// comparator from the shape of value:
//
//   - Range               -> Between
//   - slice or array      -> In (except []byte, which stays a scalar)
//   - map, chan, func, or a query builder -> ErrInvalidOperand
//   - anything else       -> Equals
//
// An empty slice yields an In predicate matching nothing; terminal query
// operations resolve it to an empty result without contacting the executor.
func NewPredicate(attribute string, value any) (Predicate, error) {
	if _, isBuilder := value.(queryMarker); isBuilder {
		return Predicate{}, fmt.Errorf("%w: query builder used as value for %q", ErrInvalidOperand, attribute)
	}

	if r, isRange := value.(Range); isRange {
		return Predicate{attribute: attribute, kind: Between, low: r.Low, high: r.High}, nil
	}

	if value == nil {
		return Predicate{attribute: attribute, kind: Equals, operand: nil}, nil
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// []byte is a scalar blob, not a membership list
			return Predicate{attribute: attribute, kind: Equals, operand: value}, nil
		}

		operands := make([]any, rv.Len())
		for i := range rv.Len() {
			operands[i] = rv.Index(i).Interface()
		}

		return Predicate{attribute: attribute, kind: In, operands: operands}, nil

	case reflect.Map, reflect.Chan, reflect.Func:
		return Predicate{}, fmt.Errorf("%w: %s used as value for %q", ErrInvalidOperand, rv.Kind(), attribute)

	default:
		return Predicate{attribute: attribute, kind: Equals, operand: value}, nil
	}
}
