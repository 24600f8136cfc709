package activerecord

import (
	"slices"
)

// Direction is the sort direction of an ordering directive.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// String returns the SQL-ish name of the direction.
func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// Ordering is a single (attribute, direction) sort directive.
type Ordering struct {
	attribute string
	direction Direction
}

func (o Ordering) Attribute() string {
	return o.attribute
}

func (o Ordering) Direction() Direction {
	return o.direction
}

/***** QuerySpec *****/

// QuerySpec is an immutable snapshot describing what to fetch: a FilterSet,
// a projection (empty means all columns), pagination bounds, and an optional
// ordering directive. Builder transitions derive a new QuerySpec from the
// prior one by structural copy plus a single-field update.
type QuerySpec struct {
	filters    FilterSet
	projection []string
	offset     int
	limit      int // 0 = unbounded
	order      Ordering
	ordered    bool
}

func (qs QuerySpec) Filters() FilterSet {
	return qs.filters
}

// Projection returns the projected attribute names in order.
// An empty projection selects all columns.
func (qs QuerySpec) Projection() []string {
	return slices.Clone(qs.projection)
}

func (qs QuerySpec) Offset() int {
	return qs.offset
}

// Limit returns the row bound of the spec; zero means unbounded.
func (qs QuerySpec) Limit() int {
	return qs.limit
}

// Order returns the active ordering directive, if one is set.
func (qs QuerySpec) Order() (Ordering, bool) {
	return qs.order, qs.ordered
}

func (qs QuerySpec) withProjection(attributes []string) QuerySpec {
	qs.projection = attributes
	return qs
}

func (qs QuerySpec) withPredicate(predicate Predicate) QuerySpec {
	qs.filters = qs.filters.Merge(predicate)
	return qs
}

func (qs QuerySpec) withOffset(offset int) QuerySpec {
	qs.offset = offset
	return qs
}

func (qs QuerySpec) withLimit(limit int) QuerySpec {
	qs.limit = limit
	return qs
}

func (qs QuerySpec) withOrder(attribute string, direction Direction) QuerySpec {
	qs.order = Ordering{attribute: attribute, direction: direction}
	qs.ordered = true
	return qs
}
