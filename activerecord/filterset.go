package activerecord

import (
	"slices"
)

// FilterSet is an immutable mapping from attribute name to Predicate.
// Predicates on distinct attributes combine with an implicit AND; merging a
// predicate for an attribute that already has one replaces it (last write
// wins), it never accumulates.
type FilterSet struct {
	predicates map[string]Predicate
}

// Merge returns a new FilterSet with the given predicate added, replacing
// any existing predicate for the same attribute. The receiver is unchanged.
func (fs FilterSet) Merge(predicate Predicate) FilterSet {
	merged := make(map[string]Predicate, len(fs.predicates)+1)
	for attribute, p := range fs.predicates {
		merged[attribute] = p
	}
	merged[predicate.attribute] = predicate

	return FilterSet{predicates: merged}
}

// Get returns the predicate for the given attribute, if one is set.
func (fs FilterSet) Get(attribute string) (Predicate, bool) {
	p, ok := fs.predicates[attribute]
	return p, ok
}

// Len returns the number of predicates in the set.
func (fs FilterSet) Len() int {
	return len(fs.predicates)
}

// Empty reports whether the set holds no predicates at all.
func (fs FilterSet) Empty() bool {
	return len(fs.predicates) == 0
}

// Predicates returns the predicates ordered by attribute name, so that
// executors generate deterministic queries.
func (fs FilterSet) Predicates() []Predicate {
	attributes := make([]string, 0, len(fs.predicates))
	for attribute := range fs.predicates {
		attributes = append(attributes, attribute)
	}
	slices.Sort(attributes)

	predicates := make([]Predicate, 0, len(attributes))
	for _, attribute := range attributes {
		predicates = append(predicates, fs.predicates[attribute])
	}

	return predicates
}

// MatchesNothing reports whether the set can never match any row, which is
// the case as soon as one predicate is a membership test over zero values.
// Terminal operations use this to resolve to empty results without issuing
// a malformed empty-membership query.
func (fs FilterSet) MatchesNothing() bool {
	for _, p := range fs.predicates {
		if p.matchesNothing() {
			return true
		}
	}

	return false
}
