package activerecord

import (
	"slices"
)

// AccessPolicy holds the three attribute-visibility sets of a record type.
// It is declared once at schema registration and read-only afterwards:
//
//   - protected attributes are dropped from mass-assignment input
//   - a non-empty accessible set acts as an explicit allow-list for
//     mass-assignment on top of the protected filter
//   - hidden attributes are dropped from serialization output
type AccessPolicy struct {
	accessible map[string]struct{}
	protected  map[string]struct{}
	hidden     map[string]struct{}
}

// Accessible returns the sorted allow-list attributes; empty means no
// allow-list restriction.
func (p AccessPolicy) Accessible() []string {
	return sortedAttributes(p.accessible)
}

// Protected returns the sorted write-blocked attributes.
func (p AccessPolicy) Protected() []string {
	return sortedAttributes(p.protected)
}

// Hidden returns the sorted serialization-blocked attributes.
func (p AccessPolicy) Hidden() []string {
	return sortedAttributes(p.hidden)
}

func (p AccessPolicy) isProtected(attribute string) bool {
	_, ok := p.protected[attribute]
	return ok
}

func (p AccessPolicy) isHidden(attribute string) bool {
	_, ok := p.hidden[attribute]
	return ok
}

func (p AccessPolicy) isAssignable(attribute string) bool {
	if p.isProtected(attribute) {
		return false
	}

	if len(p.accessible) == 0 {
		return true
	}

	_, allowed := p.accessible[attribute]

	return allowed
}

// SanitizeForWrite filters mass-assignment input through the access policy:
// the primary key and protected attributes are dropped, unknown attributes
// are dropped, and when an accessible allow-list is declared only listed
// attributes survive. The input map is never modified.
func (s Schema) SanitizeForWrite(input Attrs) Attrs {
	sanitized := make(Attrs, len(input))

	for attribute, value := range input {
		if !s.HasColumn(attribute) {
			continue
		}
		if attribute == s.primaryKey {
			continue
		}
		if !s.policy.isAssignable(attribute) {
			continue
		}
		sanitized[attribute] = value
	}

	return sanitized
}

// SanitizeForRead filters serialization output through the access policy,
// dropping every hidden attribute. The input map is never modified.
func (s Schema) SanitizeForRead(full Attrs) Attrs {
	visible := make(Attrs, len(full))

	for attribute, value := range full {
		if s.policy.isHidden(attribute) {
			continue
		}
		visible[attribute] = value
	}

	return visible
}

func sortedAttributes(set map[string]struct{}) []string {
	attributes := make([]string, 0, len(set))
	for attribute := range set {
		attributes = append(attributes, attribute)
	}
	slices.Sort(attributes)

	return attributes
}
