package activerecord

import (
	"fmt"
	"slices"
)

const defaultPrimaryKey = "id"

// Schema describes one record type at registration time: its table, its
// ordered column names, its primary key, and its attribute access policy.
// A Schema is validated once when constructed and read-only afterwards,
// so concurrent readers need no synchronization.
type Schema struct {
	table      string
	columns    []string
	columnSet  map[string]struct{}
	primaryKey string
	policy     AccessPolicy
}

// SchemaOption defines a functional option for configuring a Schema.
type SchemaOption func(*Schema) error

// WithPrimaryKey overrides the default primary key column ("id").
func WithPrimaryKey(column string) SchemaOption {
	return func(s *Schema) error {
		s.primaryKey = column
		return nil
	}
}

// WithAccessible declares the explicit mass-assignment allow-list.
// When non-empty, attributes outside it are silently dropped from writes.
func WithAccessible(attributes ...string) SchemaOption {
	return func(s *Schema) error {
		s.policy.accessible = attributeSet(attributes)
		return nil
	}
}

// WithProtected declares attributes excluded from mass-assignment
// regardless of caller-supplied values. The primary key is always
// protected, it does not need to be listed.
func WithProtected(attributes ...string) SchemaOption {
	return func(s *Schema) error {
		s.policy.protected = attributeSet(attributes)
		return nil
	}
}

// WithHidden declares attributes excluded from serialization output.
func WithHidden(attributes ...string) SchemaOption {
	return func(s *Schema) error {
		s.policy.hidden = attributeSet(attributes)
		return nil
	}
}

// NewSchema builds and validates a Schema for one record type.
// Column order is preserved; it defines the default projection order.
// The policy sets and the primary key must name existing columns.
func NewSchema(table string, columns []string, options ...SchemaOption) (Schema, error) {
	if table == "" {
		return Schema{}, ErrEmptyTableName
	}

	if len(columns) == 0 {
		return Schema{}, fmt.Errorf("%w: table %q", ErrNoColumns, table)
	}

	schema := Schema{
		table:     table,
		columns:   slices.Clone(columns),
		columnSet: make(map[string]struct{}, len(columns)),
	}

	for _, column := range columns {
		if column == "" {
			return Schema{}, fmt.Errorf("%w: empty column name in table %q", ErrInvalidArgument, table)
		}
		if _, seen := schema.columnSet[column]; seen {
			return Schema{}, fmt.Errorf("%w: %q in table %q", ErrDuplicateColumn, column, table)
		}
		schema.columnSet[column] = struct{}{}
	}

	for _, option := range options {
		if err := option(&schema); err != nil {
			return Schema{}, err
		}
	}

	if schema.primaryKey == "" {
		schema.primaryKey = defaultPrimaryKey
	}

	if !schema.HasColumn(schema.primaryKey) {
		return Schema{}, fmt.Errorf("%w: %q in table %q", ErrUnknownPrimaryKey, schema.primaryKey, table)
	}

	if err := schema.validatePolicy(); err != nil {
		return Schema{}, err
	}

	return schema, nil
}

func (s Schema) validatePolicy() error {
	for setName, set := range map[string]map[string]struct{}{
		"accessible": s.policy.accessible,
		"protected":  s.policy.protected,
		"hidden":     s.policy.hidden,
	} {
		for attribute := range set {
			if !s.HasColumn(attribute) {
				return fmt.Errorf("%w: %q in %s set of table %q", ErrUnknownAttribute, attribute, setName, s.table)
			}
		}
	}

	return nil
}

func (s Schema) Table() string {
	return s.table
}

// Columns returns the column names in declaration order.
func (s Schema) Columns() []string {
	return slices.Clone(s.columns)
}

func (s Schema) PrimaryKey() string {
	return s.primaryKey
}

func (s Schema) Policy() AccessPolicy {
	return s.policy
}

// HasColumn reports whether the schema declares the given column.
func (s Schema) HasColumn(name string) bool {
	_, ok := s.columnSet[name]
	return ok
}

// checkAttributes returns ErrUnknownAttribute for the first name that is not
// a schema column. Used by the builder to fail fast on select/where/order.
func (s Schema) checkAttributes(attributes ...string) error {
	for _, attribute := range attributes {
		if !s.HasColumn(attribute) {
			return fmt.Errorf("%w: %q in table %q", ErrUnknownAttribute, attribute, s.table)
		}
	}

	return nil
}

func attributeSet(attributes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(attributes))
	for _, attribute := range attributes {
		if attribute == "" {
			continue
		}
		set[attribute] = struct{}{}
	}

	return set
}
