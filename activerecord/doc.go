// Package activerecord provides core abstractions for active-record style
// querying and batch mutation of persistent record types.
//
// This package defines the value types and contracts shared by all executor
// engines: predicates, filter sets, query specifications, schemas with
// attribute access policies, and the generic query builder and model façade.
//
// Query construction is persistent: every builder method copies the builder
// and returns a new one, so partially built queries can be branched and
// reused safely, also from concurrent goroutines.
//
// Filter criteria classify their operand by shape:
//   - a slice or array becomes a membership (IN) test
//   - a Range value becomes an inclusive range (BETWEEN) test
//   - anything else becomes an equality test
//
// Key types:
//   - QuerySpec: immutable description of what to fetch
//   - Query: the chainable builder producing and consuming a QuerySpec
//   - Model: composes a Schema, an Executor and a Materializer for one record type
//   - Executor: the contract storage engines implement
//
// Common usage pattern:
//
//	users, _ := activerecord.NewModel(schema, engine, materializer)
//
//	adults, err := users.
//		Select("id", "name").
//		Where(activerecord.Attrs{"age": activerecord.Range{Low: 18, High: 65}, "country": []string{"US", "GH"}}).
//		OrderBy("name", activerecord.Asc).
//		Limit(20).
//		All(ctx)
//
//	for user, err := range users.FindEach(ctx, 0, 500) {
//		// process one user at a time
//	}
package activerecord
