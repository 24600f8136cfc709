package activerecord

import (
	"context"
	"fmt"
	"iter"
)

// DefaultBatchSize is used by FindEach and FindInBatches when the caller
// passes a batch size of zero.
const DefaultBatchSize = 1000

// FindInBatches streams the matching rows in groups without loading the
// full result set: it repeatedly issues offset/limit-bounded queries of
// batchSize rows starting at start, advancing the offset by batchSize each
// round, and stops when a round returns fewer rows than batchSize.
//
// The query's own offset and limit are replaced by the paging bounds.
// A batch size of zero means DefaultBatchSize; a negative one yields
// ErrInvalidArgument. A negative start is treated as zero.
//
// The sequence is lazy and non-restartable. An executor failure is yielded
// as the error of the failing round and ends the iteration; batches already
// yielded stay valid. There is no isolation against concurrent writes:
// rows inserted or deleted between rounds may be skipped or seen twice.
func (q Query[E]) FindInBatches(ctx context.Context, start int, batchSize int) iter.Seq2[[]E, error] {
	return func(yield func([]E, error) bool) {
		if q.err != nil {
			yield(nil, q.err)
			return
		}

		if batchSize < 0 {
			yield(nil, fmt.Errorf("%w: negative batch size %d", ErrInvalidArgument, batchSize))
			return
		}

		if batchSize == 0 {
			batchSize = DefaultBatchSize
		}

		offset := max(start, 0)

		if q.spec.filters.MatchesNothing() {
			return
		}

		for {
			spec := q.spec.withOffset(offset).withLimit(batchSize)

			batch, err := q.collect(ctx, spec)
			if err != nil {
				yield(nil, err)
				return
			}

			if len(batch) > 0 {
				if !yield(batch, nil) {
					return
				}
			}

			if len(batch) < batchSize {
				return
			}

			offset += batchSize
		}
	}
}

// FindEach is FindInBatches flattened to single entities: same paging
// algorithm, same guarantees, one entity per yield.
func (q Query[E]) FindEach(ctx context.Context, start int, batchSize int) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		var none E

		for batch, err := range q.FindInBatches(ctx, start, batchSize) {
			if err != nil {
				yield(none, err)
				return
			}

			for _, entity := range batch {
				if !yield(entity, nil) {
					return
				}
			}
		}
	}
}
