package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch size limits.
const (
	DefaultBatchSize = 100
	MinBatchSize     = 1
	MaxBatchSize     = 1000
)

// Processor errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrInvalidWorkers   = errors.New("workers must be at least 1")
	ErrNilFunc          = errors.New("item function cannot be nil")
)

// ItemFunc processes one item. index is the item's position in the input.
// A returned error aborts the current batch and the run.
type ItemFunc[T any] func(ctx context.Context, item T, index int) error

// ProgressFunc is called after every completed batch.
type ProgressFunc func(snapshot Snapshot)

// Processor runs items batch by batch with bounded concurrency.
type Processor[T any] struct {
	batchSize  int
	workers    int
	onProgress ProgressFunc
}

// NewProcessor creates a processor.
func NewProcessor[T any](batchSize, workers int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkers, workers)
	}
	return &Processor[T]{batchSize: batchSize, workers: workers}, nil
}

// WithProgress sets a callback invoked after each batch.
func (p *Processor[T]) WithProgress(fn ProgressFunc) *Processor[T] {
	p.onProgress = fn
	return p
}

// BatchSize returns the configured batch size.
func (p *Processor[T]) BatchSize() int { return p.batchSize }

// Bounds returns the [start, end) index pairs of each batch of n items.
func (p *Processor[T]) Bounds(n int) [][2]int {
	out := make([][2]int, 0, (n+p.batchSize-1)/p.batchSize)
	for start := 0; start < n; start += p.batchSize {
		out = append(out, [2]int{start, min(start+p.batchSize, n)})
	}
	return out
}

// Run applies fn to every item. It returns the context's error if cancelled
// between batches, or the first error fn returns, wrapped with the batch number.
// An empty input is not an error.
func (p *Processor[T]) Run(ctx context.Context, items []T, fn ItemFunc[T]) error {
	if fn == nil {
		return ErrNilFunc
	}

	bounds := p.Bounds(len(items))
	progress := NewProgress(len(items), len(bounds))
	for b, r := range bounds {
		if err := ctx.Err(); err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)
		for i := r[0]; i < r[1]; i++ {
			i := i
			g.Go(func() error {
				return fn(gctx, items[i], i)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("batch %d failed: %w", b, err)
		}

		progress.Add(r[1] - r[0])
		if p.onProgress != nil {
			p.onProgress(progress.Snapshot())
		}
	}
	return nil
}
