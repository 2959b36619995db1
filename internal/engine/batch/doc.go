// Package batch splits company workloads into fixed-size batches and runs
// the items of each batch on a bounded set of goroutines.
//
// Batches run one after another so memory stays proportional to the batch
// size, and cancellation is checked between batches. Within a batch, items
// are handed to golang.org/x/sync/errgroup with a concurrency limit.
package batch
