package chunk

import (
	"context"
	"runtime"
	"sync"

	"github.com/inodb/vibe-chunk/internal/gtf"
	"github.com/inodb/vibe-chunk/internal/plan"
)

// WorkItem holds one chromosome ready to be built.
type WorkItem struct {
	Seq         int
	Chrom       plan.Chromosome
	Breakpoints []int64
	Records     []gtf.Record
}

// WorkResult holds the build output for a single chromosome.
type WorkResult struct {
	Seq    int
	Chrom  plan.Chromosome
	Result *Result
	Err    error
}

// ParallelBuild builds work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used. Once ctx is cancelled the
// remaining items are reported with ctx.Err() without being built.
func (b *Builder) ParallelBuild(ctx context.Context, items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				r := WorkResult{Seq: item.Seq, Chrom: item.Chrom}
				if err := ctx.Err(); err != nil {
					r.Err = err
				} else {
					r.Result, r.Err = b.BuildChromosome(ctx, item.Chrom, item.Breakpoints, item.Records)
				}
				results <- r
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// BuildOrdered builds items on a pool of workers and calls fn for each
// result in item order. At most workers chromosomes are in flight at a
// time: an item is only handed to the pool once an earlier result has
// been passed to fn, so a slow chromosome cannot make the pool hold
// every later one in memory. Items are renumbered by slice position.
// The first error returned by fn cancels the remaining builds.
func (b *Builder) BuildOrdered(ctx context.Context, items []WorkItem, workers int, fn func(WorkResult) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make(chan struct{}, workers)
	queue := make(chan WorkItem)

	go func() {
		defer close(queue)
		for i, item := range items {
			item.Seq = i
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				return
			}
			select {
			case queue <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	return OrderedCollect(b.ParallelBuild(ctx, queue, workers), func(r WorkResult) error {
		defer func() { <-slots }()
		if err := fn(r); err != nil {
			cancel()
			return err
		}
		return nil
	})
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
