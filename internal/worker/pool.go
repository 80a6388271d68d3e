// Package worker provides a bounded worker pool for per-slide fan-out.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work carrying its slide index for ordered collection.
type Job[T any] struct {
	Index int
	Data  T
}

// Result is the outcome of one job. Err is kept per-result so a single
// failed job never aborts the batch; the caller decides what failure
// means for each slide.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// ProcessFunc runs one job. It must honor ctx cancellation: in-flight
// external processes are expected to terminate when ctx is done.
type ProcessFunc[I, O any] func(ctx context.Context, job Job[I]) (O, error)

// ProgressFunc is called after each job completes.
type ProgressFunc func(completed, total int)

// Run fans items out over a fixed number of workers and collects results
// indexed by input position. Each worker owns one item at a time, so the
// stages within a single item never run concurrently with each other.
// When ctx is cancelled, undispatched jobs are skipped and their results
// carry ctx.Err().
func Run[I, O any](ctx context.Context, items []I, workers int, process ProcessFunc[I, O], onProgress ProgressFunc) []Result[O] {
	total := len(items)
	results := make([]Result[O], total)
	if total == 0 {
		return results
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	jobs := make(chan Job[I])
	done := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := ctx.Err(); err != nil {
					results[job.Index] = Result[O]{Index: job.Index, Err: err}
				} else {
					value, err := process(ctx, job)
					results[job.Index] = Result[O]{Index: job.Index, Value: value, Err: err}
				}
				done <- job.Index
			}
		}()
	}

	go func() {
		for i, item := range items {
			jobs <- Job[I]{Index: i, Data: item}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for range done {
		completed++
		if onProgress != nil {
			onProgress(completed, total)
		}
	}

	return results
}
