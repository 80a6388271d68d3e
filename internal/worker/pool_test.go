package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunProcessesAllInOrder(t *testing.T) {
	items := []int{10, 20, 30, 40, 50}

	results := Run(context.Background(), items, 3, func(_ context.Context, job Job[int]) (int, error) {
		return job.Data * 2, nil
	}, nil)

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("item %d: unexpected error %v", i, r.Err)
		}
		if r.Value != items[i]*2 {
			t.Errorf("item %d: value = %d, want %d", i, r.Value, items[i]*2)
		}
		if r.Index != i {
			t.Errorf("item %d: index = %d", i, r.Index)
		}
	}
}

func TestRunKeepsPerItemErrors(t *testing.T) {
	items := []string{"ok", "bad", "ok"}
	wantErr := errors.New("boom")

	results := Run(context.Background(), items, 2, func(_ context.Context, job Job[string]) (string, error) {
		if job.Data == "bad" {
			return "", wantErr
		}
		return job.Data, nil
	}, nil)

	if results[0].Err != nil || results[2].Err != nil {
		t.Error("healthy items should not carry errors")
	}
	if !errors.Is(results[1].Err, wantErr) {
		t.Errorf("results[1].Err = %v, want %v", results[1].Err, wantErr)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	const workers = 2
	var active, peak int32

	items := make([]int, 10)
	results := Run(context.Background(), items, workers, func(_ context.Context, job Job[int]) (int, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return 0, nil
	}, nil)

	if len(results) != 10 {
		t.Fatalf("got %d results", len(results))
	}
	if got := atomic.LoadInt32(&peak); got > workers {
		t.Errorf("peak concurrency %d exceeds %d workers", got, workers)
	}
}

func TestRunReportsProgress(t *testing.T) {
	var mu sync.Mutex
	var seen []int

	Run(context.Background(), []int{1, 2, 3}, 1, func(_ context.Context, job Job[int]) (int, error) {
		return job.Data, nil
	}, func(completed, total int) {
		mu.Lock()
		seen = append(seen, completed)
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		mu.Unlock()
	})

	if fmt.Sprint(seen) != "[1 2 3]" {
		t.Errorf("progress sequence = %v", seen)
	}
}

func TestRunCancelledContextSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	items := make([]int, 20)
	var processed int32

	results := Run(ctx, items, 1, func(runCtx context.Context, job Job[int]) (int, error) {
		if job.Index == 0 {
			cancel()
			return 0, nil
		}
		atomic.AddInt32(&processed, 1)
		return 0, runCtx.Err()
	}, nil)

	cancelled := 0
	for _, r := range results[1:] {
		if errors.Is(r.Err, context.Canceled) {
			cancelled++
		}
	}
	if cancelled == 0 {
		t.Error("expected cancellation errors on undispatched jobs")
	}
}

func TestRunEmptyInput(t *testing.T) {
	results := Run(context.Background(), nil, 4, func(_ context.Context, job Job[int]) (int, error) {
		t.Error("process should not run")
		return 0, nil
	}, nil)
	if len(results) != 0 {
		t.Errorf("got %d results for empty input", len(results))
	}
}
