package pool

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestExecuteBatch(t *testing.T) {
	var counter int32
	tasks := make([]Task, 20)
	for i := range tasks {
		n := i
		tasks[i] = func() interface{} {
			atomic.AddInt32(&counter, 1)
			return n
		}
	}

	results := ExecuteBatch(tasks, 4)
	if len(results) != 20 {
		t.Fatalf("got %d results, want 20", len(results))
	}
	if atomic.LoadInt32(&counter) != 20 {
		t.Errorf("executed %d tasks, want 20", counter)
	}

	// 所有返回值都到齐（顺序不保证）
	seen := make(map[int]bool)
	for _, r := range results {
		n, ok := r.(int)
		if !ok {
			t.Fatalf("unexpected result type %T", r)
		}
		seen[n] = true
	}
	if len(seen) != 20 {
		t.Errorf("got %d distinct results, want 20", len(seen))
	}
}

func TestExecuteBatchEmpty(t *testing.T) {
	if got := ExecuteBatch(nil, 4); len(got) != 0 {
		t.Errorf("got %d results for empty input", len(got))
	}
}

func TestExecuteBatchFewerTasksThanWorkers(t *testing.T) {
	tasks := []Task{func() interface{} { return "only" }}
	results := ExecuteBatch(tasks, 16)
	if len(results) != 1 || results[0] != "only" {
		t.Errorf("results = %v", results)
	}
}

func TestExecuteBatchWithTimeout(t *testing.T) {
	tasks := []Task{
		func() interface{} { return 1 },
		func() interface{} {
			time.Sleep(300 * time.Millisecond)
			return 2
		},
	}

	results := ExecuteBatchWithTimeout(tasks, 2, 50*time.Millisecond)
	if len(results) != 1 {
		t.Errorf("got %d results, want 1 (slow task abandoned)", len(results))
	}
	if len(results) == 1 && results[0] != 1 {
		t.Errorf("results[0] = %v, want the fast task's value", results[0])
	}
}
