package progress

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNext(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 1},
		{45, 46},
		{89, 90},
		{90, 90},
		{99, 90},
		{-5, 1},
	}
	for _, tt := range tests {
		if got := Next(tt.in); got != tt.want {
			t.Errorf("Next(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

type recorder struct {
	mu   sync.Mutex
	seen []int
}

func (r *recorder) update(p int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, p)
}

func (r *recorder) values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.seen...)
}

func TestTaskStopsAtCeiling(t *testing.T) {
	rec := &recorder{}
	task := Start(context.Background(), time.Millisecond, rec.update)

	deadline := time.Now().Add(5 * time.Second)
	for task.Percent() < Ceiling && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	task.Stop()

	if task.Percent() != Ceiling {
		t.Fatalf("Percent() = %d, want %d", task.Percent(), Ceiling)
	}
	seen := rec.values()
	if len(seen) != Ceiling {
		t.Fatalf("got %d updates, want %d", len(seen), Ceiling)
	}
	for i, p := range seen {
		if p != i+1 {
			t.Fatalf("update %d = %d, want %d", i, p, i+1)
		}
	}
}

func TestTaskFinish(t *testing.T) {
	rec := &recorder{}
	task := Start(context.Background(), time.Hour, rec.update)
	task.Finish()

	if task.Percent() != Complete {
		t.Errorf("Percent() = %d, want %d", task.Percent(), Complete)
	}
	if seen := rec.values(); len(seen) != 1 || seen[0] != Complete {
		t.Errorf("updates = %v, want [100]", seen)
	}

	task.Finish()
	if seen := rec.values(); len(seen) != 1 {
		t.Errorf("second Finish reported again: %v", seen)
	}
}

func TestTaskStopKeepsPercent(t *testing.T) {
	task := Start(context.Background(), time.Hour, nil)
	task.Stop()
	task.Stop()
	if task.Percent() != 0 {
		t.Errorf("Percent() = %d, want 0", task.Percent())
	}
}

func TestTaskContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := Start(ctx, time.Millisecond, nil)
	cancel()

	select {
	case <-task.stopped:
	case <-time.After(time.Second):
		t.Fatal("task did not stop after context cancellation")
	}
	p := task.Percent()
	time.Sleep(10 * time.Millisecond)
	if task.Percent() != p {
		t.Error("task kept ticking after cancellation")
	}
}

func TestStartDefaultInterval(t *testing.T) {
	task := Start(context.Background(), 0, nil)
	defer task.Stop()
	time.Sleep(3 * Interval)
	if task.Percent() == 0 {
		t.Error("task with default interval never ticked")
	}
}
