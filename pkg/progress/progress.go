// Package progress simulates completion of a request whose real progress is
// unknown.
//
// A [Task] creeps from 0 toward [Ceiling] one percent per tick while the
// request is pending and jumps to 100 when it resolves. Its lifetime is tied
// to the request: Finish on success, Stop on failure or cancellation.
package progress

import (
	"context"
	"sync"
	"time"
)

const (
	// Interval is the default time between ticks.
	Interval = 50 * time.Millisecond
	// Ceiling is the highest percentage reached before completion.
	Ceiling = 90
	// Complete is reported once the request resolves.
	Complete = 100
)

// Next returns the percentage following p on a tick.
func Next(p int) int {
	return min(max(p, 0)+1, Ceiling)
}

// Task advances a percentage on a timer until finished or stopped.
type Task struct {
	mu       sync.Mutex
	percent  int
	onUpdate func(int)
	cancel   context.CancelFunc
	stopped  chan struct{}
	once     sync.Once
}

// Start launches a task ticking every interval. onUpdate, if non-nil, is
// called from the task goroutine with every new percentage and once more
// from Finish. The task stops by itself when ctx is done.
func Start(ctx context.Context, interval time.Duration, onUpdate func(int)) *Task {
	if interval <= 0 {
		interval = Interval
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		onUpdate: onUpdate,
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}
	go t.run(ctx, interval)
	return t
}

func (t *Task) run(ctx context.Context, interval time.Duration) {
	defer close(t.stopped)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.percent >= Ceiling {
				t.mu.Unlock()
				continue
			}
			t.percent = Next(t.percent)
			p := t.percent
			t.mu.Unlock()
			if t.onUpdate != nil {
				t.onUpdate(p)
			}
		}
	}
}

// Percent returns the current percentage.
func (t *Task) Percent() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.percent
}

// Stop halts the timer and leaves the percentage where it is. It is safe to
// call more than once.
func (t *Task) Stop() {
	t.once.Do(t.cancel)
	<-t.stopped
}

// Finish halts the timer and reports completion.
func (t *Task) Finish() {
	t.Stop()
	t.mu.Lock()
	done := t.percent != Complete
	t.percent = Complete
	t.mu.Unlock()
	if done && t.onUpdate != nil {
		t.onUpdate(Complete)
	}
}
