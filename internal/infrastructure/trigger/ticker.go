// Package trigger drives recurring pipeline runs.
package trigger

import (
	"context"
	"sync"
	"time"

	"MiningNewsBot/internal/ports"
)

// IntervalTrigger fires the job immediately and then on a fixed interval.
// The run gates decide whether a given tick actually does anything, so the
// tick may safely be shorter than the minimum posting interval.
type IntervalTrigger struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

var _ ports.Trigger = (*IntervalTrigger)(nil)

// NewIntervalTrigger builds a trigger with the given tick interval.
func NewIntervalTrigger(interval time.Duration) *IntervalTrigger {
	return &IntervalTrigger{interval: interval}
}

// Start begins ticking in a background goroutine. Calling Start on a running
// trigger is a no-op.
func (t *IntervalTrigger) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	t.mu.Lock()
	if t.stop != nil {
		t.mu.Unlock()
		return nil
	}
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case now := <-ticker.C:
				job(now)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine. Safe to call more than once.
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return nil
	}
	close(t.stop)
	t.stop = nil
	return nil
}
