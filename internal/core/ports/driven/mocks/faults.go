package mocks

import (
	"context"
	"sync"
	"time"
)

// faults lets tests make a mock fail or stall.
type faults struct {
	mu    sync.RWMutex
	err   error
	delay time.Duration
	calls int
}

// SetError makes every subsequent read return err
func (f *faults) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// SetDelay makes every subsequent read wait d, or until the context is done
func (f *faults) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// Calls returns how many reads were made
func (f *faults) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls
}

func (f *faults) inject(ctx context.Context) error {
	f.mu.Lock()
	f.calls++
	err, delay := f.err, f.delay
	f.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func capLimit(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}
