package port_scanner

import (
	"context"
	"fmt"
	"golang.org/x/sync/semaphore"
	"sync"
	"sync/atomic"
)

// Limiter is a counting permit pool bounding how many probes run at once.
type Limiter struct {
	sem      *semaphore.Weighted
	capacity int
	held     atomic.Int64
}

// Permit is a single slot taken from a Limiter.
type Permit struct {
	l    *Limiter
	once sync.Once
}

// NewLimiter returns a Limiter with the given number of permits.
func NewLimiter(capacity int) (*Limiter, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: limiter capacity must be at least 1, got %d", ErrRuntimeInit, capacity)
	}
	return &Limiter{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}, nil
}

// Acquire blocks until a permit is available or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) (*Permit, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	l.held.Add(1)
	return &Permit{l: l}, nil
}

// Release returns the permit to its pool. Calls after the first are no-ops.
func (p *Permit) Release() {
	p.once.Do(func() {
		p.l.held.Add(-1)
		p.l.sem.Release(1)
	})
}

// Capacity returns the total number of permits.
func (l *Limiter) Capacity() int {
	return l.capacity
}

// Held returns the number of permits currently taken.
func (l *Limiter) Held() int {
	return int(l.held.Load())
}
