// Package clock abstracts waiting so retry and polling code can be tested
// without real delays.
package clock

import (
	"context"
	"sync"
	"time"
)

// Clock provides the current time and context-aware sleeping.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// Real is a Clock backed by the system clock.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Mock is a Clock whose Sleep advances time instantly and records the
// requested durations.
type Mock struct {
	mu      sync.Mutex
	current time.Time
	sleeps  []time.Duration
}

// NewMock creates a Mock initialized to t. A zero t starts at a fixed,
// non-zero instant.
func NewMock(t time.Time) *Mock {
	if t.IsZero() {
		t = time.Unix(1000000000, 0)
	}
	return &Mock{current: t}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Mock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Advance(d)
	m.mu.Lock()
	m.sleeps = append(m.sleeps, d)
	m.mu.Unlock()
	return nil
}

// Advance moves the clock forward. Panics if d is negative.
func (m *Mock) Advance(d time.Duration) {
	if d < 0 {
		panic("clock.Mock.Advance: duration must be non-negative")
	}
	m.mu.Lock()
	m.current = m.current.Add(d)
	m.mu.Unlock()
}

// Sleeps returns a copy of every duration passed to Sleep.
func (m *Mock) Sleeps() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.sleeps...)
}
