// Package lock serializes the check-conflict-then-insert sequence per
// doctor. With a single in-process authoritative store a keyed mutex is
// the whole mutual-exclusion boundary.
package lock

import (
	"context"
	"sync"
)

// Locker guards the booking service's critical section per doctor.
type Locker interface {
	WithDoctorLock(ctx context.Context, doctorID string, fn func(ctx context.Context) error) error
}

type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedLocker creates a locker that holds one mutex per doctor key.
func NewKeyedLocker() Locker {
	return &keyedLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *keyedLocker) WithDoctorLock(ctx context.Context, doctorID string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	m, ok := l.locks[doctorID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[doctorID] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	return fn(ctx)
}
