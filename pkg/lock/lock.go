// Package lock serializes work on a single payment across goroutines and processes.
package lock

import (
	"context"
	"sync"
)

// Locker grants exclusive, non-blocking ownership of a key.
type Locker interface {
	// TryLock acquires key. ok is false when another owner holds it. The
	// returned unlock releases the key and is safe to call once.
	TryLock(ctx context.Context, key string) (unlock func(), ok bool, err error)
}

// LocalLocker is an in-process Locker.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalLocker creates an empty in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

func (l *LocalLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, false, nil
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, true, nil
}
