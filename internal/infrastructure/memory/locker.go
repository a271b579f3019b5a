package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

// KeyedLocker is an in-process domain.Locker for single-instance deployments
// and tests.
type KeyedLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{slots: make(map[string]chan struct{})}
}

func (l *KeyedLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *KeyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("lock %s: %w: %v", key, domain.ErrConcurrentModification, ctx.Err())
	}
}
