package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
)

// InMemoryConversionLock is a process-local implementation of
// shared.ConversionLock. It is suitable for single-instance deployments and
// tests; multi-instance deployments should use RedisConversionLock.
type InMemoryConversionLock struct {
	mu      sync.Mutex
	entries map[string]time.Time

	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ shared.ConversionLock = (*InMemoryConversionLock)(nil)

// NewInMemoryConversionLock creates a lock store with a background
// goroutine that evicts expired entries.
func NewInMemoryConversionLock() *InMemoryConversionLock {
	l := &InMemoryConversionLock{
		entries:  make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Acquire takes the lock for key if it is not currently held. Expired
// entries count as released.
func (l *InMemoryConversionLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiresAt, ok := l.entries[key]; ok && now.Before(expiresAt) {
		return false, nil
	}

	l.entries[key] = now.Add(ttl)
	return true, nil
}

// Release drops the lock for key. Releasing a key that is not held is a
// no-op.
func (l *InMemoryConversionLock) Release(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, key)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (l *InMemoryConversionLock) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopChan)
		l.wg.Wait()
	})
	return nil
}

func (l *InMemoryConversionLock) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.removeExpired()
		case <-l.stopChan:
			return
		}
	}
}

func (l *InMemoryConversionLock) removeExpired() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, expiresAt := range l.entries {
		if now.After(expiresAt) {
			delete(l.entries, key)
		}
	}
}
