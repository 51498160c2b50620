package shared

import (
	"context"
	"time"
)

// ConversionLock provides short-lived exclusive locks keyed by an arbitrary
// string, used to serialize operations that must not run concurrently for the
// same resource (e.g. converting the same marketplace order twice).
type ConversionLock interface {
	// Acquire attempts to take the lock for key with a TTL.
	// Returns true if the lock was newly acquired, false if it is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release releases the lock for key. Releasing an unheld lock is a no-op.
	Release(ctx context.Context, key string) error

	// Close releases resources held by the lock implementation
	Close() error
}

// LockConfig holds configuration for conversion locking
type LockConfig struct {
	// TTL is how long a lock is held before it expires on its own.
	// Guards against locks leaking when a holder crashes mid-operation.
	TTL time.Duration
}

// DefaultLockConfig returns the default lock configuration
func DefaultLockConfig() LockConfig {
	return LockConfig{
		TTL: 30 * time.Second,
	}
}
