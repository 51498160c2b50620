package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rathi101/ankisho-billing-software/internal/domain/shared"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisConversionLock implements shared.ConversionLock on Redis. SetNX
// gives atomic acquire semantics across server instances.
type RedisConversionLock struct {
	client    *redis.Client
	keyPrefix string
}

var _ shared.ConversionLock = (*RedisConversionLock)(nil)

// NewRedisConversionLock connects to Redis and verifies the connection.
func NewRedisConversionLock(cfg RedisConfig, keyPrefix string) (*RedisConversionLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return NewRedisConversionLockWithClient(client, keyPrefix), nil
}

// NewRedisConversionLockWithClient wraps an existing client. Used by tests.
func NewRedisConversionLockWithClient(client *redis.Client, keyPrefix string) *RedisConversionLock {
	if keyPrefix == "" {
		keyPrefix = "lock:"
	}
	return &RedisConversionLock{client: client, keyPrefix: keyPrefix}
}

func (l *RedisConversionLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache: redis setnx failed: %w", err)
	}
	return ok, nil
}

func (l *RedisConversionLock) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("cache: redis del failed: %w", err)
	}
	return nil
}

func (l *RedisConversionLock) Close() error {
	return l.client.Close()
}
