// Package redislock implements domain.Locker on top of Redis so that several
// service instances serialize commission changes on the same key.
package redislock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript удаляет ключ, только если он все еще принадлежит владельцу токена.
// KEYS[1] = lock key
// ARGV[1] = token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	defaultTTL        = 10 * time.Second
	defaultRetryDelay = 50 * time.Millisecond
	releaseTimeout    = 2 * time.Second
)

type client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	redis.Scripter
}

type Locker struct {
	client     client
	prefix     string
	ttl        time.Duration
	retryDelay time.Duration
}

func NewLocker(client client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Locker{
		client:     client,
		prefix:     "settlement:lock:",
		ttl:        ttl,
		retryDelay: defaultRetryDelay,
	}
}

// NewClient creates a client for addr; the caller closes it on shutdown.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Lock retries SET NX PX until it wins or ctx is done. The lock expires after
// ttl even if the holder dies without unlocking.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("lock %s: %w: %v", key, domain.ErrConcurrentModification, ctx.Err())
			}
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			return l.unlocker(redisKey, token), nil
		}

		timer := time.NewTimer(l.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("lock %s: %w: %v", key, domain.ErrConcurrentModification, ctx.Err())
		case <-timer.C:
		}
	}
}

func (l *Locker) unlocker(redisKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			// контекст операции к этому моменту может быть уже отменен
			ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()

			released, err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Int64()
			if err != nil {
				slog.Error("failed to release lock", "key", redisKey, "error", err.Error())
				return
			}
			if released == 0 {
				slog.Warn("lock expired before release", "key", redisKey)
			}
		})
	}
}
