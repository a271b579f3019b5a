package redislock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis реализует SET NX и скрипт освобождения в памяти.
type fakeRedis struct {
	mu    sync.Mutex
	keys  map[string]string
	evals int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{keys: make(map[string]string)}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = value.(string)
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) release(keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evals++
	if f.keys[keys[0]] == args[0].(string) {
		delete(f.keys, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func (f *fakeRedis) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return f.release(keys, args...)
}

func (f *fakeRedis) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return f.release(keys, args...)
}

func (f *fakeRedis) EvalRO(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return f.release(keys, args...)
}

func (f *fakeRedis) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return f.release(keys, args...)
}

func (f *fakeRedis) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult([]bool{true}, nil)
}

func (f *fakeRedis) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	return redis.NewStringResult("sha", nil)
}

func (f *fakeRedis) held(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.keys[key]
	return ok
}

func TestLockAndRelease(t *testing.T) {
	fake := newFakeRedis()
	locker := NewLocker(fake, time.Second)

	unlock, err := locker.Lock(context.Background(), "commission:shop:a")
	require.NoError(t, err)
	assert.True(t, fake.held("settlement:lock:commission:shop:a"))

	unlock()
	unlock()
	assert.False(t, fake.held("settlement:lock:commission:shop:a"))
	assert.Equal(t, 1, fake.evals)
}

func TestLockTimesOutWhileHeld(t *testing.T) {
	fake := newFakeRedis()
	locker := NewLocker(fake, time.Second)
	locker.retryDelay = 5 * time.Millisecond

	unlock, err := locker.Lock(context.Background(), "commission:global")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "commission:global")
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
}

func TestLockWaitsForRelease(t *testing.T) {
	fake := newFakeRedis()
	locker := NewLocker(fake, time.Second)
	locker.retryDelay = time.Millisecond

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		second, err := locker.Lock(context.Background(), "k")
		if err == nil {
			second()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestForeignTokenIsNotReleased(t *testing.T) {
	fake := newFakeRedis()
	locker := NewLocker(fake, time.Second)

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	// ключ истек и перехвачен другим экземпляром
	fake.mu.Lock()
	fake.keys["settlement:lock:k"] = "someone-else"
	fake.mu.Unlock()

	unlock()
	assert.True(t, fake.held("settlement:lock:k"))
}

// TestLocker_Integration requires a running Redis and is skipped otherwise.
func TestLocker_Integration(t *testing.T) {
	client := NewClient("localhost:6379", "", 0)
	defer client.Close()
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Skipping Redis integration test: redis not available")
	}

	locker := NewLocker(client, time.Second)
	unlock, err := locker.Lock(ctx, "integration")
	require.NoError(t, err)

	shortCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(shortCtx, "integration")
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	unlock()
	again, err := locker.Lock(ctx, "integration")
	require.NoError(t, err)
	again()
}
