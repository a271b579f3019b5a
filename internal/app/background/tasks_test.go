package background

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	performancedto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/performance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePerformance struct {
	mu      sync.Mutex
	periods []domain.Period
	err     error
}

func (f *fakePerformance) ComputeSellerPerformance(ctx context.Context, period domain.Period) ([]*domain.SellerPerformanceSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.periods = append(f.periods, period)
	return nil, f.err
}

func (f *fakePerformance) GetShopPerformanceHistory(ctx context.Context, input *performancedto.ShopHistoryInput) ([]*domain.SellerPerformanceSnapshot, error) {
	return nil, nil
}

func (f *fakePerformance) calls() []domain.Period {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Period(nil), f.periods...)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunPerformanceRankingComputesPreviousDay(t *testing.T) {
	fake := &fakePerformance{}
	now := time.Date(2026, 6, 2, 0, 30, 0, 0, time.UTC)
	bt := NewBackgroundTasks(fake, time.Hour, discard(), func() time.Time { return now })

	assert.True(t, bt.RunPerformanceRanking(context.Background()))
	assert.False(t, bt.RunPerformanceRanking(context.Background()))

	calls := fake.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "2026-06-01", calls[0].Key)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), calls[0].From)
	assert.Equal(t, time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), calls[0].To)

	now = now.Add(24 * time.Hour)
	assert.True(t, bt.RunPerformanceRanking(context.Background()))
	assert.Equal(t, "2026-06-02", fake.calls()[1].Key)
}

func TestRunPerformanceRankingRetriesAfterFailure(t *testing.T) {
	fake := &fakePerformance{err: errors.New("db down")}
	bt := NewBackgroundTasks(fake, time.Hour, discard(), nil)

	assert.False(t, bt.RunPerformanceRanking(context.Background()))
	fake.mu.Lock()
	fake.err = nil
	fake.mu.Unlock()
	assert.True(t, bt.RunPerformanceRanking(context.Background()))
	assert.Len(t, fake.calls(), 2)
}

func TestStartAllStopsOnCancel(t *testing.T) {
	fake := &fakePerformance{}
	bt := NewBackgroundTasks(fake, 10*time.Millisecond, discard(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	bt.StartAll(ctx)
	require.Eventually(t, func() bool { return len(fake.calls()) > 0 }, time.Second, 5*time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		bt.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("background tasks did not stop")
	}
}
