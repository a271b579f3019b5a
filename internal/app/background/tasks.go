package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/usecase/performance"
)

type BackgroundTasks struct {
	PerformanceUsecase performance.PerformanceUsecase
	Interval           time.Duration

	logger     *slog.Logger
	now        func() time.Time
	wg         sync.WaitGroup
	mu         sync.Mutex
	lastPeriod string
}

func NewBackgroundTasks(performanceUC performance.PerformanceUsecase, interval time.Duration, logger *slog.Logger, now func() time.Time) *BackgroundTasks {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &BackgroundTasks{
		PerformanceUsecase: performanceUC,
		Interval:           interval,
		logger:             logger,
		now:                now,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	bt.wg.Add(1)
	go func() {
		defer bt.wg.Done()
		bt.startPerformanceRanking(ctx)
	}()
}

// Wait blocks until every task has observed ctx cancellation.
func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}

func (bt *BackgroundTasks) startPerformanceRanking(ctx context.Context) {
	ticker := time.NewTicker(bt.Interval)
	defer ticker.Stop()

	bt.RunPerformanceRanking(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.RunPerformanceRanking(ctx)
		}
	}
}

// RunPerformanceRanking ранжирует продавцов за прошедшие сутки UTC.
// Повторный запуск за тот же период в рамках процесса пропускается.
func (bt *BackgroundTasks) RunPerformanceRanking(ctx context.Context) bool {
	period := performance.DailyPeriod(bt.now().Add(-24 * time.Hour))

	bt.mu.Lock()
	defer bt.mu.Unlock()
	if bt.lastPeriod == period.Key {
		return false
	}

	snapshots, err := bt.PerformanceUsecase.ComputeSellerPerformance(ctx, period)
	if err != nil {
		bt.logger.Error("seller performance ranking failed", "period", period.Key, "error", err)
		return false
	}
	bt.lastPeriod = period.Key
	bt.logger.Info("seller performance ranking done", "period", period.Key, "shops", len(snapshots))
	return true
}
