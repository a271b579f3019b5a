package performance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/metrics"
	performancedto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/performance"
	"github.com/shopspring/decimal"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 365
)

type PerformanceUsecase interface {
	ComputeSellerPerformance(ctx context.Context, period domain.Period) ([]*domain.SellerPerformanceSnapshot, error)
	GetShopPerformanceHistory(ctx context.Context, input *performancedto.ShopHistoryInput) ([]*domain.SellerPerformanceSnapshot, error)
}

type DefaultPerformanceUsecase struct {
	store   domain.Store
	scorer  *Scorer
	ratings domain.RatingSource
	metrics *metrics.SettlementMetrics
	now     func() time.Time
}

func NewDefaultPerformanceUsecase(
	store domain.Store,
	scorer *Scorer,
	ratings domain.RatingSource,
	settlementMetrics *metrics.SettlementMetrics,
	now func() time.Time,
) *DefaultPerformanceUsecase {
	if now == nil {
		now = time.Now
	}
	return &DefaultPerformanceUsecase{
		store:   store,
		scorer:  scorer,
		ratings: ratings,
		metrics: settlementMetrics,
		now:     now,
	}
}

// ComputeSellerPerformance ranks every known shop for period and appends the
// snapshots. Shops without settled orders in period score 0 on activity.
// Earlier snapshots are never overwritten.
func (uc *DefaultPerformanceUsecase) ComputeSellerPerformance(ctx context.Context, period domain.Period) ([]*domain.SellerPerformanceSnapshot, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	done := uc.metrics.Track("compute_performance")

	shopMetrics, err := uc.store.Settlements().AggregateShopMetrics(ctx, period.From, period.To)
	if err != nil {
		done(err)
		return nil, fmt.Errorf("aggregate shop metrics: %w", err)
	}
	shopMetrics, err = uc.withIdleShops(ctx, shopMetrics, period.To)
	if err != nil {
		done(err)
		return nil, err
	}
	uc.attachRatings(ctx, shopMetrics)

	snapshots := uc.scorer.Score(period, shopMetrics, uc.now())
	if len(snapshots) > 0 {
		err = uc.store.WithinTransaction(ctx, func(repos domain.Repositories) error {
			return repos.Performance().SaveSnapshots(ctx, snapshots)
		})
	}
	done(err)
	if err != nil {
		return nil, fmt.Errorf("save performance snapshots: %w", err)
	}

	uc.metrics.ObservePerformanceRun()
	slog.Info("seller performance computed", "period", period.Key, "shops", len(snapshots))
	return snapshots, nil
}

// withIdleShops adds zero metrics for shops that settled before the end of
// the period but have no activity inside it.
func (uc *DefaultPerformanceUsecase) withIdleShops(ctx context.Context, shopMetrics []*domain.ShopMetrics, before time.Time) ([]*domain.ShopMetrics, error) {
	shopIDs, err := uc.store.Settlements().ListShopIDs(ctx, before)
	if err != nil {
		return nil, fmt.Errorf("list known shops: %w", err)
	}
	active := make(map[string]struct{}, len(shopMetrics))
	for _, m := range shopMetrics {
		active[m.ShopID] = struct{}{}
	}
	for _, id := range shopIDs {
		if _, ok := active[id]; ok {
			continue
		}
		shopMetrics = append(shopMetrics, &domain.ShopMetrics{ShopID: id, TotalRevenue: decimal.Zero, GMV: decimal.Zero})
	}
	return shopMetrics, nil
}

// attachRatings fills ratings from the catalog. Ratings are optional: on
// failure shops keep a zero rating.
func (uc *DefaultPerformanceUsecase) attachRatings(ctx context.Context, shopMetrics []*domain.ShopMetrics) {
	if uc.ratings == nil || len(shopMetrics) == 0 {
		return
	}
	shopIDs := make([]string, len(shopMetrics))
	for i, m := range shopMetrics {
		shopIDs[i] = m.ShopID
	}
	ratings, err := uc.ratings.GetShopRatings(ctx, shopIDs)
	if err != nil {
		slog.Warn("shop ratings unavailable, scoring without them", "error", err.Error())
		return
	}
	for _, m := range shopMetrics {
		if r, ok := ratings[m.ShopID]; ok {
			m.Rating = r.Rating
			m.RatingCount = r.RatingCount
		}
	}
}

func (uc *DefaultPerformanceUsecase) GetShopPerformanceHistory(ctx context.Context, input *performancedto.ShopHistoryInput) ([]*domain.SellerPerformanceSnapshot, error) {
	shopID := strings.TrimSpace(input.ShopID)
	if shopID == "" {
		return nil, domain.Validationf("shop id is required")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return uc.store.Performance().ListShopSnapshots(ctx, shopID, limit)
}
