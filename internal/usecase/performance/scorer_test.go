package performance

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/memory"
	performancedto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/performance"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = DailyPeriod(time.Date(2026, 8, 10, 15, 30, 0, 0, time.UTC))

func metric(shopID string, revenue, orders int64, rating float64, gmv int64) *domain.ShopMetrics {
	return &domain.ShopMetrics{
		ShopID:       shopID,
		TotalRevenue: decimal.NewFromInt(revenue),
		TotalOrders:  orders,
		Rating:       rating,
		GMV:          decimal.NewFromInt(gmv),
	}
}

func TestScoreAndRank(t *testing.T) {
	scorer, err := NewScorer(domain.DefaultScoreWeights)
	require.NoError(t, err)

	snaps := scorer.Score(day, []*domain.ShopMetrics{
		metric("C", 0, 0, 0, 0),
		metric("B", 500, 20, 5.0, 1000),
		metric("A", 1000, 10, 4.0, 2000),
	}, day.To)

	require.Len(t, snaps, 3)
	a, b, c := snaps[0], snaps[1], snaps[2]

	assert.Equal(t, "A", a.ShopID)
	assert.Equal(t, 1, a.Rank)
	assert.Equal(t, 100.0, a.RevenueScore)
	assert.Equal(t, 50.0, a.OrdersScore)
	assert.Equal(t, 80.0, a.RatingScore)
	assert.Equal(t, 100.0, a.GMVScore)
	assert.Equal(t, 81.0, a.PerformanceScore)

	assert.Equal(t, "B", b.ShopID)
	assert.Equal(t, 75.0, b.PerformanceScore)
	assert.Equal(t, 2, b.Rank)

	assert.Equal(t, "C", c.ShopID)
	assert.Zero(t, c.PerformanceScore)
	assert.Equal(t, day.Key, c.Period)
}

func TestScoreTieBreaks(t *testing.T) {
	scorer, err := NewScorer(domain.ScoreWeights{Revenue: 50, Orders: 50})
	require.NoError(t, err)

	snaps := scorer.Score(day, []*domain.ShopMetrics{
		metric("Z", 10, 1, 0, 0),
		metric("Y", 50, 2, 0, 0),
		metric("X", 100, 1, 0, 0),
		metric("W", 10, 1, 0, 0),
	}, day.To)

	ids := make([]string, len(snaps))
	for i, s := range snaps {
		ids[i] = s.ShopID
	}
	// X и Y по 75 баллов, выше выручка у X; W и Z совпадают полностью
	assert.Equal(t, []string{"X", "Y", "W", "Z"}, ids)
}

func TestScoreWeightsMustSumTo100(t *testing.T) {
	_, err := NewScorer(domain.ScoreWeights{Revenue: 40, Orders: 40})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewScorer(domain.ScoreWeights{Revenue: 120, Orders: -20})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestScoresStayInRange(t *testing.T) {
	scorer, err := NewScorer(domain.DefaultScoreWeights)
	require.NoError(t, err)

	parameters := gopter.DefaultTestParameters()
	parameters.MaxSize = 15
	properties := gopter.NewProperties(parameters)
	properties.Property("every score is within [0, 100]", prop.ForAll(
		func(revenues []int64) bool {
			metrics := make([]*domain.ShopMetrics, len(revenues))
			for i, r := range revenues {
				metrics[i] = metric(string(rune('a'+i)), r, r%50, float64(r%6), r*2)
			}
			for _, s := range scorer.Score(day, metrics, day.To) {
				for _, v := range []float64{s.RevenueScore, s.OrdersScore, s.RatingScore, s.GMVScore, s.PerformanceScore} {
					if v < 0 || v > 100 {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 1_000_000_000)),
	))
	properties.TestingRun(t)
}

func TestDailyPeriod(t *testing.T) {
	assert.Equal(t, "2026-08-10", day.Key)
	assert.Equal(t, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), day.From)
	assert.Equal(t, 24*time.Hour, day.To.Sub(day.From))
}

func finalized(store *memory.Store, t *testing.T, orderID, shopID string, net, gmv int64, at time.Time) {
	t.Helper()
	created, err := store.Settlements().CreateSettlementIfAbsent(context.Background(), &domain.ShopSettlement{
		ID:           orderID + shopID,
		OrderID:      orderID,
		ShopID:       shopID,
		ShopSubtotal: decimal.NewFromInt(gmv),
		NetAmount:    decimal.NewFromInt(net),
		Status:       domain.SettlementFinalized,
		FinalizedAt:  &at,
	})
	require.NoError(t, err)
	require.True(t, created)
}

func TestComputeSellerPerformance(t *testing.T) {
	store := memory.NewStore()
	inside := day.From.Add(2 * time.Hour)
	finalized(store, t, "o1", "A", 900, 1000, inside)
	finalized(store, t, "o2", "A", 450, 500, inside)
	finalized(store, t, "o3", "B", 2700, 3000, inside)
	finalized(store, t, "o4", "B", 9000, 10000, day.To) // следующий день

	ratings := memory.NewStaticRatingSource(map[string]domain.ShopRating{
		"A": {Rating: 5, RatingCount: 12},
		"B": {Rating: 2.5, RatingCount: 3},
	})
	scorer, err := NewScorer(domain.DefaultScoreWeights)
	require.NoError(t, err)
	now := day.To.Add(time.Hour)
	uc := NewDefaultPerformanceUsecase(store, scorer, ratings, nil, func() time.Time { return now })
	ctx := context.Background()

	snaps, err := uc.ComputeSellerPerformance(ctx, day)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	b, a := snaps[0], snaps[1]
	assert.Equal(t, "B", b.ShopID)
	assert.True(t, b.TotalRevenue.Equal(decimal.NewFromInt(2700)))
	assert.EqualValues(t, 1, b.TotalOrders)
	// 40*100 + 30*50 + 20*50 + 10*100
	assert.Equal(t, 75.0, b.PerformanceScore)

	assert.Equal(t, "A", a.ShopID)
	assert.EqualValues(t, 2, a.TotalOrders)
	assert.EqualValues(t, 12, a.RatingCount)
	// 40*50 + 30*100 + 20*100 + 10*50
	assert.Equal(t, 75.0, a.PerformanceScore)
	assert.Equal(t, 2, a.Rank, "tie broken by revenue")

	_, err = uc.ComputeSellerPerformance(ctx, day)
	require.NoError(t, err)
	history, err := uc.GetShopPerformanceHistory(ctx, &performancedto.ShopHistoryInput{ShopID: "A"})
	require.NoError(t, err)
	assert.Len(t, history, 2, "snapshots are appended")
}

func TestComputeSellerPerformanceRanksIdleShops(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	finalized(store, t, "o1", "A", 900, 1000, day.From.Add(time.Hour))
	finalized(store, t, "o0", "C", 500, 600, day.From.Add(-time.Hour)) // предыдущий день

	// магазин появился уже после периода
	later := day.To.Add(time.Hour)
	_, err := store.Settlements().CreateSettlementIfAbsent(ctx, &domain.ShopSettlement{
		ID: "o9D", OrderID: "o9", ShopID: "D", Status: domain.SettlementPending, CreatedAt: later,
	})
	require.NoError(t, err)

	scorer, err := NewScorer(domain.DefaultScoreWeights)
	require.NoError(t, err)
	uc := NewDefaultPerformanceUsecase(store, scorer, nil, nil, func() time.Time { return later })

	snaps, err := uc.ComputeSellerPerformance(ctx, day)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "A", snaps[0].ShopID)

	idle := snaps[1]
	assert.Equal(t, "C", idle.ShopID)
	assert.Equal(t, 2, idle.Rank)
	assert.Zero(t, idle.TotalOrders)
	assert.True(t, idle.TotalRevenue.IsZero())
	assert.Zero(t, idle.RevenueScore)
	assert.Zero(t, idle.OrdersScore)
	assert.Zero(t, idle.GMVScore)
	assert.Zero(t, idle.PerformanceScore)
}

func TestComputeSellerPerformanceRejectsEmptyPeriod(t *testing.T) {
	scorer, err := NewScorer(domain.DefaultScoreWeights)
	require.NoError(t, err)
	uc := NewDefaultPerformanceUsecase(memory.NewStore(), scorer, nil, nil, nil)

	_, err = uc.ComputeSellerPerformance(context.Background(), domain.Period{Key: "x", From: day.To, To: day.From})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
