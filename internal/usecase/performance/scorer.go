package performance

import (
	"math"
	"sort"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scorer turns per-shop metrics of one period into ranked snapshots. Every
// dimension is normalized against the best shop of the period.
type Scorer struct {
	weights domain.ScoreWeights
}

func NewScorer(weights domain.ScoreWeights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func decimalScore(value, best decimal.Decimal) float64 {
	if !best.IsPositive() || !value.IsPositive() {
		return 0
	}
	return value.Mul(decimal.NewFromInt(100)).Div(best).Round(2).InexactFloat64()
}

func floatScore(value, best float64) float64 {
	if best <= 0 || value <= 0 {
		return 0
	}
	return round2(value / best * 100)
}

// Score is pure; computedAt is stamped on every snapshot.
func (s *Scorer) Score(period domain.Period, metrics []*domain.ShopMetrics, computedAt time.Time) []*domain.SellerPerformanceSnapshot {
	var (
		bestRevenue = decimal.Zero
		bestGMV     = decimal.Zero
		bestOrders  int64
		bestRating  float64
	)
	for _, m := range metrics {
		bestRevenue = decimal.Max(bestRevenue, m.TotalRevenue)
		bestGMV = decimal.Max(bestGMV, m.GMV)
		if m.TotalOrders > bestOrders {
			bestOrders = m.TotalOrders
		}
		if m.Rating > bestRating {
			bestRating = m.Rating
		}
	}

	snapshots := make([]*domain.SellerPerformanceSnapshot, 0, len(metrics))
	for _, m := range metrics {
		snap := &domain.SellerPerformanceSnapshot{
			ID:           uuid.NewString(),
			ShopID:       m.ShopID,
			Period:       period.Key,
			PeriodFrom:   period.From,
			PeriodTo:     period.To,
			TotalRevenue: m.TotalRevenue,
			TotalOrders:  m.TotalOrders,
			Rating:       m.Rating,
			RatingCount:  m.RatingCount,
			GMV:          m.GMV,
			RevenueScore: decimalScore(m.TotalRevenue, bestRevenue),
			OrdersScore:  floatScore(float64(m.TotalOrders), float64(bestOrders)),
			RatingScore:  floatScore(m.Rating, bestRating),
			GMVScore:     decimalScore(m.GMV, bestGMV),
			ComputedAt:   computedAt,
		}
		snap.PerformanceScore = round2((s.weights.Revenue*snap.RevenueScore +
			s.weights.Orders*snap.OrdersScore +
			s.weights.Rating*snap.RatingScore +
			s.weights.GMV*snap.GMVScore) / 100)
		snapshots = append(snapshots, snap)
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		a, b := snapshots[i], snapshots[j]
		if a.PerformanceScore != b.PerformanceScore {
			return a.PerformanceScore > b.PerformanceScore
		}
		if c := a.TotalRevenue.Cmp(b.TotalRevenue); c != 0 {
			return c > 0
		}
		return a.ShopID < b.ShopID
	})
	for i, snap := range snapshots {
		snap.Rank = i + 1
	}
	return snapshots
}

// DailyPeriod is the UTC calendar day containing at.
func DailyPeriod(at time.Time) domain.Period {
	day := at.UTC().Truncate(24 * time.Hour)
	return domain.Period{
		Key:  day.Format(time.DateOnly),
		From: day,
		To:   day.Add(24 * time.Hour),
	}
}
