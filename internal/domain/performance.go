package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a half-open ranking window [From, To).
type Period struct {
	Key  string
	From time.Time
	To   time.Time
}

func (p Period) Validate() error {
	if p.Key == "" {
		return Validationf("period key is required")
	}
	if !p.From.Before(p.To) {
		return Validationf("period %s: from must be before to", p.Key)
	}
	return nil
}

type SellerPerformanceSnapshot struct {
	ID               string
	ShopID           string
	Period           string
	PeriodFrom       time.Time
	PeriodTo         time.Time
	TotalRevenue     decimal.Decimal
	TotalOrders      int64
	Rating           float64
	RatingCount      int64
	GMV              decimal.Decimal
	RevenueScore     float64
	OrdersScore      float64
	RatingScore      float64
	GMVScore         float64
	PerformanceScore float64
	Rank             int
	ComputedAt       time.Time
}

// ScoreWeights are percentages and must add up to 100.
type ScoreWeights struct {
	Revenue float64
	Orders  float64
	Rating  float64
	GMV     float64
}

var DefaultScoreWeights = ScoreWeights{Revenue: 40, Orders: 30, Rating: 20, GMV: 10}

func (w ScoreWeights) Validate() error {
	for _, v := range []float64{w.Revenue, w.Orders, w.Rating, w.GMV} {
		if v < 0 {
			return Validationf("score weights must not be negative")
		}
	}
	if sum := w.Revenue + w.Orders + w.Rating + w.GMV; sum < 99.999 || sum > 100.001 {
		return Validationf("score weights must add up to 100, got %.2f", sum)
	}
	return nil
}

type ShopRating struct {
	Rating      float64
	RatingCount int64
}

// RatingSource provides shop review aggregates owned by the external catalog.
type RatingSource interface {
	GetShopRatings(ctx context.Context, shopIDs []string) (map[string]ShopRating, error)
}
