package response

import (
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type PerformanceSnapshot struct {
	ShopID           string          `json:"shop_id"`
	Period           string          `json:"period"`
	PeriodFrom       time.Time       `json:"period_from"`
	PeriodTo         time.Time       `json:"period_to"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalOrders      int64           `json:"total_orders"`
	Rating           float64         `json:"rating"`
	RatingCount      int64           `json:"rating_count"`
	GMV              decimal.Decimal `json:"gmv"`
	RevenueScore     float64         `json:"revenue_score"`
	OrdersScore      float64         `json:"orders_score"`
	RatingScore      float64         `json:"rating_score"`
	GMVScore         float64         `json:"gmv_score"`
	PerformanceScore float64         `json:"performance_score"`
	Rank             int             `json:"rank"`
	ComputedAt       time.Time       `json:"computed_at"`
}

func FromSnapshots(list []*domain.SellerPerformanceSnapshot) []PerformanceSnapshot {
	out := make([]PerformanceSnapshot, len(list))
	for i, s := range list {
		out[i] = PerformanceSnapshot{
			ShopID:           s.ShopID,
			Period:           s.Period,
			PeriodFrom:       s.PeriodFrom,
			PeriodTo:         s.PeriodTo,
			TotalRevenue:     s.TotalRevenue,
			TotalOrders:      s.TotalOrders,
			Rating:           s.Rating,
			RatingCount:      s.RatingCount,
			GMV:              s.GMV,
			RevenueScore:     s.RevenueScore,
			OrdersScore:      s.OrdersScore,
			RatingScore:      s.RatingScore,
			GMVScore:         s.GMVScore,
			PerformanceScore: s.PerformanceScore,
			Rank:             s.Rank,
			ComputedAt:       s.ComputedAt,
		}
	}
	return out
}
