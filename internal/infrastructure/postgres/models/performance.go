package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SellerPerformanceModel struct {
	ID               string          `gorm:"primaryKey;type:uuid"`
	ShopID           string          `gorm:"index:idx_performance_shop_computed;not null"`
	Period           string          `gorm:"index;not null"`
	PeriodFrom       time.Time       `gorm:"not null"`
	PeriodTo         time.Time       `gorm:"not null"`
	TotalRevenue     decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	TotalOrders      int64
	Rating           float64
	RatingCount      int64
	GMV              decimal.Decimal `gorm:"column:gmv;type:numeric(20,4);not null"`
	RevenueScore     float64
	OrdersScore      float64
	RatingScore      float64
	GMVScore         float64 `gorm:"column:gmv_score"`
	PerformanceScore float64
	Rank             int
	ComputedAt       time.Time `gorm:"index:idx_performance_shop_computed"`
}

func (SellerPerformanceModel) TableName() string {
	return "seller_performance_snapshots"
}

// ShopRatingModel - агрегаты отзывов, которые синхронизирует каталог.
type ShopRatingModel struct {
	ShopID      string `gorm:"primaryKey"`
	Rating      float64
	RatingCount int64
	UpdatedAt   time.Time
}

func (ShopRatingModel) TableName() string {
	return "shop_ratings"
}
