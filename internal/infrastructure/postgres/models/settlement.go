package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShopSettlementModel struct {
	ID                    string          `gorm:"primaryKey;type:uuid"`
	OrderID               string          `gorm:"type:uuid;uniqueIndex:ux_settlement_order_shop;not null"`
	ShopID                string          `gorm:"uniqueIndex:ux_settlement_order_shop;index:idx_settlement_shop;not null"`
	ShopSubtotal          decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	ShopShippingFee       decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	CommissionRateApplied decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	CommissionFeeType     string          `gorm:"not null"`
	CommissionConfigID    string          `gorm:"type:uuid"`
	PlatformFee           decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	RefundedAmount        decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	NetAmount             decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Status                string          `gorm:"index:idx_settlement_status_finalized;not null"`
	IsPaid                bool            `gorm:"not null"`
	PaidAt                *time.Time
	TransactionID         string
	ResolvedAt            time.Time
	FinalizedAt           *time.Time `gorm:"index:idx_settlement_status_finalized"`
	VoidedAt              *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (ShopSettlementModel) TableName() string {
	return "shop_settlements"
}

type SettlementAdjustmentModel struct {
	ID           string          `gorm:"primaryKey;type:uuid"`
	SettlementID string          `gorm:"type:uuid;index;not null"`
	OrderID      string          `gorm:"type:uuid;not null"`
	ShopID       string          `gorm:"uniqueIndex:ux_adjustment_rma_shop;not null"`
	RmaCode      string          `gorm:"uniqueIndex:ux_adjustment_rma_shop;not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Reason       string
	CreatedAt    time.Time
}

func (SettlementAdjustmentModel) TableName() string {
	return "settlement_adjustments"
}

// ShopMetricsRow - строка агрегата для рейтинга продавцов.
type ShopMetricsRow struct {
	ShopID       string
	TotalRevenue decimal.Decimal
	TotalOrders  int64
	GMV          decimal.Decimal `gorm:"column:gmv"`
}
