package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FeeType string

const (
	FeePercentage FeeType = "PERCENTAGE"
	FeeFixed      FeeType = "FIXED"
)

func (f FeeType) Valid() bool {
	return f == FeePercentage || f == FeeFixed
}

type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "PENDING"
	SettlementFinalized SettlementStatus = "FINALIZED"
	SettlementVoided    SettlementStatus = "VOIDED"
	SettlementPaid      SettlementStatus = "PAID"
)

// ShopSettlement is the per-shop sub-ledger row of an order (a.k.a. SellerPayment).
// Invariant: NetAmount == ShopSubtotal + ShopShippingFee - PlatformFee - RefundedAmount
// while RefundedAmount fits into the payable amount.
type ShopSettlement struct {
	ID                    string
	OrderID               string
	ShopID                string
	ShopSubtotal          decimal.Decimal
	ShopShippingFee       decimal.Decimal
	CommissionRateApplied decimal.Decimal
	CommissionFeeType     FeeType
	CommissionConfigID    string
	PlatformFee           decimal.Decimal
	RefundedAmount        decimal.Decimal
	NetAmount             decimal.Decimal
	Status                SettlementStatus
	IsPaid                bool
	PaidAt                *time.Time
	TransactionID         string
	ResolvedAt            time.Time
	FinalizedAt           *time.Time
	VoidedAt              *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// GrossPayable is what the shop is owed before refunds.
func (s *ShopSettlement) GrossPayable() decimal.Decimal {
	return s.ShopSubtotal.Add(s.ShopShippingFee).Sub(s.PlatformFee)
}

func (s *ShopSettlement) Payable() bool {
	return s.Status == SettlementFinalized && !s.IsPaid
}

// SettlementAdjustment records a refund against a settlement that could not be
// absorbed by mutating it (already paid, or refund larger than the net amount).
// Amount is always negative.
type SettlementAdjustment struct {
	ID           string
	SettlementID string
	OrderID      string
	ShopID       string
	RmaCode      string
	Amount       decimal.Decimal
	Reason       string
	CreatedAt    time.Time
}

// ShopMetrics is the per-shop aggregate over settled orders of a period.
type ShopMetrics struct {
	ShopID       string
	TotalRevenue decimal.Decimal
	TotalOrders  int64
	GMV          decimal.Decimal
	Rating       float64
	RatingCount  int64
}
