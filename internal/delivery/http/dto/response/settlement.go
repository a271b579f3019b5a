package response

import (
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type Settlement struct {
	ID                    string          `json:"id"`
	OrderID               string          `json:"order_id"`
	ShopID                string          `json:"shop_id"`
	ShopSubtotal          decimal.Decimal `json:"shop_subtotal"`
	ShopShippingFee       decimal.Decimal `json:"shop_shipping_fee"`
	CommissionRateApplied decimal.Decimal `json:"commission_rate_applied"`
	CommissionFeeType     string          `json:"commission_fee_type"`
	PlatformFee           decimal.Decimal `json:"platform_fee"`
	RefundedAmount        decimal.Decimal `json:"refunded_amount"`
	NetAmount             decimal.Decimal `json:"net_amount"`
	Status                string          `json:"status"`
	IsPaid                bool            `json:"is_paid"`
	PaidAt                *time.Time      `json:"paid_at,omitempty"`
	TransactionID         string          `json:"transaction_id,omitempty"`
	FinalizedAt           *time.Time      `json:"finalized_at,omitempty"`
	VoidedAt              *time.Time      `json:"voided_at,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

type Adjustment struct {
	ID           string          `json:"id"`
	SettlementID string          `json:"settlement_id"`
	RmaCode      string          `json:"rma_code"`
	Amount       decimal.Decimal `json:"amount"`
	Reason       string          `json:"reason"`
	CreatedAt    time.Time       `json:"created_at"`
}

func FromSettlement(s *domain.ShopSettlement) Settlement {
	return Settlement{
		ID:                    s.ID,
		OrderID:               s.OrderID,
		ShopID:                s.ShopID,
		ShopSubtotal:          s.ShopSubtotal,
		ShopShippingFee:       s.ShopShippingFee,
		CommissionRateApplied: s.CommissionRateApplied,
		CommissionFeeType:     string(s.CommissionFeeType),
		PlatformFee:           s.PlatformFee,
		RefundedAmount:        s.RefundedAmount,
		NetAmount:             s.NetAmount,
		Status:                string(s.Status),
		IsPaid:                s.IsPaid,
		PaidAt:                s.PaidAt,
		TransactionID:         s.TransactionID,
		FinalizedAt:           s.FinalizedAt,
		VoidedAt:              s.VoidedAt,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func FromSettlements(list []*domain.ShopSettlement) []Settlement {
	out := make([]Settlement, len(list))
	for i, s := range list {
		out[i] = FromSettlement(s)
	}
	return out
}

func FromAdjustments(list []*domain.SettlementAdjustment) []Adjustment {
	out := make([]Adjustment, len(list))
	for i, a := range list {
		out[i] = Adjustment{
			ID:           a.ID,
			SettlementID: a.SettlementID,
			RmaCode:      a.RmaCode,
			Amount:       a.Amount,
			Reason:       a.Reason,
			CreatedAt:    a.CreatedAt,
		}
	}
	return out
}
