package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicOrderEvents      = "order-events"
	TopicSettlementEvents = "settlement-events"
	TopicCommissionEvents = "commission-events"
	TopicReturnEvents     = "return-events"
)

type Event interface {
	Topic() string
	Key() string
}

type PublisherPort interface {
	Publish(ctx context.Context, events ...Event) error
}

type OrderStatusChangedEvent struct {
	OrderID   string      `json:"order_id"`
	BuyerID   string      `json:"buyer_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ActorID   string      `json:"actor_id"`
	ActorRole ActorRole   `json:"actor_role"`
	Reason    string      `json:"reason,omitempty"`
	At        time.Time   `json:"at"`
}

func (e OrderStatusChangedEvent) Topic() string { return TopicOrderEvents }
func (e OrderStatusChangedEvent) Key() string   { return e.OrderID }

type SettlementEvent struct {
	Type        string           `json:"type"` // materialized, finalized, voided, paid, refunded
	OrderID     string           `json:"order_id"`
	ShopID      string           `json:"shop_id"`
	Status      SettlementStatus `json:"status"`
	FeeType     FeeType          `json:"fee_type"`
	NetAmount   decimal.Decimal  `json:"net_amount"`
	PlatformFee decimal.Decimal  `json:"platform_fee"`
	At          time.Time        `json:"at"`
}

func (e SettlementEvent) Topic() string { return TopicSettlementEvents }
func (e SettlementEvent) Key() string   { return e.ShopID }

type CommissionChangedEvent struct {
	Scope         CommissionScope `json:"scope"`
	ShopID        string          `json:"shop_id,omitempty"`
	FeeType       FeeType         `json:"fee_type"`
	PreviousRate  decimal.Decimal `json:"previous_rate"`
	NewRate       decimal.Decimal `json:"new_rate"`
	ClosedConfigs int             `json:"closed_configs,omitempty"`
	ChangedBy     string          `json:"changed_by"`
	At            time.Time       `json:"at"`
}

func (e CommissionChangedEvent) Topic() string { return TopicCommissionEvents }
func (e CommissionChangedEvent) Key() string {
	if e.ShopID == "" {
		return string(ScopeGlobal)
	}
	return e.ShopID
}

type ReturnStatusChangedEvent struct {
	RmaCode     string          `json:"rma_code"`
	OrderID     string          `json:"order_id"`
	ShopID      string          `json:"shop_id"`
	From        ReturnStatus    `json:"from,omitempty"`
	To          ReturnStatus    `json:"to"`
	RefundTotal decimal.Decimal `json:"refund_total"`
	ActorID     string          `json:"actor_id"`
	At          time.Time       `json:"at"`
}

func (e ReturnStatusChangedEvent) Topic() string { return TopicReturnEvents }
func (e ReturnStatusChangedEvent) Key() string   { return e.OrderID }
