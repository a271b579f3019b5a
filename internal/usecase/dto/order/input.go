package orderdto

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type PlaceOrderInput struct {
	BuyerID         string
	Items           []PlaceOrderItem
	ShippingAddress domain.Address
	Payment         domain.PaymentInfo
	Subtotal        decimal.Decimal
	ShippingFee     decimal.Decimal
	Discount        decimal.Decimal
	FinalAmount     decimal.Decimal
}

type PlaceOrderItem struct {
	ProductID       string
	ShopID          string
	ProductName     string
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

type TransitionOrderInput struct {
	OrderID      string
	TargetStatus domain.OrderStatus
	Actor        domain.Actor
	Reason       string
	// ExpectedVersion, если задан, должен совпасть с текущей версией заказа
	ExpectedVersion *int64
}
