package request

import "github.com/shopspring/decimal"

type PlaceOrderRequest struct {
	// BuyerID берется из токена, если заказ оформляет сам покупатель
	BuyerID         string          `json:"buyer_id"`
	Items           []OrderItem     `json:"items" binding:"required,min=1,dive"`
	ShippingAddress Address         `json:"shipping_address"`
	Payment         Payment         `json:"payment"`
	Subtotal        decimal.Decimal `json:"subtotal" binding:"gte=0"`
	ShippingFee     decimal.Decimal `json:"shipping_fee" binding:"gte=0"`
	Discount        decimal.Decimal `json:"discount" binding:"gte=0"`
	FinalAmount     decimal.Decimal `json:"final_amount" binding:"gte=0"`
}

type OrderItem struct {
	ProductID       string          `json:"product_id" binding:"required"`
	ShopID          string          `json:"shop_id" binding:"required"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity" binding:"required,gt=0"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" binding:"gte=0"`
}

type Address struct {
	RecipientName string `json:"recipient_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Street        string `json:"street" binding:"required"`
	Ward          string `json:"ward"`
	District      string `json:"district"`
	City          string `json:"city" binding:"required"`
	Country       string `json:"country"`
}

type Payment struct {
	Method        string `json:"method"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

type TransitionOrderRequest struct {
	Status          string `json:"status" binding:"required"`
	Reason          string `json:"reason" binding:"max=500"`
	ExpectedVersion *int64 `json:"expected_version" binding:"omitempty,gte=0"`
}
