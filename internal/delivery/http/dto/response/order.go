package response

import (
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type PlaceOrderResponse struct {
	OrderID string `json:"order_id"`
}

type Order struct {
	ID                 string          `json:"id"`
	BuyerID            string          `json:"buyer_id"`
	Items              []OrderItem     `json:"items"`
	ShippingAddress    Address         `json:"shipping_address"`
	Payment            Payment         `json:"payment"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	ShippingFee        decimal.Decimal `json:"shipping_fee"`
	Discount           decimal.Decimal `json:"discount"`
	FinalAmount        decimal.Decimal `json:"final_amount"`
	Status             string          `json:"status"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	CancelledBy        string          `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	Version            int64           `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	StatusHistory      []StatusChange  `json:"status_history,omitempty"`
}

type OrderItem struct {
	ProductID       string          `json:"product_id"`
	ShopID          string          `json:"shop_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

type Address struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	Ward          string `json:"ward,omitempty"`
	District      string `json:"district,omitempty"`
	City          string `json:"city"`
	Country       string `json:"country,omitempty"`
}

type Payment struct {
	Method        string     `json:"method,omitempty"`
	Status        string     `json:"status,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

type StatusChange struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

func FromOrder(o *domain.Order) Order {
	items := make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItem{
			ProductID:       item.ProductID,
			ShopID:          item.ShopID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		}
	}
	history := make([]StatusChange, 0, len(o.StatusHistory))
	for _, ch := range o.StatusHistory {
		history = append(history, StatusChange{
			From:      string(ch.From),
			To:        string(ch.To),
			ActorID:   ch.ActorID,
			ActorRole: string(ch.ActorRole),
			Reason:    ch.Reason,
			At:        ch.At,
		})
	}
	return Order{
		ID:      o.ID,
		BuyerID: o.BuyerID,
		Items:   items,
		ShippingAddress: Address{
			RecipientName: o.ShippingAddress.RecipientName,
			Phone:         o.ShippingAddress.Phone,
			Street:        o.ShippingAddress.Street,
			Ward:          o.ShippingAddress.Ward,
			District:      o.ShippingAddress.District,
			City:          o.ShippingAddress.City,
			Country:       o.ShippingAddress.Country,
		},
		Payment: Payment{
			Method:        o.Payment.Method,
			Status:        o.Payment.Status,
			TransactionID: o.Payment.TransactionID,
			PaidAt:        o.Payment.PaidAt,
		},
		Subtotal:           o.Subtotal,
		ShippingFee:        o.ShippingFee,
		Discount:           o.Discount,
		FinalAmount:        o.FinalAmount,
		Status:             string(o.Status),
		CancellationReason: o.CancellationReason,
		CancelledBy:        string(o.CancelledBy),
		CancelledAt:        o.CancelledAt,
		Version:            o.Version,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		StatusHistory:      history,
	}
}
