package models

import (
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type AddressJSON struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	Ward          string `json:"ward,omitempty"`
	District      string `json:"district,omitempty"`
	City          string `json:"city"`
	Country       string `json:"country"`
}

type OrderModel struct {
	ID                   string           `gorm:"primaryKey;type:uuid"`
	BuyerID              string           `gorm:"index:idx_orders_buyer;not null"`
	Items                []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ShippingAddress      AddressJSON      `gorm:"type:jsonb;serializer:json"`
	PaymentMethod        string
	PaymentStatus        string
	PaymentTransactionID string
	PaidAt               *time.Time
	Subtotal             decimal.Decimal    `gorm:"type:numeric(20,4);not null"`
	ShippingFee          decimal.Decimal    `gorm:"type:numeric(20,4);not null"`
	Discount             decimal.Decimal    `gorm:"type:numeric(20,4);not null"`
	FinalAmount          decimal.Decimal    `gorm:"type:numeric(20,4);not null"`
	Status               domain.OrderStatus `gorm:"index:idx_orders_status;not null"`
	CancellationReason   string
	CancelledBy          string
	CancelledAt          *time.Time
	Version              int64     `gorm:"not null"`
	CreatedAt            time.Time `gorm:"index:idx_orders_created_at"`
	UpdatedAt            time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

type OrderItemModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	OrderID         string `gorm:"type:uuid;index;not null"`
	Position        int    `gorm:"not null"`
	ProductID       string `gorm:"not null"`
	ShopID          string `gorm:"index:idx_order_items_shop;not null"`
	ProductName     string
	Quantity        int             `gorm:"not null"`
	PriceAtPurchase decimal.Decimal `gorm:"type:numeric(20,4);not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderStatusChangeModel - журнал переходов заказа, только вставка.
// Порядок внутри заказа задает колонка seq (bigserial), которой нет в модели.
type OrderStatusChangeModel struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	OrderID    string `gorm:"type:uuid;index;not null"`
	FromStatus string
	ToStatus   string `gorm:"not null"`
	ActorID    string
	ActorRole  string
	Reason     string
	At         time.Time `gorm:"not null"`
}

func (OrderStatusChangeModel) TableName() string {
	return "order_status_changes"
}
