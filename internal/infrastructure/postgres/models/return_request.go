package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReturnItemJSON struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type EvidenceJSON struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type ReturnRequestModel struct {
	RmaCode             string `gorm:"primaryKey"`
	OrderID             string `gorm:"type:uuid;index:idx_returns_order_shop;not null"`
	BuyerID             string `gorm:"not null"`
	ShopID              string `gorm:"index:idx_returns_order_shop;not null"`
	ReasonCode          string `gorm:"not null"`
	ReasonDetail        string
	RequestedResolution string           `gorm:"not null"`
	ReturnMethod        string           `gorm:"not null"`
	Items               []ReturnItemJSON `gorm:"type:jsonb;serializer:json;not null"`
	Evidences           []EvidenceJSON   `gorm:"type:jsonb;serializer:json"`
	Subtotal            decimal.Decimal  `gorm:"type:numeric(20,4);not null"`
	ShippingFee         decimal.Decimal  `gorm:"type:numeric(20,4);not null"`
	RestockingFee       decimal.Decimal  `gorm:"type:numeric(20,4);not null"`
	RefundTotal         decimal.Decimal  `gorm:"type:numeric(20,4);not null"`
	Status              string           `gorm:"index;not null"`
	Version             int64            `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	StatusEvents        []ReturnStatusEventModel `gorm:"foreignKey:RmaCode;references:RmaCode;constraint:OnDelete:CASCADE;"`
}

func (ReturnRequestModel) TableName() string {
	return "return_requests"
}

type ReturnStatusEventModel struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	RmaCode   string    `gorm:"index;not null"`
	Status    string    `gorm:"not null"`
	At        time.Time `gorm:"not null"`
	ActorID   string
	ActorType string
	Note      string
}

func (ReturnStatusEventModel) TableName() string {
	return "return_status_events"
}
