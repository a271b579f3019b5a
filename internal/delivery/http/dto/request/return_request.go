package request

import "github.com/shopspring/decimal"

type CreateReturnRequest struct {
	ShopID              string          `json:"shop_id" binding:"required"`
	ReasonCode          string          `json:"reason_code" binding:"required"`
	ReasonDetail        string          `json:"reason_detail" binding:"max=2000"`
	RequestedResolution string          `json:"requested_resolution" binding:"required"`
	ReturnMethod        string          `json:"return_method" binding:"required"`
	Items               []ReturnItem    `json:"items" binding:"required,min=1,dive"`
	Evidences           []Evidence      `json:"evidences" binding:"dive"`
	ShippingFee         decimal.Decimal `json:"shipping_fee" binding:"gte=0"`
	RestockingFee       decimal.Decimal `json:"restocking_fee" binding:"gte=0"`
}

type ReturnItem struct {
	ProductID string           `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price" binding:"omitempty,gte=0"`
}

type Evidence struct {
	URL  string `json:"url" binding:"required,url"`
	Type string `json:"type" binding:"required,oneof=IMAGE VIDEO"`
}

type TransitionReturnRequest struct {
	Status          string `json:"status" binding:"required"`
	Note            string `json:"note" binding:"max=1000"`
	ExpectedVersion *int64 `json:"expected_version" binding:"omitempty,gte=0"`
}
