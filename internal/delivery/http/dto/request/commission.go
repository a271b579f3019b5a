package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type UpdateShopCommissionRequest struct {
	FeeType string          `json:"fee_type" binding:"omitempty,oneof=PERCENTAGE FIXED"`
	Rate    decimal.Decimal `json:"rate" binding:"gte=0"`
	Reason  string          `json:"reason" binding:"required,max=500"`
	Note    string          `json:"note" binding:"max=1000"`
}

type UpdateGlobalCommissionRequest struct {
	FeeType             string          `json:"fee_type" binding:"omitempty,oneof=PERCENTAGE FIXED"`
	Rate                decimal.Decimal `json:"rate" binding:"gte=0"`
	Reason              string          `json:"reason" binding:"required,max=500"`
	Note                string          `json:"note" binding:"max=1000"`
	OverrideShopConfigs bool            `json:"override_shop_configs"`
}

type CommissionHistoryQuery struct {
	ShopID string `form:"shop_id"`
	Global bool   `form:"global"`
	Page   int    `form:"page" binding:"omitempty,gte=1"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1"`
}

type ResolveCommissionQuery struct {
	ShopID string    `form:"shop_id" binding:"required"`
	At     time.Time `form:"at" time_format:"2006-01-02T15:04:05Z07:00"`
}
