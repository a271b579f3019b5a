package commissiondto

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type UpdateShopCommissionInput struct {
	ShopID  string
	FeeType domain.FeeType // PERCENTAGE если пусто
	Rate    decimal.Decimal
	Reason  string
	Note    string
	Actor   domain.Actor
}

type UpdateGlobalCommissionInput struct {
	FeeType             domain.FeeType
	Rate                decimal.Decimal
	Reason              string
	Note                string
	Actor               domain.Actor
	OverrideShopConfigs bool
}

// GetHistoryInput selects shop history by ShopID, global history by Global,
// or everything when neither is set.
type GetHistoryInput struct {
	ShopID string
	Global bool
	Page   int
	Limit  int
}
