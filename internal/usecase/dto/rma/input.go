package rmadto

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateReturnRequestInput struct {
	OrderID             string
	ShopID              string
	Actor               domain.Actor
	ReasonCode          domain.ReturnReasonCode
	ReasonDetail        string
	RequestedResolution domain.ReturnResolution
	ReturnMethod        domain.ReturnMethod
	Items               []ReturnItemInput
	Evidences           []domain.Evidence
	ShippingFee         decimal.Decimal
	RestockingFee       decimal.Decimal
}

type ReturnItemInput struct {
	ProductID string
	Quantity  int
	// UnitPrice по умолчанию равна цене покупки
	UnitPrice *decimal.Decimal
}

type TransitionReturnInput struct {
	RmaCode         string
	TargetStatus    domain.ReturnStatus
	Actor           domain.Actor
	Note            string
	ExpectedVersion *int64
}
