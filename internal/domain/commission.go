package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionScope string

const (
	ScopeGlobal CommissionScope = "GLOBAL"
	ScopeShop   CommissionScope = "SHOP"
)

var maxPercentageRate = decimal.NewFromInt(100)

// CommissionConfig is a time-bounded commission rule. EffectiveTo == nil means
// open-ended. At most one config per scope/shop is active at any instant.
type CommissionConfig struct {
	ID             string
	Scope          CommissionScope
	ShopID         string
	FeeType        FeeType
	PercentageRate decimal.Decimal
	FixedAmount    decimal.Decimal
	EffectiveFrom  time.Time
	EffectiveTo    *time.Time
	IsCustom       bool
	CreatedBy      string
	CreatedAt      time.Time
}

// ActiveAt reports effectiveFrom <= at < effectiveTo.
func (c *CommissionConfig) ActiveAt(at time.Time) bool {
	if at.Before(c.EffectiveFrom) {
		return false
	}
	return c.EffectiveTo == nil || at.Before(*c.EffectiveTo)
}

func (c *CommissionConfig) IsOpen() bool {
	return c.EffectiveTo == nil
}

// Rate is the value shown in history: percentage or fixed amount.
func (c *CommissionConfig) Rate() decimal.Decimal {
	if c.FeeType == FeeFixed {
		return c.FixedAmount
	}
	return c.PercentageRate
}

// ValidateRate checks a commission value for the given fee type.
func ValidateRate(feeType FeeType, rate decimal.Decimal) error {
	switch feeType {
	case FeePercentage:
		if rate.IsNegative() || rate.GreaterThan(maxPercentageRate) {
			return ErrOutOfRange
		}
	case FeeFixed:
		if rate.IsNegative() {
			return ErrOutOfRange
		}
	default:
		return Validationf("unknown fee type %q", feeType)
	}
	return nil
}

// CommissionHistoryEntry is append-only.
type CommissionHistoryEntry struct {
	ID            string
	Scope         CommissionScope
	ShopID        *string
	FeeType       FeeType
	PreviousRate  decimal.Decimal
	NewRate       decimal.Decimal
	Reason        string
	Note          string
	ChangedBy     string
	ClosedConfigs int
	CreatedAt     time.Time
}

type CommissionHistoryFilter struct {
	Scope  *CommissionScope
	ShopID *string
	Page   int
	Limit  int
}
