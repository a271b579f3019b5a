package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionConfigModel хранит и глобальные, и магазинные правила.
// У глобальных shop_id пустой, открытое правило (effective_to IS NULL)
// единственно для пары scope/shop_id благодаря частичному уникальному индексу.
type CommissionConfigModel struct {
	ID             string          `gorm:"primaryKey;type:uuid"`
	Scope          string          `gorm:"index:idx_commission_lookup;not null"`
	ShopID         string          `gorm:"index:idx_commission_lookup;not null"`
	FeeType        string          `gorm:"not null"`
	PercentageRate decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	FixedAmount    decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	EffectiveFrom  time.Time       `gorm:"index:idx_commission_lookup;not null"`
	EffectiveTo    *time.Time
	IsCustom       bool
	CreatedBy      string
	CreatedAt      time.Time
}

func (CommissionConfigModel) TableName() string {
	return "commission_configs"
}

type CommissionHistoryModel struct {
	ID            string  `gorm:"primaryKey;type:uuid"`
	Scope         string  `gorm:"index;not null"`
	ShopID        *string `gorm:"index"`
	FeeType       string
	PreviousRate  decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	NewRate       decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Reason        string
	Note          string
	ChangedBy     string
	ClosedConfigs int
	CreatedAt     time.Time
}

func (CommissionHistoryModel) TableName() string {
	return "commission_history"
}
