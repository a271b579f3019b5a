package response

import (
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	commissiondto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/commission"
	"github.com/shopspring/decimal"
)

type CommissionConfig struct {
	ID            string          `json:"id"`
	Scope         string          `json:"scope"`
	ShopID        string          `json:"shop_id,omitempty"`
	FeeType       string          `json:"fee_type"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveFrom time.Time       `json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
	IsCustom      bool            `json:"is_custom"`
	CreatedBy     string          `json:"created_by"`
}

type UpdateGlobalCommissionResponse struct {
	Config        CommissionConfig `json:"config"`
	ClosedConfigs int              `json:"closed_configs"`
}

type CommissionHistoryEntry struct {
	ID            string          `json:"id"`
	Scope         string          `json:"scope"`
	ShopID        *string         `json:"shop_id"`
	FeeType       string          `json:"fee_type"`
	PreviousRate  decimal.Decimal `json:"previous_rate"`
	NewRate       decimal.Decimal `json:"new_rate"`
	Reason        string          `json:"reason"`
	Note          string          `json:"note,omitempty"`
	ChangedBy     string          `json:"changed_by"`
	ClosedConfigs int             `json:"closed_configs"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CommissionHistoryResponse struct {
	Entries    []CommissionHistoryEntry `json:"entries"`
	Pagination commissiondto.Pagination `json:"pagination"`
}

func FromCommissionConfig(c *domain.CommissionConfig) CommissionConfig {
	return CommissionConfig{
		ID:            c.ID,
		Scope:         string(c.Scope),
		ShopID:        c.ShopID,
		FeeType:       string(c.FeeType),
		Rate:          c.Rate(),
		EffectiveFrom: c.EffectiveFrom,
		EffectiveTo:   c.EffectiveTo,
		IsCustom:      c.IsCustom,
		CreatedBy:     c.CreatedBy,
	}
}

func FromCommissionHistory(out *commissiondto.GetHistoryOutput) CommissionHistoryResponse {
	entries := make([]CommissionHistoryEntry, len(out.Entries))
	for i, e := range out.Entries {
		entries[i] = CommissionHistoryEntry{
			ID:            e.ID,
			Scope:         string(e.Scope),
			ShopID:        e.ShopID,
			FeeType:       string(e.FeeType),
			PreviousRate:  e.PreviousRate,
			NewRate:       e.NewRate,
			Reason:        e.Reason,
			Note:          e.Note,
			ChangedBy:     e.ChangedBy,
			ClosedConfigs: e.ClosedConfigs,
			CreatedAt:     e.CreatedAt,
		}
	}
	return CommissionHistoryResponse{Entries: entries, Pagination: out.Pagination}
}
