package mappers

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainCommissionConfig(model *models.CommissionConfigModel) *domain.CommissionConfig {
	return &domain.CommissionConfig{
		ID:             model.ID,
		Scope:          domain.CommissionScope(model.Scope),
		ShopID:         model.ShopID,
		FeeType:        domain.FeeType(model.FeeType),
		PercentageRate: model.PercentageRate,
		FixedAmount:    model.FixedAmount,
		EffectiveFrom:  model.EffectiveFrom,
		EffectiveTo:    model.EffectiveTo,
		IsCustom:       model.IsCustom,
		CreatedBy:      model.CreatedBy,
		CreatedAt:      model.CreatedAt,
	}
}

func ToGORMCommissionConfig(cfg *domain.CommissionConfig) *models.CommissionConfigModel {
	return &models.CommissionConfigModel{
		ID:             cfg.ID,
		Scope:          string(cfg.Scope),
		ShopID:         cfg.ShopID,
		FeeType:        string(cfg.FeeType),
		PercentageRate: cfg.PercentageRate,
		FixedAmount:    cfg.FixedAmount,
		EffectiveFrom:  cfg.EffectiveFrom,
		EffectiveTo:    cfg.EffectiveTo,
		IsCustom:       cfg.IsCustom,
		CreatedBy:      cfg.CreatedBy,
		CreatedAt:      cfg.CreatedAt,
	}
}

func ToDomainCommissionHistory(model *models.CommissionHistoryModel) *domain.CommissionHistoryEntry {
	return &domain.CommissionHistoryEntry{
		ID:            model.ID,
		Scope:         domain.CommissionScope(model.Scope),
		ShopID:        model.ShopID,
		FeeType:       domain.FeeType(model.FeeType),
		PreviousRate:  model.PreviousRate,
		NewRate:       model.NewRate,
		Reason:        model.Reason,
		Note:          model.Note,
		ChangedBy:     model.ChangedBy,
		ClosedConfigs: model.ClosedConfigs,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMCommissionHistory(entry *domain.CommissionHistoryEntry) *models.CommissionHistoryModel {
	return &models.CommissionHistoryModel{
		ID:            entry.ID,
		Scope:         string(entry.Scope),
		ShopID:        entry.ShopID,
		FeeType:       string(entry.FeeType),
		PreviousRate:  entry.PreviousRate,
		NewRate:       entry.NewRate,
		Reason:        entry.Reason,
		Note:          entry.Note,
		ChangedBy:     entry.ChangedBy,
		ClosedConfigs: entry.ClosedConfigs,
		CreatedAt:     entry.CreatedAt,
	}
}
