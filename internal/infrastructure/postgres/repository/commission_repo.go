package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCommissionRepository struct {
	DB *gorm.DB
}

func NewDefaultCommissionRepository(db *gorm.DB) *DefaultCommissionRepository {
	return &DefaultCommissionRepository{DB: db}
}

// active выбирает правило с effective_from <= at < effective_to; при пересечении побеждает более позднее.
func (r *DefaultCommissionRepository) active(ctx context.Context, scope domain.CommissionScope, shopID string, at time.Time) (*domain.CommissionConfig, error) {
	var model models.CommissionConfigModel
	err := r.DB.WithContext(ctx).
		Where("scope = ? AND shop_id = ?", string(scope), shopID).
		Where("effective_from <= ?", at).
		Where("(effective_to IS NULL OR effective_to > ?)", at).
		Order("effective_from DESC").
		First(&model).Error
	if err != nil {
		return nil, translateError(err, "active %s commission config %q", scope, shopID)
	}
	return mappers.ToDomainCommissionConfig(&model), nil
}

func (r *DefaultCommissionRepository) open(ctx context.Context, scope domain.CommissionScope, shopID string) (*domain.CommissionConfig, error) {
	var model models.CommissionConfigModel
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("scope = ? AND shop_id = ? AND effective_to IS NULL", string(scope), shopID).
		First(&model).Error
	if err != nil {
		return nil, translateError(err, "open %s commission config %q", scope, shopID)
	}
	return mappers.ToDomainCommissionConfig(&model), nil
}

func (r *DefaultCommissionRepository) GetActiveShopConfig(ctx context.Context, shopID string, at time.Time) (*domain.CommissionConfig, error) {
	return r.active(ctx, domain.ScopeShop, shopID, at)
}

func (r *DefaultCommissionRepository) GetActiveGlobalConfig(ctx context.Context, at time.Time) (*domain.CommissionConfig, error) {
	return r.active(ctx, domain.ScopeGlobal, "", at)
}

func (r *DefaultCommissionRepository) GetOpenShopConfigForUpdate(ctx context.Context, shopID string) (*domain.CommissionConfig, error) {
	return r.open(ctx, domain.ScopeShop, shopID)
}

func (r *DefaultCommissionRepository) GetOpenGlobalConfigForUpdate(ctx context.Context) (*domain.CommissionConfig, error) {
	return r.open(ctx, domain.ScopeGlobal, "")
}

func (r *DefaultCommissionRepository) ListOpenShopConfigsForUpdate(ctx context.Context) ([]*domain.CommissionConfig, error) {
	var configModels []models.CommissionConfigModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("scope = ? AND effective_to IS NULL", string(domain.ScopeShop)).
		Order("shop_id ASC").
		Find(&configModels).Error; err != nil {
		return nil, fmt.Errorf("open shop commission configs: %w", err)
	}
	configs := make([]*domain.CommissionConfig, len(configModels))
	for i := range configModels {
		configs[i] = mappers.ToDomainCommissionConfig(&configModels[i])
	}
	return configs, nil
}

func (r *DefaultCommissionRepository) CloseConfig(ctx context.Context, configID string, at time.Time) error {
	db := r.DB.WithContext(ctx)
	result := db.Model(&models.CommissionConfigModel{}).
		Where("id = ? AND effective_to IS NULL", configID).
		Update("effective_to", at)
	if result.Error != nil {
		return translateError(result.Error, "close commission config %s", configID)
	}
	if result.RowsAffected == 0 {
		found, err := exists(db, &models.CommissionConfigModel{}, "id = ?", configID)
		if err != nil {
			return fmt.Errorf("check commission config %s: %w", configID, err)
		}
		if !found {
			return fmt.Errorf("commission config %s: %w", configID, domain.ErrNotFound)
		}
		return fmt.Errorf("commission config %s already closed: %w", configID, domain.ErrConcurrentModification)
	}
	return nil
}

// CreateConfig полагается на частичный уникальный индекс ux_commission_open:
// второе открытое правило для той же пары scope/shop_id дает ErrConcurrentModification.
func (r *DefaultCommissionRepository) CreateConfig(ctx context.Context, config *domain.CommissionConfig) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMCommissionConfig(config)).Error; err != nil {
		return translateError(err, "create %s commission config %q", config.Scope, config.ShopID)
	}
	return nil
}

func (r *DefaultCommissionRepository) AppendHistory(ctx context.Context, entry *domain.CommissionHistoryEntry) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMCommissionHistory(entry)).Error; err != nil {
		return translateError(err, "append commission history")
	}
	return nil
}

func (r *DefaultCommissionRepository) ListHistory(ctx context.Context, filter domain.CommissionHistoryFilter) ([]*domain.CommissionHistoryEntry, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.CommissionHistoryModel{})
	if filter.Scope != nil {
		query = query.Where("scope = ?", string(*filter.Scope))
	}
	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count commission history: %w", err)
	}

	query = query.Order("created_at DESC").Order("seq DESC")
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var historyModels []models.CommissionHistoryModel
	if err := query.Find(&historyModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find commission history: %w", err)
	}
	entries := make([]*domain.CommissionHistoryEntry, len(historyModels))
	for i := range historyModels {
		entries[i] = mappers.ToDomainCommissionHistory(&historyModels[i])
	}
	return entries, total, nil
}
