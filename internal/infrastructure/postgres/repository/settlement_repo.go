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

type DefaultSettlementRepository struct {
	DB *gorm.DB
}

func NewDefaultSettlementRepository(db *gorm.DB) *DefaultSettlementRepository {
	return &DefaultSettlementRepository{DB: db}
}

func (r *DefaultSettlementRepository) CreateSettlementIfAbsent(ctx context.Context, settlement *domain.ShopSettlement) (bool, error) {
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "shop_id"}},
			DoNothing: true,
		}).
		Create(mappers.ToGORMSettlement(settlement))
	if result.Error != nil {
		return false, translateError(result.Error, "create settlement %s/%s", settlement.OrderID, settlement.ShopID)
	}
	return result.RowsAffected == 1, nil
}

func (r *DefaultSettlementRepository) GetSettlement(ctx context.Context, orderID, shopID string) (*domain.ShopSettlement, error) {
	return r.get(r.DB.WithContext(ctx), orderID, shopID)
}

func (r *DefaultSettlementRepository) GetSettlementForUpdate(ctx context.Context, orderID, shopID string) (*domain.ShopSettlement, error) {
	return r.get(r.DB.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), orderID, shopID)
}

func (r *DefaultSettlementRepository) get(db *gorm.DB, orderID, shopID string) (*domain.ShopSettlement, error) {
	var model models.ShopSettlementModel
	if err := db.Where("order_id = ? AND shop_id = ?", orderID, shopID).First(&model).Error; err != nil {
		return nil, translateError(err, "settlement %s/%s", orderID, shopID)
	}
	return mappers.ToDomainSettlement(&model), nil
}

func (r *DefaultSettlementRepository) ListSettlementsByOrder(ctx context.Context, orderID string) ([]*domain.ShopSettlement, error) {
	var settlementModels []models.ShopSettlementModel
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("shop_id ASC").
		Find(&settlementModels).Error; err != nil {
		return nil, fmt.Errorf("settlements of order %s: %w", orderID, err)
	}
	settlements := make([]*domain.ShopSettlement, len(settlementModels))
	for i := range settlementModels {
		settlements[i] = mappers.ToDomainSettlement(&settlementModels[i])
	}
	return settlements, nil
}

// UpdateSettlement переписывает изменяемые поля. Выплаченная строка неизменна,
// поэтому условие is_paid = false входит в WHERE.
func (r *DefaultSettlementRepository) UpdateSettlement(ctx context.Context, settlement *domain.ShopSettlement) error {
	db := r.DB.WithContext(ctx)
	result := db.Model(&models.ShopSettlementModel{}).
		Where("id = ? AND is_paid = ?", settlement.ID, false).
		Updates(map[string]any{
			"refunded_amount": settlement.RefundedAmount,
			"net_amount":      settlement.NetAmount,
			"status":          string(settlement.Status),
			"is_paid":         settlement.IsPaid,
			"paid_at":         settlement.PaidAt,
			"transaction_id":  settlement.TransactionID,
			"finalized_at":    settlement.FinalizedAt,
			"voided_at":       settlement.VoidedAt,
			"updated_at":      settlement.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "update settlement %s", settlement.ID)
	}
	if result.RowsAffected == 0 {
		found, err := exists(db, &models.ShopSettlementModel{}, "id = ?", settlement.ID)
		if err != nil {
			return fmt.Errorf("check settlement %s: %w", settlement.ID, err)
		}
		if !found {
			return fmt.Errorf("settlement %s: %w", settlement.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("settlement %s is paid: %w", settlement.ID, domain.ErrSettlementAlreadyFinalized)
	}
	return nil
}

func (r *DefaultSettlementRepository) CreateAdjustmentIfAbsent(ctx context.Context, adjustment *domain.SettlementAdjustment) (bool, error) {
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "rma_code"}, {Name: "shop_id"}},
			DoNothing: true,
		}).
		Create(mappers.ToGORMAdjustment(adjustment))
	if result.Error != nil {
		return false, translateError(result.Error, "create adjustment %s/%s", adjustment.RmaCode, adjustment.ShopID)
	}
	return result.RowsAffected == 1, nil
}

func (r *DefaultSettlementRepository) ListAdjustments(ctx context.Context, orderID, shopID string) ([]*domain.SettlementAdjustment, error) {
	var adjustmentModels []models.SettlementAdjustmentModel
	if err := r.DB.WithContext(ctx).
		Where("order_id = ? AND shop_id = ?", orderID, shopID).
		Order("created_at ASC").
		Find(&adjustmentModels).Error; err != nil {
		return nil, fmt.Errorf("adjustments of %s/%s: %w", orderID, shopID, err)
	}
	adjustments := make([]*domain.SettlementAdjustment, len(adjustmentModels))
	for i := range adjustmentModels {
		adjustments[i] = mappers.ToDomainAdjustment(&adjustmentModels[i])
	}
	return adjustments, nil
}

const aggregateShopMetricsQuery = `
SELECT shop_id,
       COALESCE(SUM(net_amount), 0) AS total_revenue,
       COUNT(*) AS total_orders,
       COALESCE(SUM(shop_subtotal), 0) AS gmv
FROM shop_settlements
WHERE status IN (?, ?) AND finalized_at >= ? AND finalized_at < ?
GROUP BY shop_id
ORDER BY shop_id`

func (r *DefaultSettlementRepository) ListShopIDs(ctx context.Context, before time.Time) ([]string, error) {
	var ids []string
	if err := r.DB.WithContext(ctx).
		Raw(`SELECT DISTINCT shop_id FROM shop_settlements WHERE created_at < ? ORDER BY shop_id`, before).
		Scan(&ids).Error; err != nil {
		return nil, fmt.Errorf("list settled shops: %w", err)
	}
	return ids, nil
}

func (r *DefaultSettlementRepository) AggregateShopMetrics(ctx context.Context, from, to time.Time) ([]*domain.ShopMetrics, error) {
	var rows []models.ShopMetricsRow
	if err := r.DB.WithContext(ctx).
		Raw(aggregateShopMetricsQuery, string(domain.SettlementFinalized), string(domain.SettlementPaid), from, to).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("aggregate shop metrics: %w", err)
	}
	metrics := make([]*domain.ShopMetrics, len(rows))
	for i := range rows {
		metrics[i] = mappers.ToDomainShopMetrics(&rows[i])
	}
	return metrics, nil
}
