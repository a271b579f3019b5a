package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.WithContext(ctx).Create(orderModel).Error; err != nil {
		return translateError(err, "create order %s", order.ID)
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, translateError(err, "order %s", orderID)
	}
	return r.withItems(ctx, &order)
}

func (r *DefaultOrderRepository) GetOrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	var order models.OrderModel
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", orderID).Error; err != nil {
		return nil, translateError(err, "lock order %s", orderID)
	}
	return r.withItems(ctx, &order)
}

// Позиции читаются отдельным запросом, чтобы FOR UPDATE касался только строки заказа.
func (r *DefaultOrderRepository) withItems(ctx context.Context, order *models.OrderModel) (*domain.Order, error) {
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", order.ID).
		Order("position ASC").
		Find(&order.Items).Error; err != nil {
		return nil, fmt.Errorf("load items of order %s: %w", order.ID, err)
	}
	return mappers.ToDomainOrder(order), nil
}

func (r *DefaultOrderRepository) UpdateOrderStatus(ctx context.Context, order *domain.Order, expectedVersion int64) error {
	db := r.DB.WithContext(ctx)
	result := db.Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, expectedVersion).
		Updates(map[string]any{
			"status":              string(order.Status),
			"cancellation_reason": order.CancellationReason,
			"cancelled_by":        string(order.CancelledBy),
			"cancelled_at":        order.CancelledAt,
			"updated_at":          order.UpdatedAt,
			"version":             expectedVersion + 1,
		})
	if result.Error != nil {
		return translateError(result.Error, "update order %s", order.ID)
	}
	if result.RowsAffected == 0 {
		found, err := exists(db, &models.OrderModel{}, "id = ?", order.ID)
		if err != nil {
			return fmt.Errorf("check order %s: %w", order.ID, err)
		}
		if !found {
			return fmt.Errorf("order %s: %w", order.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("order %s, expected version %d: %w", order.ID, expectedVersion, domain.ErrConcurrentModification)
	}
	order.Version = expectedVersion + 1
	return nil
}

func (r *DefaultOrderRepository) AppendStatusChange(ctx context.Context, change *domain.OrderStatusChange) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMStatusChange(change)).Error; err != nil {
		return translateError(err, "append status change of order %s", change.OrderID)
	}
	return nil
}

func (r *DefaultOrderRepository) GetStatusHistory(ctx context.Context, orderID string) ([]*domain.OrderStatusChange, error) {
	var changeModels []models.OrderStatusChangeModel
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("seq ASC").
		Find(&changeModels).Error; err != nil {
		return nil, fmt.Errorf("status history of order %s: %w", orderID, err)
	}
	changes := make([]*domain.OrderStatusChange, len(changeModels))
	for i := range changeModels {
		changes[i] = mappers.ToDomainStatusChange(&changeModels[i])
	}
	return changes, nil
}
