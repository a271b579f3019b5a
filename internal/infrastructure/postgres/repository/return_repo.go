package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultReturnRepository struct {
	DB *gorm.DB
}

func NewDefaultReturnRepository(db *gorm.DB) *DefaultReturnRepository {
	return &DefaultReturnRepository{DB: db}
}

func preloadEvents(db *gorm.DB) *gorm.DB {
	return db.Order("seq ASC")
}

func (r *DefaultReturnRepository) CreateReturnRequest(ctx context.Context, request *domain.ReturnRequest) error {
	db := r.DB.WithContext(ctx)
	if err := db.Omit("StatusEvents").Create(mappers.ToGORMReturnRequest(request)).Error; err != nil {
		return translateError(err, "create return request %s", request.RmaCode)
	}
	if len(request.StatusEvents) == 0 {
		return nil
	}
	events := make([]*models.ReturnStatusEventModel, len(request.StatusEvents))
	for i, ev := range request.StatusEvents {
		events[i] = mappers.ToGORMReturnStatusEvent(request.RmaCode, ev)
	}
	if err := db.Create(events).Error; err != nil {
		return translateError(err, "create status events of %s", request.RmaCode)
	}
	return nil
}

func (r *DefaultReturnRepository) GetReturnRequest(ctx context.Context, rmaCode string) (*domain.ReturnRequest, error) {
	var model models.ReturnRequestModel
	if err := r.DB.WithContext(ctx).
		Preload("StatusEvents", preloadEvents).
		First(&model, "rma_code = ?", rmaCode).Error; err != nil {
		return nil, translateError(err, "return request %s", rmaCode)
	}
	return mappers.ToDomainReturnRequest(&model), nil
}

func (r *DefaultReturnRepository) ListReturnRequestsByOrder(ctx context.Context, orderID string) ([]*domain.ReturnRequest, error) {
	var requestModels []models.ReturnRequestModel
	if err := r.DB.WithContext(ctx).
		Preload("StatusEvents", preloadEvents).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&requestModels).Error; err != nil {
		return nil, fmt.Errorf("return requests of order %s: %w", orderID, err)
	}
	requests := make([]*domain.ReturnRequest, len(requestModels))
	for i := range requestModels {
		requests[i] = mappers.ToDomainReturnRequest(&requestModels[i])
	}
	return requests, nil
}

func (r *DefaultReturnRepository) UpdateReturnStatus(ctx context.Context, request *domain.ReturnRequest, expectedVersion int64, event domain.ReturnStatusEvent) error {
	db := r.DB.WithContext(ctx)
	result := db.Model(&models.ReturnRequestModel{}).
		Where("rma_code = ? AND version = ?", request.RmaCode, expectedVersion).
		Updates(map[string]any{
			"status":     string(request.Status),
			"updated_at": request.UpdatedAt,
			"version":    expectedVersion + 1,
		})
	if result.Error != nil {
		return translateError(result.Error, "update return request %s", request.RmaCode)
	}
	if result.RowsAffected == 0 {
		found, err := exists(db, &models.ReturnRequestModel{}, "rma_code = ?", request.RmaCode)
		if err != nil {
			return fmt.Errorf("check return request %s: %w", request.RmaCode, err)
		}
		if !found {
			return fmt.Errorf("return request %s: %w", request.RmaCode, domain.ErrNotFound)
		}
		return fmt.Errorf("return request %s, expected version %d: %w", request.RmaCode, expectedVersion, domain.ErrConcurrentModification)
	}
	if err := db.Create(mappers.ToGORMReturnStatusEvent(request.RmaCode, event)).Error; err != nil {
		return translateError(err, "append status event of %s", request.RmaCode)
	}
	request.Version = expectedVersion + 1
	return nil
}
