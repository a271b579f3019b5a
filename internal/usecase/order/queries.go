package usecase

import (
	"context"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

// GetOrder returns the order with its full status history.
func (uc *DefaultOrderUsecase) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := uc.Store.Orders().GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	history, err := uc.Store.Orders().GetStatusHistory(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.StatusHistory = history
	return order, nil
}
