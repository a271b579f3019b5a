package usecase

import (
	"context"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

func (uc *DefaultReturnUsecase) GetReturnRequest(ctx context.Context, rmaCode string) (*domain.ReturnRequest, error) {
	return uc.store.Returns().GetReturnRequest(ctx, rmaCode)
}

func (uc *DefaultReturnUsecase) ListOrderReturnRequests(ctx context.Context, orderID string) ([]*domain.ReturnRequest, error) {
	if _, err := uc.store.Orders().GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.store.Returns().ListReturnRequestsByOrder(ctx, orderID)
}
