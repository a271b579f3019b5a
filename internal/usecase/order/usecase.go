package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/metrics"
	orderdto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/order"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/settlement"
)

type OrderUsecase interface {
	PlaceOrder(ctx context.Context, input *orderdto.PlaceOrderInput) (string, error)
	TransitionOrderStatus(ctx context.Context, input *orderdto.TransitionOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
}

type DefaultOrderUsecase struct {
	Store       domain.Store
	Settlements *settlement.Service
	Publisher   domain.PublisherPort
	Metrics     *metrics.SettlementMetrics
	now         func() time.Time
}

func NewDefaultOrderUsecase(
	store domain.Store,
	settlementService *settlement.Service,
	publisher domain.PublisherPort,
	settlementMetrics *metrics.SettlementMetrics,
	now func() time.Time,
) *DefaultOrderUsecase {
	if now == nil {
		now = time.Now
	}
	return &DefaultOrderUsecase{
		Store:       store,
		Settlements: settlementService,
		Publisher:   publisher,
		Metrics:     settlementMetrics,
		now:         now,
	}
}
