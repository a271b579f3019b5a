package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/metrics"
	rmadto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/rma"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/settlement"
	"github.com/jaevor/go-nanoid"
)

const (
	rmaCodePrefix   = "RMA-"
	rmaCodeLength   = 12
	rmaCodeAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"
)

type ReturnUsecase interface {
	CreateReturnRequest(ctx context.Context, input *rmadto.CreateReturnRequestInput) (string, error)
	TransitionReturnStatus(ctx context.Context, input *rmadto.TransitionReturnInput) (*domain.ReturnRequest, error)
	GetReturnRequest(ctx context.Context, rmaCode string) (*domain.ReturnRequest, error)
	ListOrderReturnRequests(ctx context.Context, orderID string) ([]*domain.ReturnRequest, error)
}

type DefaultReturnUsecase struct {
	store       domain.Store
	settlements *settlement.Service
	publisher   domain.PublisherPort
	metrics     *metrics.SettlementMetrics
	newCode     func() string
	now         func() time.Time
}

func NewDefaultReturnUsecase(
	store domain.Store,
	settlementService *settlement.Service,
	publisher domain.PublisherPort,
	settlementMetrics *metrics.SettlementMetrics,
	now func() time.Time,
) (*DefaultReturnUsecase, error) {
	idGenerator, err := nanoid.CustomASCII(rmaCodeAlphabet, rmaCodeLength)
	if err != nil {
		return nil, fmt.Errorf("rma code generator: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &DefaultReturnUsecase{
		store:       store,
		settlements: settlementService,
		publisher:   publisher,
		metrics:     settlementMetrics,
		newCode:     func() string { return rmaCodePrefix + idGenerator() },
		now:         now,
	}, nil
}
