package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/google/uuid"
)

////////////////////// Safe order operations //////////////////////////

// OrderOperation - описание перехода заказа, выполняемого одной транзакцией
type OrderOperation struct {
	Order           *domain.Order
	ExpectedVersion int64
	OldStatus       domain.OrderStatus
	NewStatus       domain.OrderStatus
	Actor           domain.Actor
	Reason          string
	At              time.Time
}

///////////////////////// Базовая транзакционная функция //////////////////////////

// ProcessOrderOperation atomically swaps the order status, logs the change and
// applies the settlement side effects of the target status. Events are
// published only after commit.
func (uc *DefaultOrderUsecase) ProcessOrderOperation(ctx context.Context, op *OrderOperation) error {
	var events []domain.Event
	err := uc.Store.WithinTransaction(ctx, func(repos domain.Repositories) error {
		var err error
		events, err = uc.processCriticalOperations(ctx, repos, op)
		return err
	})
	if err != nil {
		return fmt.Errorf("order %s %s -> %s: %w", op.Order.ID, op.OldStatus, op.NewStatus, err)
	}

	// НЕКРИТИЧНО: публикация после коммита, ошибка только логируется
	events = append([]domain.Event{domain.OrderStatusChangedEvent{
		OrderID:   op.Order.ID,
		BuyerID:   op.Order.BuyerID,
		From:      op.OldStatus,
		To:        op.NewStatus,
		ActorID:   op.Actor.ID,
		ActorRole: op.Actor.Role,
		Reason:    op.Reason,
		At:        op.At,
	}}, events...)
	uc.publish(ctx, events...)
	uc.recordTransitionMetrics(op, events)
	return nil
}

// processCriticalOperations runs inside the transaction.
func (uc *DefaultOrderUsecase) processCriticalOperations(ctx context.Context, repos domain.Repositories, op *OrderOperation) ([]domain.Event, error) {
	order := op.Order
	order.Status = op.NewStatus
	order.UpdatedAt = op.At
	if op.NewStatus == domain.StatusCancelled {
		cancelledAt := op.At
		order.CancellationReason = op.Reason
		order.CancelledBy = op.Actor.Role
		order.CancelledAt = &cancelledAt
	}

	if err := repos.Orders().UpdateOrderStatus(ctx, order, op.ExpectedVersion); err != nil {
		return nil, err
	}
	change := &domain.OrderStatusChange{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		From:      op.OldStatus,
		To:        op.NewStatus,
		ActorID:   op.Actor.ID,
		ActorRole: op.Actor.Role,
		Reason:    op.Reason,
		At:        op.At,
	}
	if err := repos.Orders().AppendStatusChange(ctx, change); err != nil {
		return nil, err
	}

	switch op.NewStatus {
	case domain.StatusConfirmed:
		_, events, err := uc.Settlements.Materialize(ctx, repos, order, op.At)
		return events, err
	case domain.StatusDelivered:
		return uc.Settlements.Finalize(ctx, repos, order, op.At)
	case domain.StatusCancelled:
		return uc.Settlements.Void(ctx, repos, order.ID, op.At)
	}
	return nil, nil
}

func (uc *DefaultOrderUsecase) publish(ctx context.Context, events ...domain.Event) {
	if uc.Publisher == nil || len(events) == 0 {
		return
	}
	if err := uc.Publisher.Publish(ctx, events...); err != nil {
		slog.Error("failed to publish order events", "count", len(events), "error", err.Error())
	}
}
