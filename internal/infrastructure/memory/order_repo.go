package memory

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

type orderRepo struct {
	*repositories
}

func (r *orderRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	defer r.lock()()
	st := r.state()
	if _, ok := st.orders[order.ID]; ok {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	st.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *orderRepo) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	defer r.lock()()
	order, ok := r.state().orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrNotFound)
	}
	return copyOrder(order), nil
}

func (r *orderRepo) GetOrderForUpdate(ctx context.Context, orderID string) (*domain.Order, error) {
	return r.GetOrderByID(ctx, orderID)
}

func (r *orderRepo) UpdateOrderStatus(ctx context.Context, order *domain.Order, expectedVersion int64) error {
	defer r.lock()()
	stored, ok := r.state().orders[order.ID]
	if !ok {
		return fmt.Errorf("order %s: %w", order.ID, domain.ErrNotFound)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("order %s version %d, expected %d: %w", order.ID, stored.Version, expectedVersion, domain.ErrConcurrentModification)
	}
	stored.Status = order.Status
	stored.CancellationReason = order.CancellationReason
	stored.CancelledBy = order.CancelledBy
	stored.CancelledAt = copyPtr(order.CancelledAt)
	stored.UpdatedAt = order.UpdatedAt
	stored.Version = expectedVersion + 1
	order.Version = stored.Version
	return nil
}

func (r *orderRepo) AppendStatusChange(ctx context.Context, change *domain.OrderStatusChange) error {
	defer r.lock()()
	st := r.state()
	cp := *change
	st.statusChanges[change.OrderID] = append(st.statusChanges[change.OrderID], &cp)
	return nil
}

func (r *orderRepo) GetStatusHistory(ctx context.Context, orderID string) ([]*domain.OrderStatusChange, error) {
	defer r.lock()()
	changes := r.state().statusChanges[orderID]
	out := make([]*domain.OrderStatusChange, len(changes))
	for i, ch := range changes {
		cp := *ch
		out[i] = &cp
	}
	return out, nil
}
