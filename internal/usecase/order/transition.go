package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/order"
)

// TransitionOrderStatus moves an order along the transition table. A lost
// race against a concurrent transition yields ErrConcurrentModification and
// leaves the winner's state untouched.
func (uc *DefaultOrderUsecase) TransitionOrderStatus(ctx context.Context, input *orderdto.TransitionOrderInput) (*domain.Order, error) {
	done := uc.Metrics.Track("transition_order")
	order, err := uc.transition(ctx, input)
	done(err)
	if err != nil {
		uc.recordTransitionError(err)
		return nil, err
	}
	return order, nil
}

func (uc *DefaultOrderUsecase) transition(ctx context.Context, input *orderdto.TransitionOrderInput) (*domain.Order, error) {
	if err := input.Actor.Validate(); err != nil {
		return nil, err
	}
	target := input.TargetStatus
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, target)
	}
	// REFUNDED выставляется только процессом возврата
	if target == domain.StatusRefunded {
		return nil, fmt.Errorf("%w: %s is reachable only through a return request", domain.ErrInvalidTransition, target)
	}

	reason := strings.TrimSpace(input.Reason)
	if target == domain.StatusCancelled {
		if reason == "" {
			return nil, domain.ErrMissingReason
		}
		switch input.Actor.Role {
		case domain.RoleBuyer, domain.RoleSeller, domain.RoleAdmin:
		default:
			return nil, domain.Validationf("order can not be cancelled by %s", input.Actor.Role)
		}
	}

	order, err := uc.Store.Orders().GetOrderByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if input.ExpectedVersion != nil && *input.ExpectedVersion != order.Version {
		return nil, fmt.Errorf("order %s version %d, expected %d: %w", order.ID, order.Version, *input.ExpectedVersion, domain.ErrConcurrentModification)
	}
	if err := domain.ValidateOrderTransition(order.Status, target); err != nil {
		return nil, err
	}
	if err := checkActor(order, target, input.Actor); err != nil {
		return nil, err
	}

	op := &OrderOperation{
		Order:           order,
		ExpectedVersion: order.Version,
		OldStatus:       order.Status,
		NewStatus:       target,
		Actor:           input.Actor,
		Reason:          reason,
		At:              uc.now(),
	}
	if err := uc.ProcessOrderOperation(ctx, op); err != nil {
		return nil, err
	}

	slog.Info("order status changed", "order_id", order.ID, "from", op.OldStatus, "to", op.NewStatus, "actor_id", op.Actor.ID, "version", order.Version)
	return order, nil
}

// checkActor enforces who may drive each edge. Buyers may only cancel their
// own orders, and PAID is recorded by staff.
func checkActor(order *domain.Order, target domain.OrderStatus, actor domain.Actor) error {
	forbidden := func() error {
		return fmt.Errorf("%s may not move order %s from %s to %s: %w", actor.Role, order.ID, order.Status, target, domain.ErrForbidden)
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleSystem:
		return nil
	case domain.RoleBuyer:
		if target == domain.StatusCancelled && actor.ID == order.BuyerID {
			return nil
		}
		return forbidden()
	case domain.RoleSeller:
		if target == domain.StatusPaid {
			return forbidden()
		}
		return nil
	}
	return forbidden()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrConcurrentModification):
		return "concurrent_modification"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}
