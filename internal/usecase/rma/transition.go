package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	rmadto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/rma"
	"github.com/google/uuid"
)

// checkActor enforces who may drive each edge. The buyer ships the parcel
// and may withdraw before shipping; the seller decides the rest; admins and
// the system may do anything, including cancelling at any time.
func checkActor(request *domain.ReturnRequest, target domain.ReturnStatus, actor domain.Actor) error {
	forbidden := func() error {
		return fmt.Errorf("%s may not move %s from %s to %s: %w", actor.Role, request.RmaCode, request.Status, target, domain.ErrForbidden)
	}
	switch domain.ReturnActorTypeOf(actor.Role) {
	case domain.ReturnActorAdmin, domain.ReturnActorSystem:
		return nil
	case domain.ReturnActorUser:
		if actor.ID != request.BuyerID {
			return forbidden()
		}
		if target == domain.ReturnShipped {
			return nil
		}
		if target == domain.ReturnCancelled && (request.Status == domain.ReturnRequested || request.Status == domain.ReturnApproved) {
			return nil
		}
		return forbidden()
	case domain.ReturnActorSeller:
		if target == domain.ReturnShipped || target == domain.ReturnCancelled {
			return forbidden()
		}
		return nil
	}
	return forbidden()
}

// TransitionReturnStatus moves an RMA along its transition table. Reaching a
// refunding status books the refund against the shop settlement in the same
// transaction, and a delivered order whose every unit is refunded becomes
// REFUNDED.
func (uc *DefaultReturnUsecase) TransitionReturnStatus(ctx context.Context, input *rmadto.TransitionReturnInput) (*domain.ReturnRequest, error) {
	if err := input.Actor.Validate(); err != nil {
		return nil, err
	}
	request, err := uc.store.Returns().GetReturnRequest(ctx, input.RmaCode)
	if err != nil {
		return nil, err
	}
	if input.ExpectedVersion != nil && *input.ExpectedVersion != request.Version {
		return nil, fmt.Errorf("return request %s version %d, expected %d: %w", request.RmaCode, request.Version, *input.ExpectedVersion, domain.ErrConcurrentModification)
	}

	target := input.TargetStatus
	if err := domain.ValidateReturnTransition(request.Status, target); err != nil {
		return nil, err
	}
	if target == domain.ReturnRefunded && request.RequestedResolution != domain.ResolutionRefund {
		return nil, fmt.Errorf("%w: %s requested %s, not a refund", domain.ErrInvalidTransition, request.RmaCode, request.RequestedResolution)
	}
	if err := checkActor(request, target, input.Actor); err != nil {
		return nil, err
	}

	done := uc.metrics.Track("transition_return")
	from := request.Status
	var (
		events      []domain.Event
		orderChange *domain.OrderStatusChange
		adjusted    bool
	)
	err = uc.store.WithinTransaction(ctx, func(repos domain.Repositories) error {
		now := uc.now()
		event := domain.ReturnStatusEvent{
			Status:    target,
			At:        now,
			By:        input.Actor.ID,
			ActorType: domain.ReturnActorTypeOf(input.Actor.Role),
			Note:      strings.TrimSpace(input.Note),
		}
		request.Status = target
		request.UpdatedAt = now
		if err := repos.Returns().UpdateReturnStatus(ctx, request, request.Version, event); err != nil {
			return err
		}
		request.StatusEvents = append(request.StatusEvents, event)

		if !request.RefundsMoney(target) {
			return nil
		}
		outcome, err := uc.settlements.ApplyRefund(ctx, repos, request, request.Amounts.RefundTotal, now)
		if err != nil {
			return err
		}
		events = append(events, outcome.Events...)
		adjusted = outcome.Adjustment != nil

		orderChange, err = uc.refundOrderIfComplete(ctx, repos, request, input.Actor, now)
		return err
	})
	done(err)
	if err != nil {
		return nil, err
	}

	slog.Info("return request status changed", "rma_code", request.RmaCode, "from", from, "to", target, "actor_id", input.Actor.ID)
	uc.metrics.ObserveReturnTransition(string(target))
	if request.RefundsMoney(target) {
		uc.metrics.ObserveRefund(string(request.RequestedResolution), request.Amounts.RefundTotal, adjusted)
	}

	events = append([]domain.Event{domain.ReturnStatusChangedEvent{
		RmaCode:     request.RmaCode,
		OrderID:     request.OrderID,
		ShopID:      request.ShopID,
		From:        from,
		To:          target,
		RefundTotal: request.Amounts.RefundTotal,
		ActorID:     input.Actor.ID,
		At:          request.UpdatedAt,
	}}, events...)
	if orderChange != nil {
		slog.Info("order fully refunded", "order_id", orderChange.OrderID, "rma_code", request.RmaCode)
		uc.metrics.ObserveTransition(string(orderChange.From), string(orderChange.To))
		events = append(events, domain.OrderStatusChangedEvent{
			OrderID:   orderChange.OrderID,
			BuyerID:   request.BuyerID,
			From:      orderChange.From,
			To:        orderChange.To,
			ActorID:   orderChange.ActorID,
			ActorRole: orderChange.ActorRole,
			Reason:    orderChange.Reason,
			At:        orderChange.At,
		})
	}
	uc.publish(ctx, events...)
	return request, nil
}

func (uc *DefaultReturnUsecase) refundOrderIfComplete(ctx context.Context, repos domain.Repositories, request *domain.ReturnRequest, actor domain.Actor, now time.Time) (*domain.OrderStatusChange, error) {
	order, err := repos.Orders().GetOrderForUpdate(ctx, request.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusDelivered {
		return nil, nil
	}
	requests, err := repos.Returns().ListReturnRequestsByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if !fullyRefunded(order, requests) {
		return nil, nil
	}
	if err := domain.ValidateOrderTransition(order.Status, domain.StatusRefunded); err != nil {
		return nil, err
	}

	from := order.Status
	order.Status = domain.StatusRefunded
	order.UpdatedAt = now
	if err := repos.Orders().UpdateOrderStatus(ctx, order, order.Version); err != nil {
		return nil, err
	}
	change := &domain.OrderStatusChange{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		From:      from,
		To:        domain.StatusRefunded,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Reason:    "all items refunded, last " + request.RmaCode,
		At:        now,
	}
	if err := repos.Orders().AppendStatusChange(ctx, change); err != nil {
		return nil, err
	}
	return change, nil
}
