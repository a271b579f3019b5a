package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/metrics"
	settlementdto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/settlement"
	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

type SettlementUsecase interface {
	GetSettlement(ctx context.Context, orderID, shopID string) (*domain.ShopSettlement, error)
	ListOrderSettlements(ctx context.Context, orderID string) ([]*domain.ShopSettlement, error)
	MarkSettlementPaid(ctx context.Context, input *settlementdto.MarkPaidInput) (*domain.ShopSettlement, error)
	ListAdjustments(ctx context.Context, orderID, shopID string) ([]*domain.SettlementAdjustment, error)
}

type DefaultSettlementUsecase struct {
	store     domain.Store
	publisher domain.PublisherPort
	metrics   *metrics.SettlementMetrics
	now       func() time.Time
}

func NewDefaultSettlementUsecase(
	store domain.Store,
	publisher domain.PublisherPort,
	settlementMetrics *metrics.SettlementMetrics,
	now func() time.Time,
) *DefaultSettlementUsecase {
	if now == nil {
		now = time.Now
	}
	return &DefaultSettlementUsecase{
		store:     store,
		publisher: publisher,
		metrics:   settlementMetrics,
		now:       now,
	}
}

func (uc *DefaultSettlementUsecase) GetSettlement(ctx context.Context, orderID, shopID string) (*domain.ShopSettlement, error) {
	return uc.store.Settlements().GetSettlement(ctx, orderID, shopID)
}

func (uc *DefaultSettlementUsecase) ListOrderSettlements(ctx context.Context, orderID string) ([]*domain.ShopSettlement, error) {
	if _, err := uc.store.Orders().GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.store.Settlements().ListSettlementsByOrder(ctx, orderID)
}

func (uc *DefaultSettlementUsecase) ListAdjustments(ctx context.Context, orderID, shopID string) ([]*domain.SettlementAdjustment, error) {
	if _, err := uc.store.Settlements().GetSettlement(ctx, orderID, shopID); err != nil {
		return nil, err
	}
	return uc.store.Settlements().ListAdjustments(ctx, orderID, shopID)
}

// MarkSettlementPaid records the payout of a finalized settlement. Repeating
// the call with the same transaction id is a no-op.
func (uc *DefaultSettlementUsecase) MarkSettlementPaid(ctx context.Context, input *settlementdto.MarkPaidInput) (*domain.ShopSettlement, error) {
	if err := input.Actor.Validate(); err != nil {
		return nil, err
	}
	if input.Actor.Role != domain.RoleAdmin && input.Actor.Role != domain.RoleSystem {
		return nil, fmt.Errorf("mark settlement paid as %s: %w", input.Actor.Role, domain.ErrForbidden)
	}
	txID := strings.TrimSpace(input.TransactionID)
	if txID == "" {
		return nil, domain.Validationf("transaction id is required")
	}

	done := uc.metrics.Track("mark_settlement_paid")
	var (
		result  *domain.ShopSettlement
		changed bool
	)
	err := uc.store.WithinTransaction(ctx, func(repos domain.Repositories) error {
		st, err := repos.Settlements().GetSettlementForUpdate(ctx, input.OrderID, input.ShopID)
		if err != nil {
			return err
		}
		if st.IsPaid {
			if st.TransactionID == txID {
				result = st
				return nil
			}
			return fmt.Errorf("settlement %s/%s paid by %s: %w", st.OrderID, st.ShopID, st.TransactionID, domain.ErrSettlementAlreadyFinalized)
		}
		if st.Status != domain.SettlementFinalized {
			return fmt.Errorf("%w: settlement %s/%s is %s", domain.ErrInvalidTransition, st.OrderID, st.ShopID, st.Status)
		}

		now := uc.now()
		st.IsPaid = true
		st.PaidAt = &now
		st.TransactionID = txID
		st.Status = domain.SettlementPaid
		st.UpdatedAt = now
		if err := repos.Settlements().UpdateSettlement(ctx, st); err != nil {
			return err
		}
		result = st
		changed = true
		return nil
	})
	done(err)
	if err != nil {
		return nil, err
	}

	if changed {
		slog.Info("settlement paid", "order_id", result.OrderID, "shop_id", result.ShopID, "transaction_id", txID)
		uc.metrics.ObserveSettlement("paid", string(result.CommissionFeeType), result.PlatformFee, result.NetAmount)
		publish(ctx, uc.publisher, settlementEvent("paid", result, uc.now()))
	}
	return result, nil
}

// publish is best effort: the state change is already committed.
func publish(ctx context.Context, publisher domain.PublisherPort, events ...domain.Event) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		slog.Error("failed to publish settlement events", "count", len(events), "error", err.Error())
	}
}
