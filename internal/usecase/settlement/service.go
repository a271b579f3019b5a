package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

// RateResolver resolves the commission config of a shop at an instant using
// the repository of the running transaction.
type RateResolver interface {
	ResolveWith(ctx context.Context, repo domain.CommissionRepository, shopID string, at time.Time) (*domain.CommissionConfig, error)
}

// CommissionTimePolicy chooses the instant commissions are resolved at.
type CommissionTimePolicy string

const (
	ResolveAtTransition CommissionTimePolicy = "transition"
	ResolveAtCreation   CommissionTimePolicy = "creation"
)

// Service applies settlement side effects inside a caller's transaction.
type Service struct {
	calc     *Calculator
	resolver RateResolver
	policy   CommissionTimePolicy
}

func NewService(calc *Calculator, resolver RateResolver, policy CommissionTimePolicy) *Service {
	if policy == "" {
		policy = ResolveAtTransition
	}
	return &Service{calc: calc, resolver: resolver, policy: policy}
}

func (s *Service) Calculator() *Calculator {
	return s.calc
}

func (s *Service) resolveAt(order *domain.Order, at time.Time) time.Time {
	if s.policy == ResolveAtCreation {
		return order.CreatedAt
	}
	return at
}

// Materialize creates the missing settlements of order. Existing rows are
// left untouched, so calling it again is a no-op. The returned events
// describe the rows created by this call.
func (s *Service) Materialize(ctx context.Context, repos domain.Repositories, order *domain.Order, at time.Time) ([]*domain.ShopSettlement, []domain.Event, error) {
	existing, err := repos.Settlements().ListSettlementsByOrder(ctx, order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list settlements: %w", err)
	}
	if len(existing) == len(order.ShopIDs()) {
		return existing, nil, nil
	}

	resolvedAt := s.resolveAt(order, at)
	rates := make(map[string]ResolvedRate)
	for _, shopID := range order.ShopIDs() {
		cfg, err := s.resolver.ResolveWith(ctx, repos.Commissions(), shopID, resolvedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve commission for shop %s: %w", shopID, err)
		}
		rates[shopID] = RateFromConfig(cfg)
	}

	shares, err := s.calc.Calculate(order, rates)
	if err != nil {
		return nil, nil, err
	}

	var events []domain.Event
	for _, share := range shares {
		row := newSettlement(order.ID, share, resolvedAt, at)
		created, err := repos.Settlements().CreateSettlementIfAbsent(ctx, row)
		if err != nil {
			return nil, nil, fmt.Errorf("create settlement %s/%s: %w", order.ID, share.ShopID, err)
		}
		if created {
			events = append(events, settlementEvent("materialized", row, at))
		}
	}

	all, err := repos.Settlements().ListSettlementsByOrder(ctx, order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list settlements: %w", err)
	}
	return all, events, nil
}

// Finalize materializes settlements if needed and locks every pending one.
func (s *Service) Finalize(ctx context.Context, repos domain.Repositories, order *domain.Order, at time.Time) ([]domain.Event, error) {
	settlements, events, err := s.Materialize(ctx, repos, order, at)
	if err != nil {
		return nil, err
	}
	for _, st := range settlements {
		if st.Status != domain.SettlementPending {
			continue
		}
		finalizedAt := at
		st.Status = domain.SettlementFinalized
		st.FinalizedAt = &finalizedAt
		st.UpdatedAt = at
		if err := repos.Settlements().UpdateSettlement(ctx, st); err != nil {
			return nil, fmt.Errorf("finalize settlement %s/%s: %w", st.OrderID, st.ShopID, err)
		}
		events = append(events, settlementEvent("finalized", st, at))
	}
	return events, nil
}

// Void marks every unpaid settlement of an order VOIDED. Rows are kept.
func (s *Service) Void(ctx context.Context, repos domain.Repositories, orderID string, at time.Time) ([]domain.Event, error) {
	settlements, err := repos.Settlements().ListSettlementsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	var events []domain.Event
	for _, st := range settlements {
		if st.IsPaid || st.Status == domain.SettlementVoided {
			continue
		}
		voidedAt := at
		st.Status = domain.SettlementVoided
		st.VoidedAt = &voidedAt
		st.UpdatedAt = at
		if err := repos.Settlements().UpdateSettlement(ctx, st); err != nil {
			return nil, fmt.Errorf("void settlement %s/%s: %w", st.OrderID, st.ShopID, err)
		}
		events = append(events, settlementEvent("voided", st, at))
	}
	return events, nil
}

// RefundOutcome describes how a refund was booked.
type RefundOutcome struct {
	Settlement *domain.ShopSettlement
	Adjustment *domain.SettlementAdjustment
	Events     []domain.Event
}

// ApplyRefund books refund against the shop settlement of request. Unpaid
// settlements absorb it into RefundedAmount and NetAmount; what does not fit,
// and any refund against a paid settlement, becomes a negative adjustment.
func (s *Service) ApplyRefund(ctx context.Context, repos domain.Repositories, request *domain.ReturnRequest, refund decimal.Decimal, at time.Time) (*RefundOutcome, error) {
	st, err := repos.Settlements().GetSettlementForUpdate(ctx, request.OrderID, request.ShopID)
	if err != nil {
		return nil, fmt.Errorf("settlement for refund %s: %w", request.RmaCode, err)
	}
	outcome := &RefundOutcome{Settlement: st}
	if !refund.IsPositive() {
		return outcome, nil
	}

	excess := refund
	if !st.IsPaid {
		st.RefundedAmount = st.RefundedAmount.Add(refund)
		net := st.NetAmount.Sub(refund)
		excess = decimal.Zero
		if net.IsNegative() {
			excess = net.Neg()
			net = decimal.Zero
		}
		st.NetAmount = net
		st.UpdatedAt = at
		if err := repos.Settlements().UpdateSettlement(ctx, st); err != nil {
			return nil, fmt.Errorf("apply refund to settlement %s/%s: %w", st.OrderID, st.ShopID, err)
		}
	}

	if excess.IsPositive() {
		adj := &domain.SettlementAdjustment{
			ID:           newID(),
			SettlementID: st.ID,
			OrderID:      st.OrderID,
			ShopID:       st.ShopID,
			RmaCode:      request.RmaCode,
			Amount:       excess.Neg(),
			Reason:       fmt.Sprintf("refund %s", request.RmaCode),
			CreatedAt:    at,
		}
		created, err := repos.Settlements().CreateAdjustmentIfAbsent(ctx, adj)
		if err != nil {
			return nil, fmt.Errorf("create adjustment for %s: %w", request.RmaCode, err)
		}
		if created {
			outcome.Adjustment = adj
		}
	}

	outcome.Events = append(outcome.Events, settlementEvent("refunded", st, at))
	return outcome, nil
}

func newSettlement(orderID string, share ShopShare, resolvedAt, at time.Time) *domain.ShopSettlement {
	return &domain.ShopSettlement{
		ID:                    newID(),
		OrderID:               orderID,
		ShopID:                share.ShopID,
		ShopSubtotal:          share.Subtotal,
		ShopShippingFee:       share.ShippingFee,
		CommissionRateApplied: share.Rate.Rate,
		CommissionFeeType:     share.Rate.FeeType,
		CommissionConfigID:    share.Rate.ConfigID,
		PlatformFee:           share.PlatformFee,
		RefundedAmount:        decimal.Zero,
		NetAmount:             share.NetAmount,
		Status:                domain.SettlementPending,
		ResolvedAt:            resolvedAt,
		CreatedAt:             at,
		UpdatedAt:             at,
	}
}

func settlementEvent(kind string, st *domain.ShopSettlement, at time.Time) domain.SettlementEvent {
	return domain.SettlementEvent{
		Type:        kind,
		OrderID:     st.OrderID,
		ShopID:      st.ShopID,
		Status:      st.Status,
		FeeType:     st.CommissionFeeType,
		NetAmount:   st.NetAmount,
		PlatformFee: st.PlatformFee,
		At:          at,
	}
}
