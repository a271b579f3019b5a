package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type settlementRepo struct {
	*repositories
}

func settlementKey(orderID, shopID string) string {
	return orderID + "|" + shopID
}

func (r *settlementRepo) CreateSettlementIfAbsent(ctx context.Context, settlement *domain.ShopSettlement) (bool, error) {
	defer r.lock()()
	st := r.state()
	key := settlementKey(settlement.OrderID, settlement.ShopID)
	if _, ok := st.settlements[key]; ok {
		return false, nil
	}
	st.settlements[key] = copySettlement(settlement)
	return true, nil
}

func (r *settlementRepo) GetSettlement(ctx context.Context, orderID, shopID string) (*domain.ShopSettlement, error) {
	defer r.lock()()
	s, ok := r.state().settlements[settlementKey(orderID, shopID)]
	if !ok {
		return nil, fmt.Errorf("settlement %s/%s: %w", orderID, shopID, domain.ErrNotFound)
	}
	return copySettlement(s), nil
}

func (r *settlementRepo) GetSettlementForUpdate(ctx context.Context, orderID, shopID string) (*domain.ShopSettlement, error) {
	return r.GetSettlement(ctx, orderID, shopID)
}

func (r *settlementRepo) ListSettlementsByOrder(ctx context.Context, orderID string) ([]*domain.ShopSettlement, error) {
	defer r.lock()()
	var out []*domain.ShopSettlement
	for _, s := range r.state().settlements {
		if s.OrderID == orderID {
			out = append(out, copySettlement(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShopID < out[j].ShopID })
	return out, nil
}

func (r *settlementRepo) UpdateSettlement(ctx context.Context, settlement *domain.ShopSettlement) error {
	defer r.lock()()
	key := settlementKey(settlement.OrderID, settlement.ShopID)
	stored, ok := r.state().settlements[key]
	if !ok {
		return fmt.Errorf("settlement %s: %w", key, domain.ErrNotFound)
	}
	if stored.IsPaid {
		return fmt.Errorf("settlement %s is paid: %w", key, domain.ErrSettlementAlreadyFinalized)
	}
	r.state().settlements[key] = copySettlement(settlement)
	return nil
}

func (r *settlementRepo) CreateAdjustmentIfAbsent(ctx context.Context, adjustment *domain.SettlementAdjustment) (bool, error) {
	defer r.lock()()
	st := r.state()
	key := adjustment.RmaCode + "|" + adjustment.ShopID
	if _, ok := st.adjustments[key]; ok {
		return false, nil
	}
	cp := *adjustment
	st.adjustments[key] = &cp
	return true, nil
}

func (r *settlementRepo) ListAdjustments(ctx context.Context, orderID, shopID string) ([]*domain.SettlementAdjustment, error) {
	defer r.lock()()
	var out []*domain.SettlementAdjustment
	for _, a := range r.state().adjustments {
		if a.OrderID == orderID && a.ShopID == shopID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *settlementRepo) ListShopIDs(ctx context.Context, before time.Time) ([]string, error) {
	defer r.lock()()
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, s := range r.state().settlements {
		if !s.CreatedAt.Before(before) {
			continue
		}
		if _, ok := seen[s.ShopID]; ok {
			continue
		}
		seen[s.ShopID] = struct{}{}
		ids = append(ids, s.ShopID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *settlementRepo) AggregateShopMetrics(ctx context.Context, from, to time.Time) ([]*domain.ShopMetrics, error) {
	defer r.lock()()
	byShop := make(map[string]*domain.ShopMetrics)
	for _, s := range r.state().settlements {
		if s.Status != domain.SettlementFinalized && s.Status != domain.SettlementPaid {
			continue
		}
		if s.FinalizedAt == nil || s.FinalizedAt.Before(from) || !s.FinalizedAt.Before(to) {
			continue
		}
		m, ok := byShop[s.ShopID]
		if !ok {
			m = &domain.ShopMetrics{ShopID: s.ShopID, TotalRevenue: decimal.Zero, GMV: decimal.Zero}
			byShop[s.ShopID] = m
		}
		m.TotalRevenue = m.TotalRevenue.Add(s.NetAmount)
		m.GMV = m.GMV.Add(s.ShopSubtotal)
		m.TotalOrders++
	}
	out := make([]*domain.ShopMetrics, 0, len(byShop))
	for _, m := range byShop {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShopID < out[j].ShopID })
	return out, nil
}
