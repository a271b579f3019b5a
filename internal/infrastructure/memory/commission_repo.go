package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

type commissionRepo struct {
	*repositories
}

func (r *commissionRepo) findActive(scope domain.CommissionScope, shopID string, at time.Time) *domain.CommissionConfig {
	var found *domain.CommissionConfig
	for _, c := range r.state().configs {
		if c.Scope != scope || c.ShopID != shopID || !c.ActiveAt(at) {
			continue
		}
		if found == nil || c.EffectiveFrom.After(found.EffectiveFrom) {
			found = c
		}
	}
	return found
}

func (r *commissionRepo) findOpen(scope domain.CommissionScope, shopID string) *domain.CommissionConfig {
	for _, c := range r.state().configs {
		if c.Scope == scope && c.ShopID == shopID && c.IsOpen() {
			return c
		}
	}
	return nil
}

func (r *commissionRepo) GetActiveShopConfig(ctx context.Context, shopID string, at time.Time) (*domain.CommissionConfig, error) {
	defer r.lock()()
	if c := r.findActive(domain.ScopeShop, shopID, at); c != nil {
		return copyConfig(c), nil
	}
	return nil, fmt.Errorf("commission config for shop %s: %w", shopID, domain.ErrNotFound)
}

func (r *commissionRepo) GetActiveGlobalConfig(ctx context.Context, at time.Time) (*domain.CommissionConfig, error) {
	defer r.lock()()
	if c := r.findActive(domain.ScopeGlobal, "", at); c != nil {
		return copyConfig(c), nil
	}
	return nil, fmt.Errorf("global commission config: %w", domain.ErrNotFound)
}

func (r *commissionRepo) GetOpenShopConfigForUpdate(ctx context.Context, shopID string) (*domain.CommissionConfig, error) {
	defer r.lock()()
	if c := r.findOpen(domain.ScopeShop, shopID); c != nil {
		return copyConfig(c), nil
	}
	return nil, fmt.Errorf("open commission config for shop %s: %w", shopID, domain.ErrNotFound)
}

func (r *commissionRepo) GetOpenGlobalConfigForUpdate(ctx context.Context) (*domain.CommissionConfig, error) {
	defer r.lock()()
	if c := r.findOpen(domain.ScopeGlobal, ""); c != nil {
		return copyConfig(c), nil
	}
	return nil, fmt.Errorf("open global commission config: %w", domain.ErrNotFound)
}

func (r *commissionRepo) ListOpenShopConfigsForUpdate(ctx context.Context) ([]*domain.CommissionConfig, error) {
	defer r.lock()()
	var out []*domain.CommissionConfig
	for _, c := range r.state().configs {
		if c.Scope == domain.ScopeShop && c.IsOpen() {
			out = append(out, copyConfig(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShopID < out[j].ShopID })
	return out, nil
}

func (r *commissionRepo) CloseConfig(ctx context.Context, configID string, at time.Time) error {
	defer r.lock()()
	for _, c := range r.state().configs {
		if c.ID != configID {
			continue
		}
		if !c.IsOpen() {
			return fmt.Errorf("commission config %s already closed: %w", configID, domain.ErrConcurrentModification)
		}
		closedAt := at
		c.EffectiveTo = &closedAt
		return nil
	}
	return fmt.Errorf("commission config %s: %w", configID, domain.ErrNotFound)
}

func (r *commissionRepo) CreateConfig(ctx context.Context, config *domain.CommissionConfig) error {
	defer r.lock()()
	st := r.state()
	// аналог частичного уникального индекса effective_to IS NULL
	if config.IsOpen() && r.findOpen(config.Scope, config.ShopID) != nil {
		return fmt.Errorf("open commission config for %s/%s exists: %w", config.Scope, config.ShopID, domain.ErrConcurrentModification)
	}
	st.configs = append(st.configs, copyConfig(config))
	return nil
}

func (r *commissionRepo) AppendHistory(ctx context.Context, entry *domain.CommissionHistoryEntry) error {
	defer r.lock()()
	st := r.state()
	st.history = append(st.history, copyHistory(entry))
	return nil
}

func (r *commissionRepo) ListHistory(ctx context.Context, filter domain.CommissionHistoryFilter) ([]*domain.CommissionHistoryEntry, int64, error) {
	defer r.lock()()
	var matched []*domain.CommissionHistoryEntry
	history := r.state().history
	// история append-only, поэтому обратный порядок вставки = обратная хронология
	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		if filter.Scope != nil && h.Scope != *filter.Scope {
			continue
		}
		if filter.ShopID != nil && (h.ShopID == nil || *h.ShopID != *filter.ShopID) {
			continue
		}
		matched = append(matched, copyHistory(h))
	}
	total := int64(len(matched))
	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		if offset >= len(matched) {
			return nil, total, nil
		}
		end := offset + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[offset:end]
	}
	return matched, total, nil
}
