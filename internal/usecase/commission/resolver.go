package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

// Resolver picks the commission config that applies to a shop at an instant:
// the shop's custom config if one is active, else the global default.
type Resolver struct {
	repo domain.CommissionRepository
}

func NewResolver(repo domain.CommissionRepository) *Resolver {
	return &Resolver{repo: repo}
}

func (r *Resolver) Resolve(ctx context.Context, shopID string, at time.Time) (*domain.CommissionConfig, error) {
	return r.ResolveWith(ctx, r.repo, shopID, at)
}

// ResolveWith resolves against repo, usually one bound to a transaction.
func (r *Resolver) ResolveWith(ctx context.Context, repo domain.CommissionRepository, shopID string, at time.Time) (*domain.CommissionConfig, error) {
	cfg, err := repo.GetActiveShopConfig(ctx, shopID, at)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	cfg, err = repo.GetActiveGlobalConfig(ctx, at)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no commission config for shop %s at %s: %w", shopID, at.Format(time.RFC3339), domain.ErrNotFound)
		}
		return nil, err
	}
	return cfg, nil
}
