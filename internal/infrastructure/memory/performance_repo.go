package memory

import (
	"context"
	"sort"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

type performanceRepo struct {
	*repositories
}

func (r *performanceRepo) SaveSnapshots(ctx context.Context, snapshots []*domain.SellerPerformanceSnapshot) error {
	defer r.lock()()
	st := r.state()
	for _, s := range snapshots {
		cp := *s
		st.snapshots = append(st.snapshots, &cp)
	}
	return nil
}

func (r *performanceRepo) ListShopSnapshots(ctx context.Context, shopID string, limit int) ([]*domain.SellerPerformanceSnapshot, error) {
	defer r.lock()()
	var out []*domain.SellerPerformanceSnapshot
	for _, s := range r.state().snapshots {
		if s.ShopID == shopID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ComputedAt.After(out[j].ComputedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
