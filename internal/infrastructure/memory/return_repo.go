package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

type returnRepo struct {
	*repositories
}

func (r *returnRepo) CreateReturnRequest(ctx context.Context, request *domain.ReturnRequest) error {
	defer r.lock()()
	st := r.state()
	if _, ok := st.returns[request.RmaCode]; ok {
		return fmt.Errorf("return request %s already exists", request.RmaCode)
	}
	st.returns[request.RmaCode] = copyReturn(request)
	return nil
}

func (r *returnRepo) GetReturnRequest(ctx context.Context, rmaCode string) (*domain.ReturnRequest, error) {
	defer r.lock()()
	rr, ok := r.state().returns[rmaCode]
	if !ok {
		return nil, fmt.Errorf("return request %s: %w", rmaCode, domain.ErrNotFound)
	}
	return copyReturn(rr), nil
}

func (r *returnRepo) ListReturnRequestsByOrder(ctx context.Context, orderID string) ([]*domain.ReturnRequest, error) {
	defer r.lock()()
	var out []*domain.ReturnRequest
	for _, rr := range r.state().returns {
		if rr.OrderID == orderID {
			out = append(out, copyReturn(rr))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *returnRepo) UpdateReturnStatus(ctx context.Context, request *domain.ReturnRequest, expectedVersion int64, event domain.ReturnStatusEvent) error {
	defer r.lock()()
	stored, ok := r.state().returns[request.RmaCode]
	if !ok {
		return fmt.Errorf("return request %s: %w", request.RmaCode, domain.ErrNotFound)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("return request %s: %w", request.RmaCode, domain.ErrConcurrentModification)
	}
	stored.Status = request.Status
	stored.UpdatedAt = request.UpdatedAt
	stored.StatusEvents = append(stored.StatusEvents, event)
	stored.Version = expectedVersion + 1
	request.Version = stored.Version
	return nil
}
