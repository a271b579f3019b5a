// Package memory is a transactional in-process implementation of the
// persistence ports. Transactions run against a copy of the state that is
// swapped in on success, so a failing operation leaves nothing behind.
package memory

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

type state struct {
	orders        map[string]*domain.Order
	statusChanges map[string][]*domain.OrderStatusChange
	settlements   map[string]*domain.ShopSettlement
	adjustments   map[string]*domain.SettlementAdjustment
	configs       []*domain.CommissionConfig
	history       []*domain.CommissionHistoryEntry
	returns       map[string]*domain.ReturnRequest
	snapshots     []*domain.SellerPerformanceSnapshot
}

func newState() *state {
	return &state{
		orders:        make(map[string]*domain.Order),
		statusChanges: make(map[string][]*domain.OrderStatusChange),
		settlements:   make(map[string]*domain.ShopSettlement),
		adjustments:   make(map[string]*domain.SettlementAdjustment),
		returns:       make(map[string]*domain.ReturnRequest),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.statusChanges {
		changes := make([]*domain.OrderStatusChange, len(v))
		for i, ch := range v {
			cp := *ch
			changes[i] = &cp
		}
		c.statusChanges[k] = changes
	}
	for k, v := range s.settlements {
		c.settlements[k] = copySettlement(v)
	}
	for k, v := range s.adjustments {
		cp := *v
		c.adjustments[k] = &cp
	}
	c.configs = make([]*domain.CommissionConfig, len(s.configs))
	for i, v := range s.configs {
		c.configs[i] = copyConfig(v)
	}
	c.history = make([]*domain.CommissionHistoryEntry, len(s.history))
	for i, v := range s.history {
		c.history[i] = copyHistory(v)
	}
	for k, v := range s.returns {
		c.returns[k] = copyReturn(v)
	}
	c.snapshots = make([]*domain.SellerPerformanceSnapshot, len(s.snapshots))
	for i, v := range s.snapshots {
		cp := *v
		c.snapshots[i] = &cp
	}
	return c
}

// Store implements domain.Store. All operations are serialized by one mutex.
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

func noLock() func() { return func() {} }

func (s *Store) repos(st *state, lock func() func()) *repositories {
	return &repositories{st: st, lock: lock}
}

func (s *Store) committed() *repositories {
	return &repositories{store: s, lock: s.lock}
}

func (s *Store) Orders() domain.OrderRepository {
	return &orderRepo{s.committed()}
}

func (s *Store) Settlements() domain.SettlementRepository {
	return &settlementRepo{s.committed()}
}

func (s *Store) Commissions() domain.CommissionRepository {
	return &commissionRepo{s.committed()}
}

func (s *Store) Returns() domain.ReturnRepository {
	return &returnRepo{s.committed()}
}

func (s *Store) Performance() domain.PerformanceRepository {
	return &performanceRepo{s.committed()}
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(repos domain.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(s.repos(work, noLock)); err != nil {
		return err
	}
	s.st = work
	return nil
}

// repositories is bound either to the committed state of a store (locking on
// every call) or to the working copy of a running transaction.
type repositories struct {
	store *Store
	st    *state
	lock  func() func()
}

func (r *repositories) state() *state {
	if r.store != nil {
		return r.store.st
	}
	return r.st
}

func (r *repositories) Orders() domain.OrderRepository { return &orderRepo{r} }
func (r *repositories) Settlements() domain.SettlementRepository { return &settlementRepo{r} }
func (r *repositories) Commissions() domain.CommissionRepository { return &commissionRepo{r} }
func (r *repositories) Returns() domain.ReturnRepository { return &returnRepo{r} }
func (r *repositories) Performance() domain.PerformanceRepository { return &performanceRepo{r} }
