package repository

import (
	"context"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"gorm.io/gorm"
)

// Store реализует domain.Store поверх gorm. Репозитории внутри
// WithinTransaction привязаны к *gorm.DB транзакции.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Orders() domain.OrderRepository {
	return NewDefaultOrderRepository(s.DB)
}

func (s *Store) Settlements() domain.SettlementRepository {
	return NewDefaultSettlementRepository(s.DB)
}

func (s *Store) Commissions() domain.CommissionRepository {
	return NewDefaultCommissionRepository(s.DB)
}

func (s *Store) Returns() domain.ReturnRepository {
	return NewDefaultReturnRepository(s.DB)
}

func (s *Store) Performance() domain.PerformanceRepository {
	return NewDefaultPerformanceRepository(s.DB)
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(repos domain.Repositories) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
