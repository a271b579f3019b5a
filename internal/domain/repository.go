package domain

import (
	"context"
	"time"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	// GetOrderForUpdate locks the order row until the transaction ends.
	GetOrderForUpdate(ctx context.Context, orderID string) (*Order, error)
	// UpdateOrderStatus persists status/cancellation fields if the stored
	// version equals expectedVersion, then bumps order.Version.
	UpdateOrderStatus(ctx context.Context, order *Order, expectedVersion int64) error
	AppendStatusChange(ctx context.Context, change *OrderStatusChange) error
	GetStatusHistory(ctx context.Context, orderID string) ([]*OrderStatusChange, error)
}

type SettlementRepository interface {
	// CreateSettlementIfAbsent inserts unless (OrderID, ShopID) already exists.
	CreateSettlementIfAbsent(ctx context.Context, settlement *ShopSettlement) (bool, error)
	GetSettlement(ctx context.Context, orderID, shopID string) (*ShopSettlement, error)
	GetSettlementForUpdate(ctx context.Context, orderID, shopID string) (*ShopSettlement, error)
	ListSettlementsByOrder(ctx context.Context, orderID string) ([]*ShopSettlement, error)
	// UpdateSettlement rewrites an unpaid settlement; paid rows are immutable.
	UpdateSettlement(ctx context.Context, settlement *ShopSettlement) error
	CreateAdjustmentIfAbsent(ctx context.Context, adjustment *SettlementAdjustment) (bool, error)
	ListAdjustments(ctx context.Context, orderID, shopID string) ([]*SettlementAdjustment, error)
	AggregateShopMetrics(ctx context.Context, from, to time.Time) ([]*ShopMetrics, error)
	// ListShopIDs returns shops with any settlement created before the instant.
	ListShopIDs(ctx context.Context, before time.Time) ([]string, error)
}

type CommissionRepository interface {
	GetActiveShopConfig(ctx context.Context, shopID string, at time.Time) (*CommissionConfig, error)
	GetActiveGlobalConfig(ctx context.Context, at time.Time) (*CommissionConfig, error)
	// Open configs have no EffectiveTo. The *ForUpdate variants lock the rows.
	GetOpenShopConfigForUpdate(ctx context.Context, shopID string) (*CommissionConfig, error)
	GetOpenGlobalConfigForUpdate(ctx context.Context) (*CommissionConfig, error)
	ListOpenShopConfigsForUpdate(ctx context.Context) ([]*CommissionConfig, error)
	CloseConfig(ctx context.Context, configID string, at time.Time) error
	CreateConfig(ctx context.Context, config *CommissionConfig) error
	AppendHistory(ctx context.Context, entry *CommissionHistoryEntry) error
	ListHistory(ctx context.Context, filter CommissionHistoryFilter) ([]*CommissionHistoryEntry, int64, error)
}

type ReturnRepository interface {
	CreateReturnRequest(ctx context.Context, request *ReturnRequest) error
	GetReturnRequest(ctx context.Context, rmaCode string) (*ReturnRequest, error)
	ListReturnRequestsByOrder(ctx context.Context, orderID string) ([]*ReturnRequest, error)
	// UpdateReturnStatus is a compare-and-swap on Version that also appends event.
	UpdateReturnStatus(ctx context.Context, request *ReturnRequest, expectedVersion int64, event ReturnStatusEvent) error
}

type PerformanceRepository interface {
	SaveSnapshots(ctx context.Context, snapshots []*SellerPerformanceSnapshot) error
	ListShopSnapshots(ctx context.Context, shopID string, limit int) ([]*SellerPerformanceSnapshot, error)
}

type Repositories interface {
	Orders() OrderRepository
	Settlements() SettlementRepository
	Commissions() CommissionRepository
	Returns() ReturnRepository
	Performance() PerformanceRepository
}

// Store runs fn in one all-or-nothing transaction. Repositories handed to fn
// are bound to that transaction.
type Store interface {
	Repositories
	WithinTransaction(ctx context.Context, fn func(repos Repositories) error) error
}

// Locker provides mutual exclusion scoped by key across service instances.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
