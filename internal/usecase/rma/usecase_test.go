package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/commission"
	rmadto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/rma"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/settlement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	buyer  = domain.Actor{ID: "buyer-1", Role: domain.RoleBuyer}
	seller = domain.Actor{ID: "seller-a", Role: domain.RoleSeller}
	admin  = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	epoch  = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

type tickingClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	uc      *DefaultReturnUsecase
	store   *memory.Store
	service *settlement.Service
	clock   *tickingClock
	pub     *memory.RecordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Commissions().CreateConfig(context.Background(), &domain.CommissionConfig{
		ID: "global-10", Scope: domain.ScopeGlobal, FeeType: domain.FeePercentage,
		PercentageRate: d(10), EffectiveFrom: epoch.Add(-time.Hour),
	}))
	clock := &tickingClock{t: epoch}
	pub := memory.NewRecordingPublisher()
	service := settlement.NewService(settlement.NewCalculator(0), commission.NewResolver(store.Commissions()), settlement.ResolveAtTransition)
	uc, err := NewDefaultReturnUsecase(store, service, pub, nil, clock.Now)
	require.NoError(t, err)
	return &fixture{uc: uc, store: store, service: service, clock: clock, pub: pub}
}

// deliveredOrder stores an order of shop A (2 x p1 at 100000, 1 x p2 at
// 50000) and shop B (1 x p3 at 40000) with finalized settlements.
func (f *fixture) deliveredOrder(t *testing.T, status domain.OrderStatus) *domain.Order {
	t.Helper()
	ctx := context.Background()
	now := f.clock.Now()
	order := &domain.Order{
		ID:      "order-" + strings.ToLower(string(status)),
		BuyerID: buyer.ID,
		Items: []domain.OrderItem{
			{ProductID: "p1", ShopID: "A", Quantity: 2, PriceAtPurchase: d(100000)},
			{ProductID: "p2", ShopID: "A", Quantity: 1, PriceAtPurchase: d(50000)},
			{ProductID: "p3", ShopID: "B", Quantity: 1, PriceAtPurchase: d(40000)},
		},
		Subtotal:    d(290000),
		ShippingFee: d(0),
		FinalAmount: d(290000),
		Status:      status,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, order.Validate())
	require.NoError(t, f.store.WithinTransaction(ctx, func(repos domain.Repositories) error {
		if err := repos.Orders().CreateOrder(ctx, order); err != nil {
			return err
		}
		if status == domain.StatusDelivered || status == domain.StatusPaid {
			_, err := f.service.Finalize(ctx, repos, order, now)
			return err
		}
		return nil
	}))
	return order
}

func createInput(orderID, shopID string, items ...rmadto.ReturnItemInput) *rmadto.CreateReturnRequestInput {
	return &rmadto.CreateReturnRequestInput{
		OrderID:             orderID,
		ShopID:              shopID,
		Actor:               buyer,
		ReasonCode:          domain.ReasonDamaged,
		ReasonDetail:        "cracked",
		RequestedResolution: domain.ResolutionRefund,
		ReturnMethod:        domain.ReturnPickup,
		Items:               items,
		Evidences:           []domain.Evidence{{URL: "https://cdn.example/1.jpg", Type: domain.EvidenceImage}},
	}
}

func item(productID string, qty int) rmadto.ReturnItemInput {
	return rmadto.ReturnItemInput{ProductID: productID, Quantity: qty}
}

func (f *fixture) move(t *testing.T, code string, to domain.ReturnStatus, actor domain.Actor) *domain.ReturnRequest {
	t.Helper()
	rr, err := f.uc.TransitionReturnStatus(context.Background(), &rmadto.TransitionReturnInput{RmaCode: code, TargetStatus: to, Actor: actor})
	require.NoError(t, err)
	return rr
}

func (f *fixture) toReturned(t *testing.T, code string) {
	t.Helper()
	f.move(t, code, domain.ReturnApproved, seller)
	f.move(t, code, domain.ReturnShipped, buyer)
	f.move(t, code, domain.ReturnReturned, seller)
}

func TestCreateReturnRequestQuantityExceeded(t *testing.T) {
	f := newFixture(t)
	order := f.deliveredOrder(t, domain.StatusDelivered)

	_, err := f.uc.CreateReturnRequest(context.Background(), createInput(order.ID, "A", item("p1", 3)))
	assert.ErrorIs(t, err, domain.ErrQuantityExceeded)
}

func TestCreateReturnRequestComputesAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.deliveredOrder(t, domain.StatusDelivered)

	input := createInput(order.ID, "A", item("p1", 1), item("p2", 1))
	input.RestockingFee = d(15000)
	code, err := f.uc.CreateReturnRequest(ctx, input)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "RMA-"))
	assert.Len(t, code, len("RMA-")+12)

	rr, err := f.uc.GetReturnRequest(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, domain.ReturnRequested, rr.Status)
	assert.True(t, rr.Amounts.Subtotal.Equal(d(150000)))
	assert.True(t, rr.Amounts.RefundTotal.Equal(d(135000)))
	require.Len(t, rr.StatusEvents, 1)
	assert.Equal(t, domain.ReturnActorUser, rr.StatusEvents[0].ActorType)
}

func TestCreateReturnRequestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.deliveredOrder(t, domain.StatusDelivered)

	t.Run("product of another shop", func(t *testing.T) {
		_, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p3", 1)))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
	t.Run("zero quantity", func(t *testing.T) {
		_, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p1", 0)))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
	t.Run("price above purchase price", func(t *testing.T) {
		price := d(100001)
		_, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", rmadto.ReturnItemInput{ProductID: "p1", Quantity: 1, UnitPrice: &price}))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
	t.Run("restocking fee above subtotal", func(t *testing.T) {
		input := createInput(order.ID, "A", item("p2", 1))
		input.RestockingFee = d(60000)
		_, err := f.uc.CreateReturnRequest(ctx, input)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
	t.Run("another buyer", func(t *testing.T) {
		input := createInput(order.ID, "A", item("p1", 1))
		input.Actor = domain.Actor{ID: "buyer-2", Role: domain.RoleBuyer}
		_, err := f.uc.CreateReturnRequest(ctx, input)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
	t.Run("unknown order", func(t *testing.T) {
		_, err := f.uc.CreateReturnRequest(ctx, createInput("missing", "A", item("p1", 1)))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCreateReturnRequestNeedsDeliveredOrder(t *testing.T) {
	f := newFixture(t)
	order := f.deliveredOrder(t, domain.StatusShipped)

	_, err := f.uc.CreateReturnRequest(context.Background(), createInput(order.ID, "A", item("p1", 1)))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReservationsAcrossRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.deliveredOrder(t, domain.StatusDelivered)

	first, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p1", 1)))
	require.NoError(t, err)
	_, err = f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p1", 1)))
	require.NoError(t, err)
	_, err = f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p1", 1)))
	assert.ErrorIs(t, err, domain.ErrQuantityExceeded)

	// отмена освобождает зарезервированные единицы
	f.move(t, first, domain.ReturnCancelled, buyer)
	_, err = f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p1", 1)))
	assert.NoError(t, err)
}

// splitLineOrder stores a delivered order where p1 of shop A was bought on
// two lines: 1 x 100000 and 1 x 50000.
func (f *fixture) splitLineOrder(t *testing.T) *domain.Order {
	t.Helper()
	ctx := context.Background()
	now := f.clock.Now()
	order := &domain.Order{
		ID:      "order-split",
		BuyerID: buyer.ID,
		Items: []domain.OrderItem{
			{ProductID: "p1", ShopID: "A", Quantity: 1, PriceAtPurchase: d(100000)},
			{ProductID: "p1", ShopID: "A", Quantity: 1, PriceAtPurchase: d(50000)},
		},
		Subtotal:    d(150000),
		ShippingFee: d(0),
		FinalAmount: d(150000),
		Status:      domain.StatusDelivered,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, order.Validate())
	require.NoError(t, f.store.WithinTransaction(ctx, func(repos domain.Repositories) error {
		if err := repos.Orders().CreateOrder(ctx, order); err != nil {
			return err
		}
		_, err := f.service.Finalize(ctx, repos, order, now)
		return err
	}))
	return order
}

func TestSplitLinesPricedFromTheirLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.splitLineOrder(t)

	code, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p1", 2)))
	require.NoError(t, err)
	rr, err := f.uc.GetReturnRequest(ctx, code)
	require.NoError(t, err)
	assert.True(t, rr.Amounts.Subtotal.Equal(d(150000)), rr.Amounts.Subtotal.String())
	assert.True(t, rr.Amounts.RefundTotal.Equal(d(150000)), rr.Amounts.RefundTotal.String())
	require.Len(t, rr.Items, 2)
	assert.True(t, rr.Items[0].UnitPrice.Equal(d(50000)))
	assert.True(t, rr.Items[1].UnitPrice.Equal(d(100000)))
}

func TestSplitLinesRefundNeverExceedsLineTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.splitLineOrder(t)

	// одна единица по цене дорогой строки
	price := d(100000)
	_, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", rmadto.ReturnItemInput{ProductID: "p1", Quantity: 1, UnitPrice: &price}))
	require.NoError(t, err)

	// вторая единица по той же цене превысила бы 150000
	_, err = f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", rmadto.ReturnItemInput{ProductID: "p1", Quantity: 1, UnitPrice: &price}))
	assert.ErrorIs(t, err, domain.ErrQuantityExceeded)

	// остаток 50000 покрывает дешевая строка
	code, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p1", 1)))
	require.NoError(t, err)
	rr, err := f.uc.GetReturnRequest(ctx, code)
	require.NoError(t, err)
	assert.True(t, rr.Amounts.Subtotal.Equal(d(50000)), rr.Amounts.Subtotal.String())

	requests, err := f.uc.ListOrderReturnRequests(ctx, order.ID)
	require.NoError(t, err)
	total := decimal.Zero
	for _, r := range requests {
		total = total.Add(r.Amounts.RefundTotal)
	}
	assert.True(t, total.LessThanOrEqual(d(150000)), total.String())
}

func TestConcurrentCreationsDoNotOverReserve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.deliveredOrder(t, domain.StatusDelivered)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p1", 1)))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	created := 0
	for err := range results {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrQuantityExceeded)
	}
	assert.Equal(t, 2, created)
}

func TestActorRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.deliveredOrder(t, domain.StatusDelivered)
	code, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p1", 1)))
	require.NoError(t, err)

	_, err = f.uc.TransitionReturnStatus(ctx, &rmadto.TransitionReturnInput{RmaCode: code, TargetStatus: domain.ReturnApproved, Actor: buyer})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f.move(t, code, domain.ReturnApproved, seller)

	_, err = f.uc.TransitionReturnStatus(ctx, &rmadto.TransitionReturnInput{RmaCode: code, TargetStatus: domain.ReturnShipped, Actor: seller})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f.move(t, code, domain.ReturnShipped, buyer)

	_, err = f.uc.TransitionReturnStatus(ctx, &rmadto.TransitionReturnInput{RmaCode: code, TargetStatus: domain.ReturnCancelled, Actor: buyer})
	assert.ErrorIs(t, err, domain.ErrForbidden, "buyer can not withdraw a shipped return")

	rr := f.move(t, code, domain.ReturnCancelled, admin)
	assert.Equal(t, domain.ReturnCancelled, rr.Status)

	_, err = f.uc.TransitionReturnStatus(ctx, &rmadto.TransitionReturnInput{RmaCode: code, TargetStatus: domain.ReturnApproved, Actor: admin})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "terminal requests are immutable")
}

func TestRefundReducesUnpaidSettlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.deliveredOrder(t, domain.StatusDelivered)

	before, err := f.store.Settlements().GetSettlement(ctx, order.ID, "A")
	require.NoError(t, err)
	// 250000 - 10%
	require.True(t, before.NetAmount.Equal(d(225000)))

	code, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p2", 1)))
	require.NoError(t, err)
	f.toReturned(t, code)
	rr := f.move(t, code, domain.ReturnRefunded, seller)
	assert.Len(t, rr.StatusEvents, 5)

	after, err := f.store.Settlements().GetSettlement(ctx, order.ID, "A")
	require.NoError(t, err)
	assert.True(t, after.RefundedAmount.Equal(d(50000)))
	assert.True(t, after.NetAmount.Equal(d(175000)))

	adjustments, err := f.store.Settlements().ListAdjustments(ctx, order.ID, "A")
	require.NoError(t, err)
	assert.Empty(t, adjustments)

	stored, err := f.store.Orders().GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, stored.Status, "partial refund keeps the order delivered")
}

func TestRefundAgainstPaidSettlementCreatesAdjustment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.deliveredOrder(t, domain.StatusDelivered)

	require.NoError(t, f.store.WithinTransaction(ctx, func(repos domain.Repositories) error {
		st, err := repos.Settlements().GetSettlementForUpdate(ctx, order.ID, "B")
		if err != nil {
			return err
		}
		paidAt := f.clock.Now()
		st.IsPaid, st.PaidAt, st.TransactionID, st.Status = true, &paidAt, "tx-1", domain.SettlementPaid
		return repos.Settlements().UpdateSettlement(ctx, st)
	}))

	code, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "B", item("p3", 1)))
	require.NoError(t, err)
	f.toReturned(t, code)
	f.move(t, code, domain.ReturnCompleted, seller)

	paid, err := f.store.Settlements().GetSettlement(ctx, order.ID, "B")
	require.NoError(t, err)
	assert.True(t, paid.NetAmount.Equal(d(36000)), "paid settlement is never mutated")
	assert.True(t, paid.RefundedAmount.IsZero())

	adjustments, err := f.store.Settlements().ListAdjustments(ctx, order.ID, "B")
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	assert.True(t, adjustments[0].Amount.Equal(d(-40000)))
	assert.Equal(t, code, adjustments[0].RmaCode)
}

func TestRefundLargerThanNetAmountSpillsIntoAdjustment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.deliveredOrder(t, domain.StatusDelivered)

	// net B = 40000 - 4000 = 36000, refund 40000
	code, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "B", item("p3", 1)))
	require.NoError(t, err)
	f.toReturned(t, code)
	f.move(t, code, domain.ReturnRefunded, admin)

	st, err := f.store.Settlements().GetSettlement(ctx, order.ID, "B")
	require.NoError(t, err)
	assert.True(t, st.NetAmount.IsZero())
	assert.True(t, st.RefundedAmount.Equal(d(40000)))

	adjustments, err := f.store.Settlements().ListAdjustments(ctx, order.ID, "B")
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	assert.True(t, adjustments[0].Amount.Equal(d(-4000)))
}

func TestFullRefundMovesOrderToRefunded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.deliveredOrder(t, domain.StatusDelivered)

	codeA, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "A", item("p1", 2), item("p2", 1)))
	require.NoError(t, err)
	codeB, err := f.uc.CreateReturnRequest(ctx, createInput(order.ID, "B", item("p3", 1)))
	require.NoError(t, err)

	f.toReturned(t, codeA)
	f.move(t, codeA, domain.ReturnRefunded, seller)
	stored, err := f.store.Orders().GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, stored.Status)

	f.toReturned(t, codeB)
	f.move(t, codeB, domain.ReturnRefunded, seller)
	stored, err = f.store.Orders().GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, stored.Status)

	history, err := f.store.Orders().GetStatusHistory(ctx, order.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, domain.StatusRefunded, history[len(history)-1].To)
	assert.NotEmpty(t, f.pub.ByTopic(domain.TopicOrderEvents))
}

func TestRefundedRequiresRefundResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.deliveredOrder(t, domain.StatusDelivered)

	input := createInput(order.ID, "A", item("p1", 1))
	input.RequestedResolution = domain.ResolutionReplace
	code, err := f.uc.CreateReturnRequest(ctx, input)
	require.NoError(t, err)
	f.toReturned(t, code)

	_, err = f.uc.TransitionReturnStatus(ctx, &rmadto.TransitionReturnInput{RmaCode: code, TargetStatus: domain.ReturnRefunded, Actor: seller})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	f.move(t, code, domain.ReturnCompleted, seller)
	st, err := f.store.Settlements().GetSettlement(ctx, order.ID, "A")
	require.NoError(t, err)
	assert.True(t, st.RefundedAmount.IsZero(), "replacement does not move money")
}
