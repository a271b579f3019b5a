package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTransitionTable(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		StatusPending:    {StatusConfirmed, StatusProcessing, StatusCancelled},
		StatusConfirmed:  {StatusProcessing, StatusShipped, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered},
		StatusDelivered:  {StatusPaid, StatusRefunded},
	}
	for _, from := range OrderStatuses() {
		for _, to := range OrderStatuses() {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)

			err := ValidateOrderTransition(from, to)
			if want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		}
	}
}

func TestOrderTerminalStates(t *testing.T) {
	for _, s := range []OrderStatus{StatusPaid, StatusCancelled, StatusRefunded} {
		assert.True(t, s.IsTerminal(), s)
		assert.Empty(t, s.Successors(), s)
	}
	assert.False(t, StatusDelivered.IsTerminal())
	assert.False(t, OrderStatus("LOST").IsTerminal())
}

// Граф переходов ацикличен: из любого состояния заказ доходит до терминального.
func TestOrderTransitionsAreAcyclic(t *testing.T) {
	var visit func(s OrderStatus, path map[OrderStatus]bool)
	visit = func(s OrderStatus, path map[OrderStatus]bool) {
		assert.False(t, path[s], "cycle through %s", s)
		if path[s] {
			return
		}
		path[s] = true
		for _, next := range s.Successors() {
			visit(next, path)
		}
		delete(path, s)
	}
	visit(StatusPending, map[OrderStatus]bool{})
}

func TestSettlementTriggers(t *testing.T) {
	assert.True(t, StatusConfirmed.TriggersSettlement())
	assert.True(t, StatusDelivered.TriggersSettlement())
	assert.False(t, StatusShipped.TriggersSettlement())
}

func validOrder() *Order {
	return &Order{
		BuyerID: "buyer",
		Items: []OrderItem{
			{ProductID: "p1", ShopID: "s2", Quantity: 2, PriceAtPurchase: decimal.NewFromInt(100)},
			{ProductID: "p2", ShopID: "s1", Quantity: 1, PriceAtPurchase: decimal.NewFromInt(50)},
			{ProductID: "p1", ShopID: "s2", Quantity: 1, PriceAtPurchase: decimal.NewFromInt(120)},
		},
		Subtotal:    decimal.NewFromInt(370),
		ShippingFee: decimal.NewFromInt(30),
		Discount:    decimal.NewFromInt(20),
		FinalAmount: decimal.NewFromInt(380),
	}
}

func TestOrderValidate(t *testing.T) {
	assert.NoError(t, validOrder().Validate())

	tests := []struct {
		name   string
		mutate func(o *Order)
	}{
		{"missing buyer", func(o *Order) { o.BuyerID = " " }},
		{"no items", func(o *Order) { o.Items = nil }},
		{"negative quantity", func(o *Order) { o.Items[0].Quantity = -1 }},
		{"subtotal mismatch", func(o *Order) { o.Subtotal = decimal.NewFromInt(371) }},
		{"final amount mismatch", func(o *Order) { o.FinalAmount = decimal.NewFromInt(400) }},
		{"negative shipping", func(o *Order) { o.ShippingFee = decimal.NewFromInt(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder()
			tt.mutate(o)
			assert.ErrorIs(t, o.Validate(), ErrValidation)
		})
	}
}

func TestOrderShopHelpers(t *testing.T) {
	o := validOrder()
	assert.Equal(t, []string{"s1", "s2"}, o.ShopIDs())
	assert.True(t, o.HasShop("s1"))
	assert.False(t, o.HasShop("s3"))
	assert.Equal(t, 4, o.TotalUnits())

	units := o.PurchasedUnits("s2")
	assert.Equal(t, 3, units["p1"].Quantity)
	assert.True(t, units["p1"].MaxUnitPrice.Equal(decimal.NewFromInt(120)))
	assert.True(t, units["p1"].LineTotal.Equal(decimal.NewFromInt(320)))
	assert.NotContains(t, units, "p2")
}

func TestPriceUnitsCheapestLineFirst(t *testing.T) {
	o := validOrder()
	o.Items = append(o.Items, OrderItem{ProductID: "p1", ShopID: "s2", Quantity: 1, PriceAtPurchase: decimal.NewFromInt(100)})
	unit := o.PurchasedUnits("s2")["p1"]
	require.Len(t, unit.Lines, 3)

	items := unit.PriceUnits("p1", 0, 4)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, items[1].Quantity)
	assert.True(t, items[1].UnitPrice.Equal(decimal.NewFromInt(120)))

	items = unit.PriceUnits("p1", 3, 1)
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(120)))

	assert.Empty(t, unit.PriceUnits("p1", 4, 1))
}

func TestReturnTransitionTable(t *testing.T) {
	assert.NoError(t, ValidateReturnTransition(ReturnRequested, ReturnApproved))
	assert.NoError(t, ValidateReturnTransition(ReturnReturned, ReturnRefunded))
	assert.ErrorIs(t, ValidateReturnTransition(ReturnRequested, ReturnShipped), ErrInvalidTransition)
	assert.ErrorIs(t, ValidateReturnTransition(ReturnApproved, ReturnRefunded), ErrInvalidTransition)

	for _, s := range []ReturnStatus{ReturnRejected, ReturnRefunded, ReturnCompleted, ReturnCancelled} {
		assert.True(t, s.IsTerminal(), s)
		for _, to := range ReturnStatuses() {
			assert.False(t, s.CanTransitionTo(to), "%s -> %s", s, to)
		}
	}
}

func TestReturnRequestAmounts(t *testing.T) {
	rr := &ReturnRequest{
		Items: []ReturnItem{
			{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
			{ProductID: "p2", Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		},
		Amounts:             ReturnAmounts{RestockingFee: decimal.NewFromInt(25)},
		RequestedResolution: ResolutionRefund,
	}
	rr.ComputeAmounts()
	assert.True(t, rr.Amounts.Subtotal.Equal(decimal.NewFromInt(250)))
	assert.True(t, rr.Amounts.RefundTotal.Equal(decimal.NewFromInt(225)))

	assert.True(t, rr.RefundsMoney(ReturnRefunded))
	assert.True(t, rr.RefundsMoney(ReturnCompleted))
	rr.RequestedResolution = ResolutionRepair
	assert.False(t, rr.RefundsMoney(ReturnCompleted))
}

func TestReservedUnitsIgnoresReleasedRequests(t *testing.T) {
	requests := []*ReturnRequest{
		{ShopID: "s1", Status: ReturnRequested, Items: []ReturnItem{{ProductID: "p1", Quantity: 1}}},
		{ShopID: "s1", Status: ReturnRejected, Items: []ReturnItem{{ProductID: "p1", Quantity: 5}}},
		{ShopID: "s1", Status: ReturnCancelled, Items: []ReturnItem{{ProductID: "p1", Quantity: 5}}},
		{ShopID: "s1", Status: ReturnRefunded, Items: []ReturnItem{{ProductID: "p1", Quantity: 2}}},
		{ShopID: "s2", Status: ReturnRequested, Items: []ReturnItem{{ProductID: "p1", Quantity: 7}}},
	}
	assert.Equal(t, map[string]int{"p1": 3}, ReservedUnits(requests, "s1"))

	requests[0].Items[0].UnitPrice = decimal.NewFromInt(40)
	requests[3].Items[0].UnitPrice = decimal.NewFromInt(30)
	assert.True(t, ReservedValue(requests, "s1")["p1"].Equal(decimal.NewFromInt(100)))
}

func TestValidateRate(t *testing.T) {
	assert.NoError(t, ValidateRate(FeePercentage, decimal.Zero))
	assert.NoError(t, ValidateRate(FeePercentage, decimal.NewFromInt(100)))
	assert.ErrorIs(t, ValidateRate(FeePercentage, decimal.RequireFromString("100.01")), ErrOutOfRange)
	assert.ErrorIs(t, ValidateRate(FeeFixed, decimal.NewFromInt(-5)), ErrOutOfRange)
	assert.NoError(t, ValidateRate(FeeFixed, decimal.NewFromInt(5000)))
	assert.ErrorIs(t, ValidateRate("TIERED", decimal.NewFromInt(1)), ErrValidation)
}
