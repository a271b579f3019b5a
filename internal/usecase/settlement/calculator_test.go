package settlement

import (
	"fmt"
	"testing"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func percent(id string, rate int64) ResolvedRate {
	return ResolvedRate{ConfigID: id, FeeType: domain.FeePercentage, Rate: d(rate)}
}

// orderOf builds an order with one item per subtotal, shop ids sorted by index.
func orderOf(subtotals []int64, shipping int64) *domain.Order {
	order := &domain.Order{ID: "order-1", ShippingFee: d(shipping), Subtotal: decimal.Zero}
	for i, sub := range subtotals {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:       fmt.Sprintf("p-%03d", i),
			ShopID:          fmt.Sprintf("shop-%03d", i),
			Quantity:        1,
			PriceAtPurchase: d(sub),
		})
		order.Subtotal = order.Subtotal.Add(d(sub))
	}
	return order
}

func TestCalculateWorkedExample(t *testing.T) {
	order := &domain.Order{
		ID: "order-vnd",
		Items: []domain.OrderItem{
			{ProductID: "a1", ShopID: "A", Quantity: 2, PriceAtPurchase: d(250000)},
			{ProductID: "a2", ShopID: "A", Quantity: 1, PriceAtPurchase: d(200000)},
			{ProductID: "b1", ShopID: "B", Quantity: 1, PriceAtPurchase: d(300000)},
		},
		Subtotal:    d(1000000),
		ShippingFee: d(30000),
	}
	rates := map[string]ResolvedRate{
		"A": percent("custom-a", 4),
		"B": percent("global", 5),
	}

	shares, err := NewCalculator(0).Calculate(order, rates)
	require.NoError(t, err)
	require.Len(t, shares, 2)

	a, b := shares[0], shares[1]
	assert.Equal(t, "A", a.ShopID)
	assert.True(t, a.Subtotal.Equal(d(700000)))
	assert.True(t, a.ShippingFee.Equal(d(21000)), a.ShippingFee.String())
	assert.True(t, a.PlatformFee.Equal(d(28000)), a.PlatformFee.String())
	assert.True(t, a.NetAmount.Equal(d(693000)), a.NetAmount.String())
	assert.Equal(t, "custom-a", a.Rate.ConfigID)

	assert.Equal(t, "B", b.ShopID)
	assert.True(t, b.ShippingFee.Equal(d(9000)), b.ShippingFee.String())
	assert.True(t, b.PlatformFee.Equal(d(15000)), b.PlatformFee.String())
	assert.True(t, b.NetAmount.Equal(d(294000)), b.NetAmount.String())
}

func TestCalculateIsDeterministic(t *testing.T) {
	order := orderOf([]int64{333333, 333333, 333334}, 10000)
	rates := map[string]ResolvedRate{
		"shop-000": percent("g", 5), "shop-001": percent("g", 5), "shop-002": percent("g", 5),
	}
	calc := NewCalculator(0)
	first, err := calc.Calculate(order, rates)
	require.NoError(t, err)
	second, err := calc.Calculate(order, rates)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAllocateShippingResidualGoesToLastShop(t *testing.T) {
	// 10000 / 3 does not divide evenly
	order := orderOf([]int64{100, 100, 100}, 10000)
	calc := NewCalculator(0)
	shares := calc.AllocateShipping(order.ShopIDs(), ShopSubtotals(order), order.Subtotal, order.ShippingFee)

	assert.True(t, shares[0].Equal(d(3333)))
	assert.True(t, shares[1].Equal(d(3333)))
	assert.True(t, shares[2].Equal(d(3334)))
}

func TestAllocateShippingNegativeResidual(t *testing.T) {
	// each of the first three rounds 0.5 up to 1, the last shop would get -1
	order := orderOf([]int64{1, 1, 1, 1}, 2)
	calc := NewCalculator(0)
	shares := calc.AllocateShipping(order.ShopIDs(), ShopSubtotals(order), order.Subtotal, order.ShippingFee)

	sum := decimal.Zero
	for _, s := range shares {
		assert.False(t, s.IsNegative(), s.String())
		sum = sum.Add(s)
	}
	assert.True(t, sum.Equal(d(2)), sum.String())
}

func TestAllocateShippingZeroSubtotal(t *testing.T) {
	order := orderOf([]int64{0, 0}, 15000)
	calc := NewCalculator(0)
	shares := calc.AllocateShipping(order.ShopIDs(), ShopSubtotals(order), order.Subtotal, order.ShippingFee)

	assert.True(t, shares[0].IsZero())
	assert.True(t, shares[1].Equal(d(15000)))
}

func TestPlatformFee(t *testing.T) {
	calc := NewCalculator(0)

	t.Run("fixed fee", func(t *testing.T) {
		fee, err := calc.PlatformFee(d(100000), d(5000), ResolvedRate{FeeType: domain.FeeFixed, Rate: d(12000)})
		require.NoError(t, err)
		assert.True(t, fee.Equal(d(12000)))
	})

	t.Run("fixed fee capped at payable", func(t *testing.T) {
		fee, err := calc.PlatformFee(d(1000), d(500), ResolvedRate{FeeType: domain.FeeFixed, Rate: d(12000)})
		require.NoError(t, err)
		assert.True(t, fee.Equal(d(1500)))
	})

	t.Run("percentage rounded to scale", func(t *testing.T) {
		fee, err := NewCalculator(2).PlatformFee(decimal.RequireFromString("10.10"), decimal.Zero, ResolvedRate{FeeType: domain.FeePercentage, Rate: decimal.RequireFromString("2.5")})
		require.NoError(t, err)
		assert.Equal(t, "0.25", fee.StringFixed(2))
	})

	t.Run("out of range rate", func(t *testing.T) {
		_, err := calc.PlatformFee(d(1000), d(0), percent("bad", 101))
		assert.ErrorIs(t, err, domain.ErrOutOfRange)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestCalculateMissingRate(t *testing.T) {
	order := orderOf([]int64{100, 200}, 0)
	_, err := NewCalculator(0).Calculate(order, map[string]ResolvedRate{"shop-000": percent("g", 5)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalculatorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	parameters.MaxSize = 20
	properties := gopter.NewProperties(parameters)

	subtotalsGen := gen.SliceOf(gen.Int64Range(0, 50_000_000)).SuchThat(func(v []int64) bool {
		return len(v) > 0
	})

	properties.Property("shipping shares sum to the order shipping fee", prop.ForAll(
		func(subtotals []int64, shipping int64) bool {
			order := orderOf(subtotals, shipping)
			shares := NewCalculator(0).AllocateShipping(order.ShopIDs(), ShopSubtotals(order), order.Subtotal, order.ShippingFee)
			sum := decimal.Zero
			for _, s := range shares {
				if s.IsNegative() {
					return false
				}
				sum = sum.Add(s)
			}
			return sum.Equal(order.ShippingFee)
		},
		subtotalsGen,
		gen.Int64Range(0, 5_000_000),
	))

	properties.Property("shop subtotals sum to the order subtotal", prop.ForAll(
		func(subtotals []int64) bool {
			order := orderOf(subtotals, 0)
			sum := decimal.Zero
			for _, s := range ShopSubtotals(order) {
				sum = sum.Add(s)
			}
			return sum.Equal(order.Subtotal)
		},
		subtotalsGen,
	))

	properties.Property("net amount is never negative and balances", prop.ForAll(
		func(subtotals []int64, shipping int64, rate int64, fixed bool) bool {
			order := orderOf(subtotals, shipping)
			resolved := percent("g", rate%101)
			if fixed {
				resolved = ResolvedRate{ConfigID: "g", FeeType: domain.FeeFixed, Rate: d(rate * 1000)}
			}
			rates := make(map[string]ResolvedRate)
			for _, id := range order.ShopIDs() {
				rates[id] = resolved
			}
			shares, err := NewCalculator(0).Calculate(order, rates)
			if err != nil {
				return false
			}
			for _, s := range shares {
				if s.NetAmount.IsNegative() {
					return false
				}
				if !s.Subtotal.Add(s.ShippingFee).Sub(s.PlatformFee).Equal(s.NetAmount) {
					return false
				}
			}
			return true
		},
		subtotalsGen,
		gen.Int64Range(0, 5_000_000),
		gen.Int64Range(0, 1000),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
