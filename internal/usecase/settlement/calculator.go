package settlement

import (
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ResolvedRate is the commission rule a shop is charged with for one order.
type ResolvedRate struct {
	ConfigID string
	FeeType  domain.FeeType
	// Rate is a percentage for PERCENTAGE and an absolute amount for FIXED.
	Rate decimal.Decimal
}

func RateFromConfig(cfg *domain.CommissionConfig) ResolvedRate {
	return ResolvedRate{
		ConfigID: cfg.ID,
		FeeType:  cfg.FeeType,
		Rate:     cfg.Rate(),
	}
}

// ShopShare is the calculated monetary obligation of one shop.
type ShopShare struct {
	ShopID      string
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Rate        ResolvedRate
	PlatformFee decimal.Decimal
	NetAmount   decimal.Decimal
}

// Calculator splits an order into per-shop shares. It is pure: the same
// order and rates always give the same result.
type Calculator struct {
	scale int32
}

// NewCalculator rounds money to scale decimal places (0 for VND).
func NewCalculator(scale int32) *Calculator {
	return &Calculator{scale: scale}
}

func (c *Calculator) Scale() int32 {
	return c.scale
}

// ShopSubtotals groups line totals by shop.
func ShopSubtotals(order *domain.Order) map[string]decimal.Decimal {
	subtotals := make(map[string]decimal.Decimal)
	for _, item := range order.Items {
		subtotals[item.ShopID] = subtotals[item.ShopID].Add(item.LineTotal())
	}
	return subtotals
}

// Calculate returns one share per shop, ordered by shop id.
func (c *Calculator) Calculate(order *domain.Order, rates map[string]ResolvedRate) ([]ShopShare, error) {
	if len(order.Items) == 0 {
		return nil, domain.Validationf("order %s has no items", order.ID)
	}
	subtotals := ShopSubtotals(order)
	shopIDs := order.ShopIDs()

	total := decimal.Zero
	for _, id := range shopIDs {
		total = total.Add(subtotals[id])
	}

	shipping := c.AllocateShipping(shopIDs, subtotals, total, order.ShippingFee)

	shares := make([]ShopShare, 0, len(shopIDs))
	for i, id := range shopIDs {
		rate, ok := rates[id]
		if !ok {
			return nil, fmt.Errorf("commission for shop %s: %w", id, domain.ErrNotFound)
		}
		sub := subtotals[id]
		fee, err := c.PlatformFee(sub, shipping[i], rate)
		if err != nil {
			return nil, fmt.Errorf("shop %s: %w", id, err)
		}
		shares = append(shares, ShopShare{
			ShopID:      id,
			Subtotal:    sub,
			ShippingFee: shipping[i],
			Rate:        rate,
			PlatformFee: fee,
			NetAmount:   sub.Add(shipping[i]).Sub(fee),
		})
	}
	return shares, nil
}

// AllocateShipping splits fee proportionally to subtotals. Shares are
// rounded in shopIDs order and the last shop takes the residual, so the
// result always sums to fee exactly. A negative residual is taken back from
// the preceding shops.
func (c *Calculator) AllocateShipping(shopIDs []string, subtotals map[string]decimal.Decimal, total, fee decimal.Decimal) []decimal.Decimal {
	n := len(shopIDs)
	shares := make([]decimal.Decimal, n)
	if n == 0 {
		return shares
	}

	allocated := decimal.Zero
	if total.IsPositive() {
		for i := 0; i < n-1; i++ {
			share := subtotals[shopIDs[i]].Mul(fee).Div(total).Round(c.scale)
			shares[i] = share
			allocated = allocated.Add(share)
		}
	}

	last := fee.Sub(allocated)
	if last.IsNegative() {
		deficit := last.Neg()
		last = decimal.Zero
		for i := n - 2; i >= 0 && deficit.IsPositive(); i-- {
			take := decimal.Min(deficit, shares[i])
			shares[i] = shares[i].Sub(take)
			deficit = deficit.Sub(take)
		}
	}
	shares[n-1] = last
	return shares
}

// PlatformFee is never larger than what the shop is owed.
func (c *Calculator) PlatformFee(subtotal, shipping decimal.Decimal, rate ResolvedRate) (decimal.Decimal, error) {
	if err := domain.ValidateRate(rate.FeeType, rate.Rate); err != nil {
		return decimal.Zero, err
	}
	var fee decimal.Decimal
	switch rate.FeeType {
	case domain.FeePercentage:
		fee = subtotal.Mul(rate.Rate).Div(hundred).Round(c.scale)
	case domain.FeeFixed:
		fee = rate.Rate
	}
	if limit := subtotal.Add(shipping); fee.GreaterThan(limit) {
		fee = limit
	}
	return fee, nil
}
