package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusPaid       OrderStatus = "PAID"
	StatusCancelled  OrderStatus = "CANCELLED"
	StatusRefunded   OrderStatus = "REFUNDED"
)

// orderTransitions - единственная таблица допустимых переходов заказа.
// REFUNDED достижим только через RMA, см. OrderStatus.CanTransitionTo.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusProcessing, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusShipped, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusPaid, StatusRefunded},
	StatusPaid:       {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether target is a legal successor of s.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Successors returns a copy of the legal successor set.
func (s OrderStatus) Successors() []OrderStatus {
	return append([]OrderStatus(nil), orderTransitions[s]...)
}

// TriggersSettlement reports whether reaching s materializes shop settlements.
func (s OrderStatus) TriggersSettlement() bool {
	return s == StatusConfirmed || s == StatusDelivered
}

func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusPaid, StatusCancelled, StatusRefunded,
	}
}

type PaymentInfo struct {
	Method        string
	Status        string
	TransactionID string
	PaidAt        *time.Time
}

type Address struct {
	RecipientName string
	Phone         string
	Street        string
	Ward          string
	District      string
	City          string
	Country       string
}

type OrderItem struct {
	ProductID       string
	ShopID          string
	ProductName     string
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderStatusChange struct {
	ID        string
	OrderID   string
	From      OrderStatus
	To        OrderStatus
	ActorID   string
	ActorRole ActorRole
	Reason    string
	At        time.Time
}

type Order struct {
	ID                 string
	BuyerID            string
	Items              []OrderItem
	ShippingAddress    Address
	Payment            PaymentInfo
	Subtotal           decimal.Decimal
	ShippingFee        decimal.Decimal
	Discount           decimal.Decimal
	FinalAmount        decimal.Decimal
	Status             OrderStatus
	CancellationReason string
	CancelledBy        ActorRole
	CancelledAt        *time.Time
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
	StatusHistory      []*OrderStatusChange
}

// Validate checks the invariants fixed at placement time.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.BuyerID) == "" {
		return Validationf("buyer id is required")
	}
	if len(o.Items) == 0 {
		return Validationf("order has no items")
	}
	if o.ShippingFee.IsNegative() {
		return Validationf("shipping fee must not be negative")
	}
	if o.Discount.IsNegative() {
		return Validationf("discount must not be negative")
	}

	sum := decimal.Zero
	for i, item := range o.Items {
		if item.ProductID == "" || item.ShopID == "" {
			return Validationf("item %d: product id and shop id are required", i)
		}
		if item.Quantity <= 0 {
			return Validationf("item %d: quantity must be positive, got %d", i, item.Quantity)
		}
		if item.PriceAtPurchase.IsNegative() {
			return Validationf("item %d: price must not be negative", i)
		}
		sum = sum.Add(item.LineTotal())
	}
	if !sum.Equal(o.Subtotal) {
		return Validationf("subtotal %s does not match items total %s", o.Subtotal, sum)
	}
	expected := o.Subtotal.Add(o.ShippingFee).Sub(o.Discount)
	if !expected.Equal(o.FinalAmount) {
		return Validationf("final amount %s must equal subtotal + shipping - discount (%s)", o.FinalAmount, expected)
	}
	if expected.IsNegative() {
		return Validationf("discount exceeds order total")
	}
	return nil
}

// ShopIDs returns distinct shop ids in stable (sorted) order.
func (o *Order) ShopIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, item := range o.Items {
		if _, ok := seen[item.ShopID]; ok {
			continue
		}
		seen[item.ShopID] = struct{}{}
		ids = append(ids, item.ShopID)
	}
	sort.Strings(ids)
	return ids
}

func (o *Order) HasShop(shopID string) bool {
	for _, item := range o.Items {
		if item.ShopID == shopID {
			return true
		}
	}
	return false
}

// PurchasedUnits aggregates the lines of a single shop per product. A product
// may appear on several lines at different prices.
func (o *Order) PurchasedUnits(shopID string) map[string]PurchasedUnit {
	units := make(map[string]PurchasedUnit)
	for _, item := range o.Items {
		if item.ShopID != shopID {
			continue
		}
		u := units[item.ProductID]
		u.Quantity += item.Quantity
		u.LineTotal = u.LineTotal.Add(item.LineTotal())
		if item.PriceAtPurchase.GreaterThan(u.MaxUnitPrice) {
			u.MaxUnitPrice = item.PriceAtPurchase
		}
		u.Lines = append(u.Lines, PurchasedLine{Quantity: item.Quantity, UnitPrice: item.PriceAtPurchase})
		units[item.ProductID] = u
	}
	for productID, u := range units {
		sort.SliceStable(u.Lines, func(i, j int) bool { return u.Lines[i].UnitPrice.LessThan(u.Lines[j].UnitPrice) })
		units[productID] = u
	}
	return units
}

func (o *Order) TotalUnits() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

type PurchasedLine struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

type PurchasedUnit struct {
	Quantity     int
	MaxUnitPrice decimal.Decimal
	LineTotal    decimal.Decimal
	Lines        []PurchasedLine // cheapest first
}

// PriceUnits prices quantity units taken cheapest line first, after skipping
// units already claimed by other returns. Units of one price form one item.
func (u PurchasedUnit) PriceUnits(productID string, skip, quantity int) []ReturnItem {
	var out []ReturnItem
	for _, line := range u.Lines {
		if quantity <= 0 {
			break
		}
		avail := line.Quantity
		if skip >= avail {
			skip -= avail
			continue
		}
		avail -= skip
		skip = 0
		take := min(avail, quantity)
		quantity -= take
		if n := len(out); n > 0 && out[n-1].UnitPrice.Equal(line.UnitPrice) {
			out[n-1].Quantity += take
			continue
		}
		out = append(out, ReturnItem{ProductID: productID, Quantity: take, UnitPrice: line.UnitPrice})
	}
	return out
}

// ValidateOrderTransition is the single centralized transition check.
func ValidateOrderTransition(from, to OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
