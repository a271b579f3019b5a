package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	rmadto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/rma"
	"github.com/shopspring/decimal"
)

func validateCreateInput(input *rmadto.CreateReturnRequestInput) error {
	if err := input.Actor.Validate(); err != nil {
		return err
	}
	if input.Actor.Role != domain.RoleBuyer && input.Actor.Role != domain.RoleAdmin {
		return fmt.Errorf("create return request as %s: %w", input.Actor.Role, domain.ErrForbidden)
	}
	if strings.TrimSpace(input.OrderID) == "" || strings.TrimSpace(input.ShopID) == "" {
		return domain.Validationf("order id and shop id are required")
	}
	if !input.ReasonCode.Valid() {
		return domain.Validationf("unknown reason code %q", input.ReasonCode)
	}
	if !input.RequestedResolution.Valid() {
		return domain.Validationf("unknown resolution %q", input.RequestedResolution)
	}
	if !input.ReturnMethod.Valid() {
		return domain.Validationf("unknown return method %q", input.ReturnMethod)
	}
	if len(input.Items) == 0 {
		return domain.Validationf("return request has no items")
	}
	for i, item := range input.Items {
		if item.ProductID == "" {
			return domain.Validationf("item %d: product id is required", i)
		}
		if item.Quantity <= 0 {
			return domain.Validationf("item %d: quantity must be positive, got %d", i, item.Quantity)
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return domain.Validationf("item %d: unit price must not be negative", i)
		}
	}
	for i, ev := range input.Evidences {
		if strings.TrimSpace(ev.URL) == "" || !ev.Type.Valid() {
			return domain.Validationf("evidence %d: url and type IMAGE|VIDEO are required", i)
		}
	}
	if input.ShippingFee.IsNegative() || input.RestockingFee.IsNegative() {
		return domain.Validationf("fees must not be negative")
	}
	return nil
}

// CreateReturnRequest opens an RMA for items of one shop of a delivered
// order. The order row stays locked while reserved quantities are checked
// and the request is stored.
func (uc *DefaultReturnUsecase) CreateReturnRequest(ctx context.Context, input *rmadto.CreateReturnRequestInput) (string, error) {
	if err := validateCreateInput(input); err != nil {
		return "", err
	}

	done := uc.metrics.Track("create_return_request")
	var request *domain.ReturnRequest
	err := uc.store.WithinTransaction(ctx, func(repos domain.Repositories) error {
		order, err := repos.Orders().GetOrderForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order.Status != domain.StatusDelivered && order.Status != domain.StatusPaid {
			return fmt.Errorf("%w: order %s is %s, returns need a delivered order", domain.ErrInvalidTransition, order.ID, order.Status)
		}
		if input.Actor.Role == domain.RoleBuyer && input.Actor.ID != order.BuyerID {
			return fmt.Errorf("order %s belongs to another buyer: %w", order.ID, domain.ErrForbidden)
		}
		if !order.HasShop(input.ShopID) {
			return domain.Validationf("order %s has no items from shop %s", order.ID, input.ShopID)
		}

		existing, err := repos.Returns().ListReturnRequestsByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		items, err := reserveItems(order.PurchasedUnits(input.ShopID), existing, input.ShopID, input.Items)
		if err != nil {
			return err
		}

		now := uc.now()
		request = &domain.ReturnRequest{
			RmaCode:             uc.newCode(),
			OrderID:             order.ID,
			BuyerID:             order.BuyerID,
			ShopID:              input.ShopID,
			ReasonCode:          input.ReasonCode,
			ReasonDetail:        input.ReasonDetail,
			RequestedResolution: input.RequestedResolution,
			ReturnMethod:        input.ReturnMethod,
			Items:               items,
			Evidences:           input.Evidences,
			Amounts: domain.ReturnAmounts{
				ShippingFee:   input.ShippingFee,
				RestockingFee: input.RestockingFee,
			},
			Status: domain.ReturnRequested,
			StatusEvents: []domain.ReturnStatusEvent{{
				Status:    domain.ReturnRequested,
				At:        now,
				By:        input.Actor.ID,
				ActorType: domain.ReturnActorTypeOf(input.Actor.Role),
				Note:      input.ReasonDetail,
			}},
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		request.ComputeAmounts()
		if request.Amounts.RestockingFee.GreaterThan(request.Amounts.Subtotal) {
			return domain.Validationf("restocking fee %s exceeds returned subtotal %s", request.Amounts.RestockingFee, request.Amounts.Subtotal)
		}
		return repos.Returns().CreateReturnRequest(ctx, request)
	})
	done(err)
	if err != nil {
		return "", err
	}

	slog.Info("return request created", "rma_code", request.RmaCode, "order_id", request.OrderID, "shop_id", request.ShopID, "refund_total", request.Amounts.RefundTotal.String())
	uc.metrics.ObserveReturnTransition(string(domain.ReturnRequested))
	uc.publish(ctx, domain.ReturnStatusChangedEvent{
		RmaCode:     request.RmaCode,
		OrderID:     request.OrderID,
		ShopID:      request.ShopID,
		To:          domain.ReturnRequested,
		RefundTotal: request.Amounts.RefundTotal,
		ActorID:     input.Actor.ID,
		At:          request.CreatedAt,
	})
	return request.RmaCode, nil
}

// reserveItems checks requested quantities and their value against what is
// still returnable and fills in unit prices. Without an explicit price units
// are priced from their order lines, cheapest line first.
func reserveItems(purchased map[string]domain.PurchasedUnit, existing []*domain.ReturnRequest, shopID string, items []rmadto.ReturnItemInput) ([]domain.ReturnItem, error) {
	claimedUnits := domain.ReservedUnits(existing, shopID)
	claimedValue := domain.ReservedValue(existing, shopID)
	out := make([]domain.ReturnItem, 0, len(items))
	for _, item := range items {
		unit, ok := purchased[item.ProductID]
		if !ok {
			return nil, domain.Validationf("product %s was not purchased from this shop", item.ProductID)
		}
		if left := unit.Quantity - claimedUnits[item.ProductID]; item.Quantity > left {
			return nil, fmt.Errorf("product %s: requested %d, returnable %d of %d: %w",
				item.ProductID, item.Quantity, max(left, 0), unit.Quantity, domain.ErrQuantityExceeded)
		}

		var priced []domain.ReturnItem
		if item.UnitPrice != nil {
			if item.UnitPrice.GreaterThan(unit.MaxUnitPrice) {
				return nil, domain.Validationf("product %s: unit price %s exceeds purchase price %s", item.ProductID, item.UnitPrice, unit.MaxUnitPrice)
			}
			priced = []domain.ReturnItem{{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: *item.UnitPrice}}
		} else {
			priced = unit.PriceUnits(item.ProductID, claimedUnits[item.ProductID], item.Quantity)
		}

		left := unit.LineTotal.Sub(claimedValue[item.ProductID])
		value := itemsValue(priced)
		if item.UnitPrice == nil && value.GreaterThan(left) {
			// earlier returns were priced above the cheapest lines
			priced = unit.PriceUnits(item.ProductID, 0, item.Quantity)
			value = itemsValue(priced)
		}
		if value.GreaterThan(left) {
			return nil, fmt.Errorf("product %s: requested value %s, returnable %s of %s: %w",
				item.ProductID, value, decimal.Max(left, decimal.Zero), unit.LineTotal, domain.ErrQuantityExceeded)
		}
		claimedUnits[item.ProductID] += item.Quantity
		claimedValue[item.ProductID] = claimedValue[item.ProductID].Add(value)
		out = append(out, priced...)
	}
	return out, nil
}

func itemsValue(items []domain.ReturnItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (uc *DefaultReturnUsecase) publish(ctx context.Context, events ...domain.Event) {
	if uc.publisher == nil || len(events) == 0 {
		return
	}
	if err := uc.publisher.Publish(ctx, events...); err != nil {
		slog.Error("failed to publish return events", "count", len(events), "error", err.Error())
	}
}

func refundedUnits(requests []*domain.ReturnRequest) map[string]map[string]int {
	units := make(map[string]map[string]int)
	for _, r := range requests {
		if !r.RefundsMoney(r.Status) {
			continue
		}
		if units[r.ShopID] == nil {
			units[r.ShopID] = make(map[string]int)
		}
		for _, item := range r.Items {
			units[r.ShopID][item.ProductID] += item.Quantity
		}
	}
	return units
}

// fullyRefunded reports whether refunded RMAs cover every purchased unit.
func fullyRefunded(order *domain.Order, requests []*domain.ReturnRequest) bool {
	refunded := refundedUnits(requests)
	for _, shopID := range order.ShopIDs() {
		for productID, unit := range order.PurchasedUnits(shopID) {
			if refunded[shopID][productID] < unit.Quantity {
				return false
			}
		}
	}
	return true
}
