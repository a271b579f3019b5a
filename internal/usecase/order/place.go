package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/order"
	"github.com/google/uuid"
)

// PlaceOrder stores a checked-out order in PENDING and returns its id.
func (uc *DefaultOrderUsecase) PlaceOrder(ctx context.Context, input *orderdto.PlaceOrderInput) (string, error) {
	now := uc.now()
	order := &domain.Order{
		ID:              uuid.NewString(),
		BuyerID:         input.BuyerID,
		ShippingAddress: input.ShippingAddress,
		Payment:         input.Payment,
		Subtotal:        input.Subtotal,
		ShippingFee:     input.ShippingFee,
		Discount:        input.Discount,
		FinalAmount:     input.FinalAmount,
		Status:          domain.StatusPending,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:       item.ProductID,
			ShopID:          item.ShopID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	if err := order.Validate(); err != nil {
		return "", err
	}

	done := uc.Metrics.Track("place_order")
	err := uc.Store.WithinTransaction(ctx, func(repos domain.Repositories) error {
		if err := repos.Orders().CreateOrder(ctx, order); err != nil {
			return err
		}
		return repos.Orders().AppendStatusChange(ctx, &domain.OrderStatusChange{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			To:        domain.StatusPending,
			ActorID:   order.BuyerID,
			ActorRole: domain.RoleBuyer,
			At:        now,
		})
	})
	done(err)
	if err != nil {
		return "", fmt.Errorf("place order: %w", err)
	}

	slog.Info("order placed", "order_id", order.ID, "buyer_id", order.BuyerID, "shops", len(order.ShopIDs()), "final_amount", order.FinalAmount.String())
	uc.Metrics.ObserveOrderPlaced()
	uc.publish(ctx, domain.OrderStatusChangedEvent{
		OrderID:   order.ID,
		BuyerID:   order.BuyerID,
		To:        domain.StatusPending,
		ActorID:   order.BuyerID,
		ActorRole: domain.RoleBuyer,
		At:        now,
	})
	return order.ID, nil
}
