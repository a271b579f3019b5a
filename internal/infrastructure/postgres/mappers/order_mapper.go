package mappers

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	order := &domain.Order{
		ID:      model.ID,
		BuyerID: model.BuyerID,
		ShippingAddress: domain.Address{
			RecipientName: model.ShippingAddress.RecipientName,
			Phone:         model.ShippingAddress.Phone,
			Street:        model.ShippingAddress.Street,
			Ward:          model.ShippingAddress.Ward,
			District:      model.ShippingAddress.District,
			City:          model.ShippingAddress.City,
			Country:       model.ShippingAddress.Country,
		},
		Payment: domain.PaymentInfo{
			Method:        model.PaymentMethod,
			Status:        model.PaymentStatus,
			TransactionID: model.PaymentTransactionID,
			PaidAt:        model.PaidAt,
		},
		Subtotal:           model.Subtotal,
		ShippingFee:        model.ShippingFee,
		Discount:           model.Discount,
		FinalAmount:        model.FinalAmount,
		Status:             model.Status,
		CancellationReason: model.CancellationReason,
		CancelledBy:        domain.ActorRole(model.CancelledBy),
		CancelledAt:        model.CancelledAt,
		Version:            model.Version,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
	for _, item := range model.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:       item.ProductID,
			ShopID:          item.ShopID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return order
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	model := &models.OrderModel{
		ID:      order.ID,
		BuyerID: order.BuyerID,
		ShippingAddress: models.AddressJSON{
			RecipientName: order.ShippingAddress.RecipientName,
			Phone:         order.ShippingAddress.Phone,
			Street:        order.ShippingAddress.Street,
			Ward:          order.ShippingAddress.Ward,
			District:      order.ShippingAddress.District,
			City:          order.ShippingAddress.City,
			Country:       order.ShippingAddress.Country,
		},
		PaymentMethod:        order.Payment.Method,
		PaymentStatus:        order.Payment.Status,
		PaymentTransactionID: order.Payment.TransactionID,
		PaidAt:               order.Payment.PaidAt,
		Subtotal:             order.Subtotal,
		ShippingFee:          order.ShippingFee,
		Discount:             order.Discount,
		FinalAmount:          order.FinalAmount,
		Status:               order.Status,
		CancellationReason:   order.CancellationReason,
		CancelledBy:          string(order.CancelledBy),
		CancelledAt:          order.CancelledAt,
		Version:              order.Version,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
	for i, item := range order.Items {
		model.Items = append(model.Items, models.OrderItemModel{
			ID:              uuid.NewString(),
			OrderID:         order.ID,
			Position:        i,
			ProductID:       item.ProductID,
			ShopID:          item.ShopID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return model
}

func ToDomainStatusChange(model *models.OrderStatusChangeModel) *domain.OrderStatusChange {
	return &domain.OrderStatusChange{
		ID:        model.ID,
		OrderID:   model.OrderID,
		From:      domain.OrderStatus(model.FromStatus),
		To:        domain.OrderStatus(model.ToStatus),
		ActorID:   model.ActorID,
		ActorRole: domain.ActorRole(model.ActorRole),
		Reason:    model.Reason,
		At:        model.At,
	}
}

func ToGORMStatusChange(change *domain.OrderStatusChange) *models.OrderStatusChangeModel {
	return &models.OrderStatusChangeModel{
		ID:         change.ID,
		OrderID:    change.OrderID,
		FromStatus: string(change.From),
		ToStatus:   string(change.To),
		ActorID:    change.ActorID,
		ActorRole:  string(change.ActorRole),
		Reason:     change.Reason,
		At:         change.At,
	}
}
