package mappers

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
)

func ToDomainReturnRequest(model *models.ReturnRequestModel) *domain.ReturnRequest {
	rr := &domain.ReturnRequest{
		RmaCode:             model.RmaCode,
		OrderID:             model.OrderID,
		BuyerID:             model.BuyerID,
		ShopID:              model.ShopID,
		ReasonCode:          domain.ReturnReasonCode(model.ReasonCode),
		ReasonDetail:        model.ReasonDetail,
		RequestedResolution: domain.ReturnResolution(model.RequestedResolution),
		ReturnMethod:        domain.ReturnMethod(model.ReturnMethod),
		Amounts: domain.ReturnAmounts{
			Subtotal:      model.Subtotal,
			ShippingFee:   model.ShippingFee,
			RestockingFee: model.RestockingFee,
			RefundTotal:   model.RefundTotal,
		},
		Status:    domain.ReturnStatus(model.Status),
		Version:   model.Version,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	for _, item := range model.Items {
		rr.Items = append(rr.Items, domain.ReturnItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	for _, ev := range model.Evidences {
		rr.Evidences = append(rr.Evidences, domain.Evidence{URL: ev.URL, Type: domain.EvidenceType(ev.Type)})
	}
	for _, ev := range model.StatusEvents {
		rr.StatusEvents = append(rr.StatusEvents, ToDomainReturnStatusEvent(&ev))
	}
	return rr
}

// ToGORMReturnRequest не переносит StatusEvents: журнал пишется отдельными вставками.
func ToGORMReturnRequest(rr *domain.ReturnRequest) *models.ReturnRequestModel {
	model := &models.ReturnRequestModel{
		RmaCode:             rr.RmaCode,
		OrderID:             rr.OrderID,
		BuyerID:             rr.BuyerID,
		ShopID:              rr.ShopID,
		ReasonCode:          string(rr.ReasonCode),
		ReasonDetail:        rr.ReasonDetail,
		RequestedResolution: string(rr.RequestedResolution),
		ReturnMethod:        string(rr.ReturnMethod),
		Items:               make([]models.ReturnItemJSON, 0, len(rr.Items)),
		Evidences:           make([]models.EvidenceJSON, 0, len(rr.Evidences)),
		Subtotal:            rr.Amounts.Subtotal,
		ShippingFee:         rr.Amounts.ShippingFee,
		RestockingFee:       rr.Amounts.RestockingFee,
		RefundTotal:         rr.Amounts.RefundTotal,
		Status:              string(rr.Status),
		Version:             rr.Version,
		CreatedAt:           rr.CreatedAt,
		UpdatedAt:           rr.UpdatedAt,
	}
	for _, item := range rr.Items {
		model.Items = append(model.Items, models.ReturnItemJSON{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	for _, ev := range rr.Evidences {
		model.Evidences = append(model.Evidences, models.EvidenceJSON{URL: ev.URL, Type: string(ev.Type)})
	}
	return model
}

func ToDomainReturnStatusEvent(model *models.ReturnStatusEventModel) domain.ReturnStatusEvent {
	return domain.ReturnStatusEvent{
		Status:    domain.ReturnStatus(model.Status),
		At:        model.At,
		By:        model.ActorID,
		ActorType: domain.ReturnActorType(model.ActorType),
		Note:      model.Note,
	}
}

func ToGORMReturnStatusEvent(rmaCode string, ev domain.ReturnStatusEvent) *models.ReturnStatusEventModel {
	return &models.ReturnStatusEventModel{
		ID:        uuid.NewString(),
		RmaCode:   rmaCode,
		Status:    string(ev.Status),
		At:        ev.At,
		ActorID:   ev.By,
		ActorType: string(ev.ActorType),
		Note:      ev.Note,
	}
}
