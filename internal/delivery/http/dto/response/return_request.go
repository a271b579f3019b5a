package response

import (
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateReturnResponse struct {
	RmaCode string `json:"rma_code"`
}

type ReturnRequest struct {
	RmaCode             string          `json:"rma_code"`
	OrderID             string          `json:"order_id"`
	BuyerID             string          `json:"buyer_id"`
	ShopID              string          `json:"shop_id"`
	ReasonCode          string          `json:"reason_code"`
	ReasonDetail        string          `json:"reason_detail,omitempty"`
	RequestedResolution string          `json:"requested_resolution"`
	ReturnMethod        string          `json:"return_method"`
	Items               []ReturnItem    `json:"items"`
	Evidences           []Evidence      `json:"evidences"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	ShippingFee         decimal.Decimal `json:"shipping_fee"`
	RestockingFee       decimal.Decimal `json:"restocking_fee"`
	RefundTotal         decimal.Decimal `json:"refund_total"`
	Status              string          `json:"status"`
	StatusEvents        []ReturnEvent   `json:"status_events"`
	Version             int64           `json:"version"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type ReturnItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type Evidence struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type ReturnEvent struct {
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
	By        string    `json:"by"`
	ActorType string    `json:"actor_type"`
	Note      string    `json:"note,omitempty"`
}

func FromReturnRequest(r *domain.ReturnRequest) ReturnRequest {
	items := make([]ReturnItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = ReturnItem{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	evidences := make([]Evidence, len(r.Evidences))
	for i, ev := range r.Evidences {
		evidences[i] = Evidence{URL: ev.URL, Type: string(ev.Type)}
	}
	events := make([]ReturnEvent, len(r.StatusEvents))
	for i, ev := range r.StatusEvents {
		events[i] = ReturnEvent{
			Status:    string(ev.Status),
			At:        ev.At,
			By:        ev.By,
			ActorType: string(ev.ActorType),
			Note:      ev.Note,
		}
	}
	return ReturnRequest{
		RmaCode:             r.RmaCode,
		OrderID:             r.OrderID,
		BuyerID:             r.BuyerID,
		ShopID:              r.ShopID,
		ReasonCode:          string(r.ReasonCode),
		ReasonDetail:        r.ReasonDetail,
		RequestedResolution: string(r.RequestedResolution),
		ReturnMethod:        string(r.ReturnMethod),
		Items:               items,
		Evidences:           evidences,
		Subtotal:            r.Amounts.Subtotal,
		ShippingFee:         r.Amounts.ShippingFee,
		RestockingFee:       r.Amounts.RestockingFee,
		RefundTotal:         r.Amounts.RefundTotal,
		Status:              string(r.Status),
		StatusEvents:        events,
		Version:             r.Version,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func FromReturnRequests(list []*domain.ReturnRequest) []ReturnRequest {
	out := make([]ReturnRequest, len(list))
	for i, r := range list {
		out[i] = FromReturnRequest(r)
	}
	return out
}
