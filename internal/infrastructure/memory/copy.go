package memory

import "github.com/LavaJover/shvark-settlement-service/internal/domain"

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	cp.Payment.PaidAt = copyPtr(o.Payment.PaidAt)
	cp.CancelledAt = copyPtr(o.CancelledAt)
	cp.StatusHistory = nil
	return &cp
}

func copySettlement(s *domain.ShopSettlement) *domain.ShopSettlement {
	cp := *s
	cp.PaidAt = copyPtr(s.PaidAt)
	cp.FinalizedAt = copyPtr(s.FinalizedAt)
	cp.VoidedAt = copyPtr(s.VoidedAt)
	return &cp
}

func copyConfig(c *domain.CommissionConfig) *domain.CommissionConfig {
	cp := *c
	cp.EffectiveTo = copyPtr(c.EffectiveTo)
	return &cp
}

func copyHistory(h *domain.CommissionHistoryEntry) *domain.CommissionHistoryEntry {
	cp := *h
	cp.ShopID = copyPtr(h.ShopID)
	return &cp
}

func copyReturn(r *domain.ReturnRequest) *domain.ReturnRequest {
	cp := *r
	cp.Items = append([]domain.ReturnItem(nil), r.Items...)
	cp.Evidences = append([]domain.Evidence(nil), r.Evidences...)
	cp.StatusEvents = append([]domain.ReturnStatusEvent(nil), r.StatusEvents...)
	return &cp
}
