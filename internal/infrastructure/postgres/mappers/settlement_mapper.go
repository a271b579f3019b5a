package mappers

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainSettlement(model *models.ShopSettlementModel) *domain.ShopSettlement {
	return &domain.ShopSettlement{
		ID:                    model.ID,
		OrderID:               model.OrderID,
		ShopID:                model.ShopID,
		ShopSubtotal:          model.ShopSubtotal,
		ShopShippingFee:       model.ShopShippingFee,
		CommissionRateApplied: model.CommissionRateApplied,
		CommissionFeeType:     domain.FeeType(model.CommissionFeeType),
		CommissionConfigID:    model.CommissionConfigID,
		PlatformFee:           model.PlatformFee,
		RefundedAmount:        model.RefundedAmount,
		NetAmount:             model.NetAmount,
		Status:                domain.SettlementStatus(model.Status),
		IsPaid:                model.IsPaid,
		PaidAt:                model.PaidAt,
		TransactionID:         model.TransactionID,
		ResolvedAt:            model.ResolvedAt,
		FinalizedAt:           model.FinalizedAt,
		VoidedAt:              model.VoidedAt,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	}
}

func ToGORMSettlement(st *domain.ShopSettlement) *models.ShopSettlementModel {
	return &models.ShopSettlementModel{
		ID:                    st.ID,
		OrderID:               st.OrderID,
		ShopID:                st.ShopID,
		ShopSubtotal:          st.ShopSubtotal,
		ShopShippingFee:       st.ShopShippingFee,
		CommissionRateApplied: st.CommissionRateApplied,
		CommissionFeeType:     string(st.CommissionFeeType),
		CommissionConfigID:    st.CommissionConfigID,
		PlatformFee:           st.PlatformFee,
		RefundedAmount:        st.RefundedAmount,
		NetAmount:             st.NetAmount,
		Status:                string(st.Status),
		IsPaid:                st.IsPaid,
		PaidAt:                st.PaidAt,
		TransactionID:         st.TransactionID,
		ResolvedAt:            st.ResolvedAt,
		FinalizedAt:           st.FinalizedAt,
		VoidedAt:              st.VoidedAt,
		CreatedAt:             st.CreatedAt,
		UpdatedAt:             st.UpdatedAt,
	}
}

func ToDomainAdjustment(model *models.SettlementAdjustmentModel) *domain.SettlementAdjustment {
	return &domain.SettlementAdjustment{
		ID:           model.ID,
		SettlementID: model.SettlementID,
		OrderID:      model.OrderID,
		ShopID:       model.ShopID,
		RmaCode:      model.RmaCode,
		Amount:       model.Amount,
		Reason:       model.Reason,
		CreatedAt:    model.CreatedAt,
	}
}

func ToGORMAdjustment(adj *domain.SettlementAdjustment) *models.SettlementAdjustmentModel {
	return &models.SettlementAdjustmentModel{
		ID:           adj.ID,
		SettlementID: adj.SettlementID,
		OrderID:      adj.OrderID,
		ShopID:       adj.ShopID,
		RmaCode:      adj.RmaCode,
		Amount:       adj.Amount,
		Reason:       adj.Reason,
		CreatedAt:    adj.CreatedAt,
	}
}

func ToDomainShopMetrics(row *models.ShopMetricsRow) *domain.ShopMetrics {
	return &domain.ShopMetrics{
		ShopID:       row.ShopID,
		TotalRevenue: row.TotalRevenue,
		TotalOrders:  row.TotalOrders,
		GMV:          row.GMV,
	}
}
