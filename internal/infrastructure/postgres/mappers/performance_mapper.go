package mappers

import (
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainPerformanceSnapshot(model *models.SellerPerformanceModel) *domain.SellerPerformanceSnapshot {
	return &domain.SellerPerformanceSnapshot{
		ID:               model.ID,
		ShopID:           model.ShopID,
		Period:           model.Period,
		PeriodFrom:       model.PeriodFrom,
		PeriodTo:         model.PeriodTo,
		TotalRevenue:     model.TotalRevenue,
		TotalOrders:      model.TotalOrders,
		Rating:           model.Rating,
		RatingCount:      model.RatingCount,
		GMV:              model.GMV,
		RevenueScore:     model.RevenueScore,
		OrdersScore:      model.OrdersScore,
		RatingScore:      model.RatingScore,
		GMVScore:         model.GMVScore,
		PerformanceScore: model.PerformanceScore,
		Rank:             model.Rank,
		ComputedAt:       model.ComputedAt,
	}
}

func ToGORMPerformanceSnapshot(s *domain.SellerPerformanceSnapshot) *models.SellerPerformanceModel {
	return &models.SellerPerformanceModel{
		ID:               s.ID,
		ShopID:           s.ShopID,
		Period:           s.Period,
		PeriodFrom:       s.PeriodFrom,
		PeriodTo:         s.PeriodTo,
		TotalRevenue:     s.TotalRevenue,
		TotalOrders:      s.TotalOrders,
		Rating:           s.Rating,
		RatingCount:      s.RatingCount,
		GMV:              s.GMV,
		RevenueScore:     s.RevenueScore,
		OrdersScore:      s.OrdersScore,
		RatingScore:      s.RatingScore,
		GMVScore:         s.GMVScore,
		PerformanceScore: s.PerformanceScore,
		Rank:             s.Rank,
		ComputedAt:       s.ComputedAt,
	}
}
