package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

const snapshotBatchSize = 100

type DefaultPerformanceRepository struct {
	DB *gorm.DB
}

func NewDefaultPerformanceRepository(db *gorm.DB) *DefaultPerformanceRepository {
	return &DefaultPerformanceRepository{DB: db}
}

func (r *DefaultPerformanceRepository) SaveSnapshots(ctx context.Context, snapshots []*domain.SellerPerformanceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	snapshotModels := make([]*models.SellerPerformanceModel, len(snapshots))
	for i, s := range snapshots {
		snapshotModels[i] = mappers.ToGORMPerformanceSnapshot(s)
	}
	if err := r.DB.WithContext(ctx).CreateInBatches(snapshotModels, snapshotBatchSize).Error; err != nil {
		return translateError(err, "save %d performance snapshots", len(snapshots))
	}
	return nil
}

func (r *DefaultPerformanceRepository) ListShopSnapshots(ctx context.Context, shopID string, limit int) ([]*domain.SellerPerformanceSnapshot, error) {
	query := r.DB.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("computed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var snapshotModels []models.SellerPerformanceModel
	if err := query.Find(&snapshotModels).Error; err != nil {
		return nil, fmt.Errorf("performance snapshots of shop %s: %w", shopID, err)
	}
	snapshots := make([]*domain.SellerPerformanceSnapshot, len(snapshotModels))
	for i := range snapshotModels {
		snapshots[i] = mappers.ToDomainPerformanceSnapshot(&snapshotModels[i])
	}
	return snapshots, nil
}

// ShopRatingRepository читает агрегаты отзывов из shop_ratings и
// реализует domain.RatingSource.
type ShopRatingRepository struct {
	DB *gorm.DB
}

func NewShopRatingRepository(db *gorm.DB) *ShopRatingRepository {
	return &ShopRatingRepository{DB: db}
}

func (r *ShopRatingRepository) GetShopRatings(ctx context.Context, shopIDs []string) (map[string]domain.ShopRating, error) {
	ratings := make(map[string]domain.ShopRating, len(shopIDs))
	if len(shopIDs) == 0 {
		return ratings, nil
	}
	var ratingModels []models.ShopRatingModel
	if err := r.DB.WithContext(ctx).
		Where("shop_id IN ?", shopIDs).
		Find(&ratingModels).Error; err != nil {
		return nil, fmt.Errorf("shop ratings: %w", err)
	}
	for _, m := range ratingModels {
		ratings[m.ShopID] = domain.ShopRating{Rating: m.Rating, RatingCount: m.RatingCount}
	}
	return ratings, nil
}
