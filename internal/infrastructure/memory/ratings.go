package memory

import (
	"context"
	"sync"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
)

type StaticRatingSource struct {
	mu      sync.RWMutex
	ratings map[string]domain.ShopRating
}

func NewStaticRatingSource(ratings map[string]domain.ShopRating) *StaticRatingSource {
	if ratings == nil {
		ratings = make(map[string]domain.ShopRating)
	}
	return &StaticRatingSource{ratings: ratings}
}

func (s *StaticRatingSource) Set(shopID string, rating domain.ShopRating) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[shopID] = rating
}

func (s *StaticRatingSource) GetShopRatings(ctx context.Context, shopIDs []string) (map[string]domain.ShopRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.ShopRating, len(shopIDs))
	for _, id := range shopIDs {
		if r, ok := s.ratings[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}
