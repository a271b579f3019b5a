package performancedto

type ShopHistoryInput struct {
	ShopID string
	Limit  int
}
