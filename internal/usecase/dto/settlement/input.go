package settlementdto

import "github.com/LavaJover/shvark-settlement-service/internal/domain"

type MarkPaidInput struct {
	OrderID       string
	ShopID        string
	TransactionID string
	Actor         domain.Actor
}
