package commissiondto

import "github.com/LavaJover/shvark-settlement-service/internal/domain"

type UpdateGlobalCommissionOutput struct {
	Config        *domain.CommissionConfig
	ClosedConfigs int
}

type GetHistoryOutput struct {
	Entries    []*domain.CommissionHistoryEntry
	Pagination Pagination
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
}
