package request

import "time"

// ComputePerformanceRequest задает окно [from, to). Пустое тело означает
// вчерашние сутки по UTC.
type ComputePerformanceRequest struct {
	Key  string    `json:"key"`
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type PerformanceHistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,gte=1"`
}
