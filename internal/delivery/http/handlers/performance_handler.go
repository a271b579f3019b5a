package handlers

import (
	"net/http"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	performancedto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/performance"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/performance"
	"github.com/gin-gonic/gin"
)

type PerformanceHandler struct {
	uc  performance.PerformanceUsecase
	now func() time.Time
}

func NewPerformanceHandler(uc performance.PerformanceUsecase, now func() time.Time) *PerformanceHandler {
	if now == nil {
		now = time.Now
	}
	return &PerformanceHandler{uc: uc, now: now}
}

// POST /api/v1/performance/compute
func (h *PerformanceHandler) ComputeSellerPerformance(c *gin.Context) {
	var req request.ComputePerformanceRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
	}

	period := performance.DailyPeriod(h.now().Add(-24 * time.Hour))
	if !req.From.IsZero() || !req.To.IsZero() {
		period = domain.Period{Key: req.Key, From: req.From.UTC(), To: req.To.UTC()}
		if period.Key == "" {
			period.Key = period.From.Format(time.DateOnly) + "/" + period.To.Format(time.DateOnly)
		}
	}

	snapshots, err := h.uc.ComputeSellerPerformance(c.Request.Context(), period)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromSnapshots(snapshots))
}

// GET /api/v1/performance/shops/:shop_id
func (h *PerformanceHandler) GetShopPerformanceHistory(c *gin.Context) {
	var query request.PerformanceHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeBindError(c, err)
		return
	}
	snapshots, err := h.uc.GetShopPerformanceHistory(c.Request.Context(), &performancedto.ShopHistoryInput{
		ShopID: c.Param("shop_id"),
		Limit:  query.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromSnapshots(snapshots))
}
