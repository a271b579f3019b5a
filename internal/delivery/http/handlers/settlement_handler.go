package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/response"
	settlementdto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/settlement"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/settlement"
	"github.com/gin-gonic/gin"
)

type SettlementHandler struct {
	uc settlement.SettlementUsecase
}

func NewSettlementHandler(uc settlement.SettlementUsecase) *SettlementHandler {
	return &SettlementHandler{uc: uc}
}

// GET /api/v1/orders/:order_id/settlements
func (h *SettlementHandler) ListOrderSettlements(c *gin.Context) {
	list, err := h.uc.ListOrderSettlements(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromSettlements(list))
}

// GET /api/v1/orders/:order_id/settlements/:shop_id
func (h *SettlementHandler) GetSettlement(c *gin.Context) {
	st, err := h.uc.GetSettlement(c.Request.Context(), c.Param("order_id"), c.Param("shop_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromSettlement(st))
}

// GET /api/v1/orders/:order_id/settlements/:shop_id/adjustments
func (h *SettlementHandler) ListAdjustments(c *gin.Context) {
	list, err := h.uc.ListAdjustments(c.Request.Context(), c.Param("order_id"), c.Param("shop_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromAdjustments(list))
}

// POST /api/v1/orders/:order_id/settlements/:shop_id/paid
func (h *SettlementHandler) MarkSettlementPaid(c *gin.Context) {
	var req request.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	st, err := h.uc.MarkSettlementPaid(c.Request.Context(), &settlementdto.MarkPaidInput{
		OrderID:       c.Param("order_id"),
		ShopID:        c.Param("shop_id"),
		TransactionID: req.TransactionID,
		Actor:         actor(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromSettlement(st))
}
