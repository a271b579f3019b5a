package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/LavaJover/shvark-settlement-service/internal/usecase/commission"
	commissiondto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/commission"
	"github.com/gin-gonic/gin"
)

type CommissionHandler struct {
	uc commission.CommissionUsecase
}

func NewCommissionHandler(uc commission.CommissionUsecase) *CommissionHandler {
	return &CommissionHandler{uc: uc}
}

// GET /api/v1/commissions/resolve
func (h *CommissionHandler) ResolveCommission(c *gin.Context) {
	var query request.ResolveCommissionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeBindError(c, err)
		return
	}
	cfg, err := h.uc.ResolveCommission(c.Request.Context(), query.ShopID, query.At)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCommissionConfig(cfg))
}

// PUT /api/v1/commissions/shops/:shop_id
func (h *CommissionHandler) UpdateShopCommission(c *gin.Context) {
	var req request.UpdateShopCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	cfg, err := h.uc.UpdateShopCommission(c.Request.Context(), &commissiondto.UpdateShopCommissionInput{
		ShopID:  c.Param("shop_id"),
		FeeType: domain.FeeType(req.FeeType),
		Rate:    req.Rate,
		Reason:  req.Reason,
		Note:    req.Note,
		Actor:   actor(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCommissionConfig(cfg))
}

// PUT /api/v1/commissions/global
func (h *CommissionHandler) UpdateGlobalCommission(c *gin.Context) {
	var req request.UpdateGlobalCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	out, err := h.uc.UpdateGlobalCommission(c.Request.Context(), &commissiondto.UpdateGlobalCommissionInput{
		FeeType:             domain.FeeType(req.FeeType),
		Rate:                req.Rate,
		Reason:              req.Reason,
		Note:                req.Note,
		Actor:               actor(c),
		OverrideShopConfigs: req.OverrideShopConfigs,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.UpdateGlobalCommissionResponse{
		Config:        response.FromCommissionConfig(out.Config),
		ClosedConfigs: out.ClosedConfigs,
	})
}

// GET /api/v1/commissions/history
func (h *CommissionHandler) GetCommissionHistory(c *gin.Context) {
	var query request.CommissionHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeBindError(c, err)
		return
	}
	out, err := h.uc.GetCommissionHistory(c.Request.Context(), &commissiondto.GetHistoryInput{
		ShopID: query.ShopID,
		Global: query.Global,
		Page:   query.Page,
		Limit:  query.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCommissionHistory(out))
}
