package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	rmadto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/rma"
	rmausecase "github.com/LavaJover/shvark-settlement-service/internal/usecase/rma"
	"github.com/gin-gonic/gin"
)

type ReturnHandler struct {
	uc rmausecase.ReturnUsecase
}

func NewReturnHandler(uc rmausecase.ReturnUsecase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

// POST /api/v1/orders/:order_id/returns
func (h *ReturnHandler) CreateReturnRequest(c *gin.Context) {
	var req request.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	items := make([]rmadto.ReturnItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = rmadto.ReturnItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	evidences := make([]domain.Evidence, len(req.Evidences))
	for i, ev := range req.Evidences {
		evidences[i] = domain.Evidence{URL: ev.URL, Type: domain.EvidenceType(ev.Type)}
	}

	rmaCode, err := h.uc.CreateReturnRequest(c.Request.Context(), &rmadto.CreateReturnRequestInput{
		OrderID:             c.Param("order_id"),
		ShopID:              req.ShopID,
		Actor:               actor(c),
		ReasonCode:          domain.ReturnReasonCode(req.ReasonCode),
		ReasonDetail:        req.ReasonDetail,
		RequestedResolution: domain.ReturnResolution(req.RequestedResolution),
		ReturnMethod:        domain.ReturnMethod(req.ReturnMethod),
		Items:               items,
		Evidences:           evidences,
		ShippingFee:         req.ShippingFee,
		RestockingFee:       req.RestockingFee,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.CreateReturnResponse{RmaCode: rmaCode})
}

// GET /api/v1/orders/:order_id/returns
func (h *ReturnHandler) ListOrderReturnRequests(c *gin.Context) {
	list, err := h.uc.ListOrderReturnRequests(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromReturnRequests(list))
}

// GET /api/v1/returns/:rma_code
func (h *ReturnHandler) GetReturnRequest(c *gin.Context) {
	rr, err := h.uc.GetReturnRequest(c.Request.Context(), c.Param("rma_code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromReturnRequest(rr))
}

// POST /api/v1/returns/:rma_code/status
func (h *ReturnHandler) TransitionReturnStatus(c *gin.Context) {
	var req request.TransitionReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	rr, err := h.uc.TransitionReturnStatus(c.Request.Context(), &rmadto.TransitionReturnInput{
		RmaCode:         c.Param("rma_code"),
		TargetStatus:    domain.ReturnStatus(req.Status),
		Actor:           actor(c),
		Note:            req.Note,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromReturnRequest(rr))
}
