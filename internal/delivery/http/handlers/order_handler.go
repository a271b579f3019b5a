package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-settlement-service/internal/usecase/dto/order"
	orderusecase "github.com/LavaJover/shvark-settlement-service/internal/usecase/order"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	uc orderusecase.OrderUsecase
}

func NewOrderHandler(uc orderusecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// PlaceOrder принимает заказ из чекаута.
// POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req request.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	buyerID := req.BuyerID
	if a := actor(c); a.Role == domain.RoleBuyer {
		buyerID = a.ID
	}

	items := make([]orderdto.PlaceOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = orderdto.PlaceOrderItem{
			ProductID:       item.ProductID,
			ShopID:          item.ShopID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		}
	}

	orderID, err := h.uc.PlaceOrder(c.Request.Context(), &orderdto.PlaceOrderInput{
		BuyerID: buyerID,
		Items:   items,
		ShippingAddress: domain.Address{
			RecipientName: req.ShippingAddress.RecipientName,
			Phone:         req.ShippingAddress.Phone,
			Street:        req.ShippingAddress.Street,
			Ward:          req.ShippingAddress.Ward,
			District:      req.ShippingAddress.District,
			City:          req.ShippingAddress.City,
			Country:       req.ShippingAddress.Country,
		},
		Payment: domain.PaymentInfo{
			Method:        req.Payment.Method,
			Status:        req.Payment.Status,
			TransactionID: req.Payment.TransactionID,
		},
		Subtotal:    req.Subtotal,
		ShippingFee: req.ShippingFee,
		Discount:    req.Discount,
		FinalAmount: req.FinalAmount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.PlaceOrderResponse{OrderID: orderID})
}

// GET /api/v1/orders/:order_id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.uc.GetOrder(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(order))
}

// POST /api/v1/orders/:order_id/status
func (h *OrderHandler) TransitionOrderStatus(c *gin.Context) {
	var req request.TransitionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	order, err := h.uc.TransitionOrderStatus(c.Request.Context(), &orderdto.TransitionOrderInput{
		OrderID:         c.Param("order_id"),
		TargetStatus:    domain.OrderStatus(req.Status),
		Actor:           actor(c),
		Reason:          req.Reason,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromOrder(order))
}
