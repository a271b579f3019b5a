package handlers

import (
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-settlement-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Logger      *slog.Logger
	Tokens      *middleware.TokenParser
	Gatherer    prometheus.Gatherer
	Orders      *OrderHandler
	Settlements *SettlementHandler
	Commissions *CommissionHandler
	Returns     *ReturnHandler
	Performance *PerformanceHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger), middleware.RequestLogger(deps.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	staff := middleware.RequireRoles(domain.RoleAdmin, domain.RoleSystem)

	api := r.Group("/api/v1", middleware.JWTAuth(deps.Tokens))
	{
		orders := api.Group("/orders")
		orders.POST("", middleware.RequireRoles(domain.RoleBuyer, domain.RoleAdmin, domain.RoleSystem), deps.Orders.PlaceOrder)
		orders.GET("/:order_id", deps.Orders.GetOrder)
		orders.POST("/:order_id/status", deps.Orders.TransitionOrderStatus)

		orders.GET("/:order_id/settlements", deps.Settlements.ListOrderSettlements)
		orders.GET("/:order_id/settlements/:shop_id", deps.Settlements.GetSettlement)
		orders.GET("/:order_id/settlements/:shop_id/adjustments", deps.Settlements.ListAdjustments)
		orders.POST("/:order_id/settlements/:shop_id/paid", staff, deps.Settlements.MarkSettlementPaid)

		orders.POST("/:order_id/returns", deps.Returns.CreateReturnRequest)
		orders.GET("/:order_id/returns", deps.Returns.ListOrderReturnRequests)
	}
	{
		returns := api.Group("/returns")
		returns.GET("/:rma_code", deps.Returns.GetReturnRequest)
		returns.POST("/:rma_code/status", deps.Returns.TransitionReturnStatus)
	}
	{
		commissions := api.Group("/commissions")
		commissions.GET("/resolve", deps.Commissions.ResolveCommission)
		commissions.GET("/history", staff, deps.Commissions.GetCommissionHistory)
		commissions.PUT("/global", staff, deps.Commissions.UpdateGlobalCommission)
		commissions.PUT("/shops/:shop_id", staff, deps.Commissions.UpdateShopCommission)
	}
	{
		perf := api.Group("/performance")
		perf.POST("/compute", staff, deps.Performance.ComputeSellerPerformance)
		perf.GET("/shops/:shop_id", deps.Performance.GetShopPerformanceHistory)
	}
	return r
}
