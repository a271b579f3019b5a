package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// SettlementMetrics содержит все метрики движка расчетов.
// Все методы безопасны для nil-получателя.
type SettlementMetrics struct {
	// Переходы статусов заказа
	OrderTransitionsTotal      *prometheus.CounterVec
	OrderTransitionErrorsTotal *prometheus.CounterVec
	OrdersPlacedTotal          prometheus.Counter

	// Расчеты по магазинам
	SettlementsTotal  *prometheus.CounterVec
	PlatformFeeTotal  *prometheus.CounterVec
	NetAmountTotal    prometheus.Counter
	AdjustmentsTotal  prometheus.Counter
	RefundAmountTotal *prometheus.CounterVec
	CommissionChanges *prometheus.CounterVec
	ReturnTransitions *prometheus.CounterVec
	PerformanceRuns   prometheus.Counter

	// Время обработки
	OperationDuration *prometheus.HistogramVec
}

func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	factory := promauto.With(reg)
	return &SettlementMetrics{
		OrderTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transitions_total",
				Help: "Number of committed order status transitions",
			},
			[]string{"from", "to"},
		),
		OrderTransitionErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transition_errors_total",
				Help: "Number of rejected order status transitions by error kind",
			},
			[]string{"kind"},
		),
		OrdersPlacedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_placed_total",
				Help: "Number of orders accepted from checkout",
			},
		),
		SettlementsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shop_settlements_total",
				Help: "Shop settlement lifecycle events",
			},
			[]string{"event"},
		),
		PlatformFeeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "platform_fee_amount_total",
				Help: "Platform fee materialized into settlements",
			},
			[]string{"fee_type"},
		),
		NetAmountTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "settlement_net_amount_total",
				Help: "Net amount materialized into settlements",
			},
		),
		AdjustmentsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "settlement_adjustments_total",
				Help: "Negative adjustment records written for refunds",
			},
		),
		RefundAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "refund_amount_total",
				Help: "Refunded amount applied to settlements",
			},
			[]string{"resolution"},
		),
		CommissionChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "commission_changes_total",
				Help: "Commission configuration changes",
			},
			[]string{"scope"},
		),
		ReturnTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "return_transitions_total",
				Help: "Committed return request transitions",
			},
			[]string{"to"},
		),
		PerformanceRuns: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "seller_performance_runs_total",
				Help: "Seller performance computations",
			},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "settlement_operation_duration_seconds",
				Help:    "Duration of core operations",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms, 10ms, 20ms...
			},
			[]string{"operation", "result"},
		),
	}
}

func amount(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func (m *SettlementMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.OrderTransitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *SettlementMetrics) ObserveTransitionError(kind string) {
	if m == nil {
		return
	}
	m.OrderTransitionErrorsTotal.WithLabelValues(kind).Inc()
}

func (m *SettlementMetrics) ObserveOrderPlaced() {
	if m == nil {
		return
	}
	m.OrdersPlacedTotal.Inc()
}

func (m *SettlementMetrics) ObserveSettlement(event, feeType string, platformFee, net decimal.Decimal) {
	if m == nil {
		return
	}
	m.SettlementsTotal.WithLabelValues(event).Inc()
	if event == "materialized" {
		m.PlatformFeeTotal.WithLabelValues(feeType).Add(amount(platformFee))
		m.NetAmountTotal.Add(amount(net))
	}
}

func (m *SettlementMetrics) ObserveRefund(resolution string, refund decimal.Decimal, adjustment bool) {
	if m == nil {
		return
	}
	m.RefundAmountTotal.WithLabelValues(resolution).Add(amount(refund))
	if adjustment {
		m.AdjustmentsTotal.Inc()
	}
}

func (m *SettlementMetrics) ObserveCommissionChange(scope string) {
	if m == nil {
		return
	}
	m.CommissionChanges.WithLabelValues(scope).Inc()
}

func (m *SettlementMetrics) ObserveReturnTransition(to string) {
	if m == nil {
		return
	}
	m.ReturnTransitions.WithLabelValues(to).Inc()
}

func (m *SettlementMetrics) ObservePerformanceRun() {
	if m == nil {
		return
	}
	m.PerformanceRuns.Inc()
}

// Track returns a func that records the operation duration with its outcome.
func (m *SettlementMetrics) Track(operation string) func(err error) {
	start := time.Now()
	return func(err error) {
		if m == nil {
			return
		}
		result := "ok"
		if err != nil {
			result = "error"
		}
		m.OperationDuration.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
	}
}
