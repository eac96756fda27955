package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 下单数
	OrderCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mall_order_created_total",
		Help: "Total number of created orders",
	}, []string{"order_type", "source"})

	// 预支付结果
	PrepayTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mall_order_prepay_total",
		Help: "Total number of prepay requests",
	}, []string{"pay_way", "result"})

	// 支付回调处理结果，result: applied / duplicate / failed
	PayNotifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mall_pay_notify_total",
		Help: "Total number of payment notifications",
	}, []string{"order_type", "result"})

	PayNotifyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mall_pay_notify_duration_seconds",
		Help:    "Payment notification handling duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"order_type"})

	AfterSalesTransitionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mall_after_sales_transition_total",
		Help: "Total number of after-sales work order transitions",
	}, []string{"action", "result"})

	OrderEventPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mall_order_event_published_total",
		Help: "Total number of order events relayed to MQ",
	}, []string{"result"})
)

func Result(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
