package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PaymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minisente_payments_total",
			Help: "Payment submissions by service type and final status.",
		},
		[]string{"service", "status"},
	)

	WebhooksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "minisente_webhooks_total",
			Help: "Webhook callbacks received by provider and result.",
		},
		[]string{"provider", "result"},
	)
)

func init() {
	prometheus.MustRegister(PaymentsTotal, WebhooksTotal)
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
