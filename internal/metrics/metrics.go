// Package metrics holds the Prometheus collectors for the POS: sales
// counters fed by checkout and request metrics fed by the gin middleware.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "kitchen_pos"

// Metrics owns a private registry so several instances (one per test) never
// collide. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ordersTotal     *prometheus.CounterVec
	revenueTotal    prometheus.Counter
	storageErrors   *prometheus.CounterVec
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ordersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "orders_total",
			Help:      "Orders placed, by payment method.",
		}, []string{"payment_method"}),
		revenueTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "revenue_total",
			Help:      "Sum of order totals including tax.",
		}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Local store operations that failed.",
		}, []string{"op"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ordersTotal,
		m.revenueTotal,
		m.storageErrors,
		m.requestTotal,
		m.requestDuration,
	)
	return m
}

// OrderPlaced counts one completed checkout.
func (m *Metrics) OrderPlaced(method domain.PaymentMethod, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.ordersTotal.WithLabelValues(string(method)).Inc()
	if total.IsPositive() {
		m.revenueTotal.Add(total.InexactFloat64())
	}
}

// StorageFailure counts one failed store operation.
func (m *Metrics) StorageFailure(op string) {
	if m == nil {
		return
	}
	m.storageErrors.WithLabelValues(op).Inc()
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requestTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
