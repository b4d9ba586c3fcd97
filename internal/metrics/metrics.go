// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "checkout"

// Metrics is safe to use through a nil pointer; every recorder is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	requests         *prometheus.CounterVec
	latencyMS        *prometheus.HistogramVec
	ordersCreated    prometheus.Counter
	orderFailures    *prometheus.CounterVec
	orphanedOrders   prometheus.Counter
	cartClearFailed  prometheus.Counter
	paymentOutcomes  *prometheus.CounterVec
	statusDivergence prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		latencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"route"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Orders materialized from a cart.",
		}),
		orderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_creation_failures_total",
			Help:      "Order creation attempts that failed, by reason.",
		}, []string{"reason"}),
		orphanedOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_orders_total",
			Help:      "Order headers left without lines after a partial write.",
		}),
		cartClearFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_clear_failures_total",
			Help:      "Orders created whose cart could not be cleared.",
		}),
		paymentOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_confirmations_total",
			Help:      "Payment confirmation attempts, by outcome.",
		}, []string{"outcome"}),
		statusDivergence: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_divergence_total",
			Help:      "Gateway outcomes that could not be written to the order status.",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.latencyMS, m.ordersCreated, m.orderFailures,
		m.orphanedOrders, m.cartClearFailed, m.paymentOutcomes, m.statusDivergence,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() fiber.Handler {
	if m == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := c.Route().Path
		m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.latencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
		return err
	}
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *Metrics) OrderFailed(reason string) {
	if m == nil {
		return
	}
	m.orderFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) OrderOrphaned() {
	if m == nil {
		return
	}
	m.orphanedOrders.Inc()
}

func (m *Metrics) CartClearFailed() {
	if m == nil {
		return
	}
	m.cartClearFailed.Inc()
}

func (m *Metrics) PaymentOutcome(outcome string) {
	if m == nil {
		return
	}
	m.paymentOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) StatusDiverged() {
	if m == nil {
		return
	}
	m.statusDivergence.Inc()
}
