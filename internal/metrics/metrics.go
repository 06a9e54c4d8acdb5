// Package metrics expone metricas Prometheus del servicio de traduccion.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados posibles de una llamada a un gateway.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics agrupa los colectores registrados en un registry propio.
// Un *Metrics nil es valido: todas las observaciones se ignoran.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	GatewayCallsTotal   *prometheus.CounterVec
	GatewayCallDuration *prometheus.HistogramVec

	StoreOperationsTotal *prometheus.CounterVec
}

// NewMetrics crea un registry nuevo y registra todos los colectores.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visit_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "visit_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		GatewayCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visit_gateway_calls_total",
				Help: "Total number of language-model gateway calls",
			},
			[]string{"gateway", "outcome"},
		),
		GatewayCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "visit_gateway_call_duration_seconds",
				Help:    "Duration of language-model gateway calls in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"gateway"},
		),
		StoreOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visit_store_operations_total",
				Help: "Total number of persistence store operations",
			},
			[]string{"operation", "status"},
		),
	}
}

// Handler sirve el registry en formato de texto Prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, path string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(latency.Seconds())
}

func (m *Metrics) ObserveGateway(gateway string, err error, started time.Time) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.GatewayCallsTotal.WithLabelValues(gateway, outcome).Inc()
	m.GatewayCallDuration.WithLabelValues(gateway).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveStore(operation string, err error) {
	if m == nil {
		return
	}
	status := OutcomeSuccess
	if err != nil {
		status = OutcomeError
	}
	m.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
}
