package ppcp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of a [Client].
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paypal_requests_total",
				Help: "Total number of PayPal API requests by operation and status",
			},
			[]string{"operation", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paypal_request_duration_seconds",
				Help:    "Duration of PayPal API requests in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"operation"},
		),
	}
}

// RoundTripper wraps next so every request is counted and timed
// under the operation stored by [WithOperation].
func (m *Metrics) RoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &metricsTransport{m: m, next: next}
}

type metricsTransport struct {
	m    *Metrics
	next http.RoundTripper
}

func (t *metricsTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	op := GetOperation(r.Context())
	if op == "" {
		op = r.Method
	}
	start := time.Now()
	res, err := t.next.RoundTrip(r)
	t.m.requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil {
		status = strconv.Itoa(res.StatusCode)
	}
	t.m.requestsTotal.WithLabelValues(op, status).Inc()
	return res, err
}
