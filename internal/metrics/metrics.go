package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	Flushes       *prometheus.CounterVec
	FlushDuration prometheus.Histogram
	Requests      *prometheus.CounterVec
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in tests
// so repeated construction does not collide with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Flushes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pokemon_reviews_store_flushes_total",
			Help: "Unit-of-work flushes by outcome (committed, noop, failed)",
		}, []string{"outcome"}),
		FlushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pokemon_reviews_store_flush_duration_seconds",
			Help:    "Duration of unit-of-work flushes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pokemon_reviews_http_requests_total",
			Help: "HTTP requests by route pattern, method and status",
		}, []string{"route", "method", "status"}),
	}
}

// ObserveFlush records a flush outcome and its duration.
// Call with time.Now() taken before the flush started.
func (m *Metrics) ObserveFlush(start time.Time, outcome string) {
	if m == nil {
		return
	}
	m.Flushes.WithLabelValues(outcome).Inc()
	m.FlushDuration.Observe(time.Since(start).Seconds())
}

// ObserveRequest counts one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, method, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
