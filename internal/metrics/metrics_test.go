package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveFlush(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFlush(time.Now(), "committed")
	m.ObserveFlush(time.Now(), "committed")
	m.ObserveFlush(time.Now(), "failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Flushes.WithLabelValues("committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Flushes.WithLabelValues("failed")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Flushes))
}

func TestObserveRequestGroupsStatus(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("/api/pokemon/", "GET", 200)
	m.ObserveRequest("/api/pokemon/", "GET", 204)
	m.ObserveRequest("/api/pokemon/", "GET", 404)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/pokemon/", "GET", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/pokemon/", "GET", "4xx")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFlush(time.Now(), "noop")
		m.ObserveRequest("/", "GET", 500)
	})
}
