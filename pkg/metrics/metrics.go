// Package metrics provides optional Prometheus instrumentation for the
// urlscan.io client. Metrics are opt-in: a client constructed without a
// Metrics instance records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Outcome labels for the request counter.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the collectors recorded by the client: a request counter
// partitioned by operation and outcome, and a latency histogram partitioned
// by operation.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the client collectors and registers them against reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "urlscan",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Number of urlscan.io API requests, partitioned by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "urlscan",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "urlscan.io API request latency in seconds, partitioned by operation.",
			Buckets:   DefaultBuckets,
		}, []string{"operation"}),
	}

	for _, collector := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("could not register collector: %w", err)
		}
	}

	return m, nil
}

// Observe records one finished API request. A nil receiver is a no-op so
// callers do not need to guard every call site.
func (m *Metrics) Observe(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
