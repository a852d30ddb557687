package tgtrack

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks forwarding outcomes. Exposed on the gateway /metrics
// endpoint via the default Prometheus registry.
type Metrics struct {
	forwarded  *prometheus.CounterVec
	failures   *prometheus.CounterVec
	reachGoals prometheus.Counter
	duration   prometheus.Histogram
}

// NewMetrics creates and registers the tgtrack collectors on the given
// registerer. Tests pass a private registry to avoid collisions.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		forwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tgtrack",
			Name:      "events_forwarded_total",
			Help:      "Updates forwarded to the tracking provider, by event kind.",
		}, []string{"kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tgtrack",
			Name:      "forward_failures_total",
			Help:      "Forwarding attempts that failed, by reason.",
		}, []string{"reason"}),
		reachGoals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tgtrack",
			Name:      "reach_goals_total",
			Help:      "Reach-goal events reported to the tracking provider.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tgtrack",
			Name:      "forward_duration_seconds",
			Help:      "Latency of provider requests.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.forwarded, m.failures, m.reachGoals, m.duration)
	return m
}

// observeForward starts a latency observation and returns the function
// that completes it.
func (m *Metrics) observeForward() func() {
	start := time.Now()
	return func() {
		m.duration.Observe(time.Since(start).Seconds())
	}
}
