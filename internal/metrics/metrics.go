// Package metrics exposes service counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lynxeval"

// Collector records session and evaluation metrics. A nil *Collector is valid
// and records nothing.
type Collector struct {
	sessionsCreated prometheus.Counter
	sessionsActive  prometheus.Gauge
	evaluations     *prometheus.CounterVec
	duration        *prometheus.HistogramVec
}

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Number of sessions created.",
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of sessions currently held in memory.",
		}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Number of evaluation requests by language and outcome.",
		}, []string{"language", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent evaluating and serializing, including lock wait.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"language"}),
	}

	for _, col := range []prometheus.Collector{
		c.sessionsCreated,
		c.sessionsActive,
		c.evaluations,
		c.duration,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SessionCreated counts a new session.
func (c *Collector) SessionCreated() {
	if c == nil {
		return
	}
	c.sessionsCreated.Inc()
	c.sessionsActive.Inc()
}

// ObserveEvaluation records one evaluation request.
func (c *Collector) ObserveEvaluation(language, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.evaluations.WithLabelValues(language, outcome).Inc()
	c.duration.WithLabelValues(language).Observe(elapsed.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
