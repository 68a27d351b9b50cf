// Package metrics holds the Prometheus instruments for the review pipeline
// and the handler that serves them on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the instruments the review service and session registry
// record into. Construct one per process with NewMetrics.
type Metrics struct {
	// ActiveSessions tracks how many review sessions the registry holds.
	ActiveSessions prometheus.Gauge

	// SessionsStarted counts review sessions ever started.
	SessionsStarted prometheus.Counter

	// SessionEvictions counts sessions removed by TTL expiry rather than
	// an explicit end.
	SessionEvictions prometheus.Counter

	// Reviews counts graded answers, labelled by the applied rating.
	Reviews *prometheus.CounterVec

	// AnswerTime observes learner response time per answer, in milliseconds.
	AnswerTime prometheus.Histogram
}

// NewMetrics registers the instruments on reg under the given namespace.
// A nil registerer selects the default Prometheus registry, which is what
// Handler serves.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Review sessions currently held in the registry.",
		}),
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Review sessions started.",
		}),
		SessionEvictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_evictions_total",
			Help:      "Sessions evicted after exceeding their TTL.",
		}),
		Reviews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Graded answers, labelled by the applied rating.",
		}, []string{"rating"}),
		AnswerTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_time_ms",
			Help:      "Learner response time per answer in milliseconds.",
			Buckets:   []float64{250, 500, 1000, 2000, 4000, 8000, 15000, 30000, 60000},
		}),
	}
}

// SessionStarted records a session entering the registry.
func (m *Metrics) SessionStarted() {
	m.SessionsStarted.Inc()
	m.ActiveSessions.Inc()
}

// SessionEnded records a session leaving the registry through an explicit end.
func (m *Metrics) SessionEnded() {
	m.ActiveSessions.Dec()
}

// SessionEvicted records a session removed because its TTL lapsed.
func (m *Metrics) SessionEvicted() {
	m.SessionEvictions.Inc()
	m.ActiveSessions.Dec()
}

// ObserveReview records one graded answer.
func (m *Metrics) ObserveReview(rating string, timeMs int) {
	m.Reviews.WithLabelValues(rating).Inc()
	m.AnswerTime.Observe(float64(timeMs))
}

// Handler serves the default Prometheus registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
