package intent

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for intent dispatch.
type Metrics struct {
	DispatchTotal    *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	DenialsTotal     *prometheus.CounterVec
	TriageTotal      *prometheus.CounterVec
	EventsPersisted  *prometheus.CounterVec
}

// NewMetrics registers and returns intent metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intent_dispatch_total",
			Help: "Total dispatched intents by intent name and response status.",
		}, []string{"intent", "status"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "intent_dispatch_duration_seconds",
			Help:    "Duration of intent handlers in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms .. ~1s
		}, []string{"intent"}),
		DenialsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intent_policy_denials_total",
			Help: "Total intents rejected by policy enforcement, by actor and reason.",
		}, []string{"actor", "reason"}),
		TriageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intent_triage_total",
			Help: "Total symptom triage runs by resulting severity.",
		}, []string{"severity"}),
		EventsPersisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "intent_events_persisted_total",
			Help: "Total events appended to the event store by resource type.",
		}, []string{"resource_type"}),
	}

	reg.MustRegister(
		m.DispatchTotal,
		m.DispatchDuration,
		m.DenialsTotal,
		m.TriageTotal,
		m.EventsPersisted,
	)
	return m
}

// Hooks returns dispatch hooks that update the metrics.
func (m *Metrics) Hooks() Hooks {
	return Hooks{
		OnDispatch: func(name Name, status string, d time.Duration) {
			m.DispatchTotal.WithLabelValues(string(name), status).Inc()
			m.DispatchDuration.WithLabelValues(string(name)).Observe(d.Seconds())
		},
		OnDenied: func(_ Name, actor Role, err error) {
			reason := "forbidden"
			var unknown *UnknownActorError
			if errors.As(err, &unknown) {
				reason = "unknown_actor"
				// Unrecognized roles are caller input; keep label cardinality bounded.
				actor = "unknown"
			}
			m.DenialsTotal.WithLabelValues(string(actor), reason).Inc()
		},
		OnTriage: func(severity string) {
			m.TriageTotal.WithLabelValues(severity).Inc()
		},
		OnPersist: func(resourceType string) {
			m.EventsPersisted.WithLabelValues(resourceType).Inc()
		},
	}
}
