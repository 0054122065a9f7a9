package observability

import (
	"context"

	"github.com/aretw0/gensyn/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	GateEvents       *prometheus.CounterVec
	ConnectionEvents *prometheus.CounterVec
	Gates            prometheus.Gauge
	Connections      prometheus.Gauge
	Evaluations      *prometheus.CounterVec
	EvalDuration     prometheus.Histogram
	Frames           prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on promhttp.Handler().
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		GateEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gensyn_gate_events_total",
			Help: "Gates added and removed, by event and gate class",
		}, []string{"event", "class"}),
		ConnectionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gensyn_connection_events_total",
			Help: "Connections made and severed",
		}, []string{"event"}),
		Gates: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gensyn_gates",
			Help: "Gates currently registered",
		}),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gensyn_connections",
			Help: "Connections currently in the graph",
		}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gensyn_evaluations_total",
			Help: "Evaluation passes, by result",
		}, []string{"result"}),
		EvalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gensyn_evaluation_duration_seconds",
			Help:    "Duration of evaluation passes",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gensyn_frames_rendered_total",
			Help: "Frames produced by successful evaluation passes",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.GateEvents, m.ConnectionEvents, m.Gates, m.Connections,
		m.Evaluations, m.EvalDuration, m.Frames,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
// The gauges track the engine from its initial state, which holds the output gate.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	m.Gates.Set(1)
	return domain.LifecycleHooks{
		OnGateAdd: func(_ context.Context, e *domain.GateEvent) {
			m.GateEvents.WithLabelValues(string(e.Type), e.Class).Inc()
			m.Gates.Inc()
		},
		OnGateRemove: func(_ context.Context, e *domain.GateEvent) {
			m.GateEvents.WithLabelValues(string(e.Type), e.Class).Inc()
			m.Gates.Dec()
		},
		OnConnect: func(_ context.Context, e *domain.ConnectionEvent) {
			m.ConnectionEvents.WithLabelValues(string(e.Type)).Inc()
			m.Connections.Inc()
		},
		OnDisconnect: func(_ context.Context, e *domain.ConnectionEvent) {
			m.ConnectionEvents.WithLabelValues(string(e.Type)).Inc()
			m.Connections.Dec()
		},
		OnEvaluate: func(_ context.Context, e *domain.EvaluateEvent) {
			if e.Err != nil {
				m.Evaluations.WithLabelValues("error").Inc()
				return
			}
			m.Evaluations.WithLabelValues("ok").Inc()
			m.EvalDuration.Observe(e.Duration.Seconds())
			m.Frames.Add(float64(e.Frames))
		},
		OnLoadState: func(_ context.Context, e *domain.StateEvent) {
			m.Gates.Set(float64(e.Gates))
			m.Connections.Set(float64(e.Connections))
		},
	}
}
