package derivation

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments derivation runs. Register the collectors on a
// prometheus registry; a nil *Metrics disables instrumentation entirely.
type Metrics struct {
	runs        prometheus.Counter
	degraded    prometheus.Counter
	passes      prometheus.Histogram
	facts       prometheus.Counter
	diagnostics *prometheus.CounterVec
}

// NewMetrics creates the derivation collector set.
func NewMetrics() *Metrics {
	return &Metrics{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laderr_derivation_runs_total",
			Help: "Completed derivation runs.",
		}),
		degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laderr_derivation_degraded_runs_total",
			Help: "Runs degraded by structural precondition violations.",
		}),
		passes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "laderr_derivation_passes",
			Help:    "Fixpoint passes per run.",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		}),
		facts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laderr_derivation_facts_total",
			Help: "Facts derived across all runs.",
		}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "laderr_derivation_diagnostics_total",
			Help: "Diagnostics emitted, by kind.",
		}, []string{"kind"}),
	}
}

// Register adds the collectors to the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.runs, m.degraded, m.passes, m.facts, m.diagnostics} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observe(res *Result) {
	m.runs.Inc()
	if res.Degraded {
		m.degraded.Inc()
	}
	m.passes.Observe(float64(res.Passes))
	m.facts.Add(float64(res.NewFacts))
	for _, d := range res.Diagnostics() {
		m.diagnostics.WithLabelValues(string(d.Kind)).Inc()
	}
}
