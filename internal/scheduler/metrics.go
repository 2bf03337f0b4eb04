package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the sweep counters exported on /metrics. A nil *Metrics
// records nothing.
type Metrics struct {
	sweeps       *prometheus.CounterVec
	materialized prometheus.Counter
	skipped      prometheus.Counter
	failed       prometheus.Counter
	duration     prometheus.Histogram
	running      prometheus.Gauge
}

const (
	resultOK      = "ok"
	resultError   = "error"
	resultOverlap = "overlap"
)

// NewMetrics registers the scheduler metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		sweeps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finantech",
			Name:      "sweeps_total",
			Help:      "Sweeps by result (ok, error, overlap).",
		}, []string{"result"}),
		materialized: f.NewCounter(prometheus.CounterOpts{
			Namespace: "finantech",
			Name:      "schedules_materialized_total",
			Help:      "Scheduled transactions written to the ledger.",
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "finantech",
			Name:      "schedules_skipped_total",
			Help:      "Due schedules skipped because they were deleted or advanced elsewhere.",
		}),
		failed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "finantech",
			Name:      "schedules_failed_total",
			Help:      "Due schedules whose materialization failed.",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "finantech",
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of a completed sweep.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		running: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "finantech",
			Name:      "sweep_running",
			Help:      "1 while a sweep is in progress.",
		}),
	}
}

func (m *Metrics) sweepStarted() {
	if m == nil {
		return
	}
	m.running.Set(1)
}

func (m *Metrics) sweepFinished(result string, r *SweepReport) {
	if m == nil {
		return
	}
	m.running.Set(0)
	m.sweeps.WithLabelValues(result).Inc()
	if r == nil {
		return
	}
	m.materialized.Add(float64(r.Materialized))
	m.skipped.Add(float64(r.Skipped))
	m.failed.Add(float64(r.Failed))
	if !r.FinishedAt.IsZero() {
		m.duration.Observe(r.FinishedAt.Sub(r.StartedAt).Seconds())
	}
}

func (m *Metrics) sweepOverlapped() {
	if m == nil {
		return
	}
	m.sweeps.WithLabelValues(resultOverlap).Inc()
}
