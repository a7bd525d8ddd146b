package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// MetricsNamespace is the namespace for all dispatcher metrics.
	MetricsNamespace = "mdclip"

	// MetricsSubsystem is the subsystem for dispatcher metrics.
	MetricsSubsystem = "dispatch"
)

// Metrics holds the dispatcher's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	URLsTotal       *prometheus.CounterVec
	DeferralsTotal  prometheus.Counter
	WaitSeconds     prometheus.Counter
	ProcessDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the dispatcher metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		URLsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "urls_total",
				Help:      "URLs dispatched to the processor, by status",
			},
			[]string{"status"},
		),
		DeferralsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "deferrals_total",
				Help:      "URLs deferred because their domain was rate limited",
			},
		),
		WaitSeconds: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "wait_seconds_total",
				Help:      "Time spent waiting for a domain cool-down",
			},
		),
		ProcessDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Subsystem: MetricsSubsystem,
				Name:      "process_duration_seconds",
				Help:      "Processor call duration",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"status"},
		),
	}
}

func (m *Metrics) observeResult(status Status, seconds float64) {
	if m == nil {
		return
	}
	m.URLsTotal.WithLabelValues(string(status)).Inc()
	m.ProcessDuration.WithLabelValues(string(status)).Observe(seconds)
}

func (m *Metrics) observeDeferral() {
	if m == nil {
		return
	}
	m.DeferralsTotal.Inc()
}

func (m *Metrics) observeWait(seconds float64) {
	if m == nil {
		return
	}
	m.WaitSeconds.Add(seconds)
}
