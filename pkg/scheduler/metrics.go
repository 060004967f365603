package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/arbor/pkg/fiber"
)

// Pass outcomes used as the "outcome" label.
const (
	OutcomeCommitted = "committed"
	OutcomeFailed    = "failed"
	OutcomeAbandoned = "abandoned"
)

// MetricsConfig configures the scheduler metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "arbor").
	Namespace string

	// Subsystem is the metrics subsystem (default: "scheduler").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass and commit duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the scheduler metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "arbor",
		Subsystem: "scheduler",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of one or more schedulers.
// A single Metrics may be shared by every Scheduler of a process.
// All methods are safe on a nil *Metrics.
type Metrics struct {
	passesTotal    *prometheus.CounterVec
	unitsTotal     prometheus.Counter
	slicesTotal    prometheus.Counter
	effectsTotal   *prometheus.CounterVec
	hostOpsTotal   prometheus.Counter
	passDuration   prometheus.Histogram
	commitDuration prometheus.Histogram
	pendingPasses  prometheus.Gauge
}

// NewMetrics creates and registers the scheduler collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		passesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of render passes by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		unitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "units_total",
			Help:        "Total number of work units processed",
			ConstLabels: config.ConstLabels,
		}),

		slicesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "slices_total",
			Help:        "Total number of idle slices consumed",
			ConstLabels: config.ConstLabels,
		}),

		effectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_total",
			Help:        "Total number of committed effects by tag",
			ConstLabels: config.ConstLabels,
		}, []string{"effect"}),

		hostOpsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_ops_total",
			Help:        "Total number of host primitives invoked during commit",
			ConstLabels: config.ConstLabels,
		}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Wall time from Render to commit in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Commit phase duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		pendingPasses: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pending_passes",
			Help:        "Number of passes currently expanding or committing",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) passStarted() {
	if m == nil {
		return
	}
	m.pendingPasses.Inc()
}

func (m *Metrics) slice(units int) {
	if m == nil {
		return
	}
	m.slicesTotal.Inc()
	m.unitsTotal.Add(float64(units))
}

func (m *Metrics) commitDone(d time.Duration) {
	if m == nil {
		return
	}
	m.commitDuration.Observe(d.Seconds())
}

func (m *Metrics) passDone(outcome string, stats fiber.Stats, d time.Duration) {
	if m == nil {
		return
	}
	m.pendingPasses.Dec()
	m.passesTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeCommitted {
		return
	}
	m.passDuration.Observe(d.Seconds())
	m.effectsTotal.WithLabelValues(fiber.Placement.String()).Add(float64(stats.Placements))
	m.effectsTotal.WithLabelValues(fiber.Update.String()).Add(float64(stats.Updates))
	m.effectsTotal.WithLabelValues(fiber.Deletion.String()).Add(float64(stats.Deletions))
	m.hostOpsTotal.Add(float64(stats.HostOps))
}
