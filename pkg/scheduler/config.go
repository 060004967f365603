package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for render passes.
const defaultTracerName = "arbor/scheduler"

// Config configures a Scheduler.
type Config struct {
	// MinRemaining is the yield threshold: before each unit the scheduler
	// yields if the deadline reports this much time or less. It must be
	// smaller than the idle host's slice budget.
	// Default: 1ms.
	MinRemaining time.Duration

	// Logger is the structured logger. Default: slog.Default().
	Logger *slog.Logger

	// Metrics records pass statistics. Nil disables metrics.
	Metrics *Metrics

	// Tracer creates one span per pass. Default: otel.Tracer("arbor/scheduler").
	Tracer trace.Tracer

	// OnResult is called on the scheduler's goroutine when a pass commits,
	// fails or is abandoned.
	OnResult func(Result)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinRemaining: time.Millisecond,
		Logger:       slog.Default(),
	}
}

// Option configures a Scheduler.
type Option func(*Config)

// WithMinRemaining sets the yield threshold.
func WithMinRemaining(d time.Duration) Option {
	return func(c *Config) {
		c.MinRemaining = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithTracer sets the tracer used for pass spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = tracer
	}
}

// WithResultHandler sets the callback receiving the outcome of every pass.
func WithResultHandler(fn func(Result)) Option {
	return func(c *Config) {
		c.OnResult = fn
	}
}

// ValidateBudget reports whether a slice of budget can ever run a unit
// under the yield threshold minRemaining.
func ValidateBudget(budget, minRemaining time.Duration) error {
	if budget <= minRemaining {
		return fmt.Errorf("%w: slice budget %s, min remaining %s", ErrBudgetTooSmall, budget, minRemaining)
	}
	return nil
}

func (c *Config) normalize() {
	if c.MinRemaining < 0 {
		c.MinRemaining = 0
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer(defaultTracerName)
	}
}
