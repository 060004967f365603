package remote

import (
	"log/slog"
	"time"
)

// Config configures an Adapter or a Replica.
type Config struct {
	// WriteTimeout bounds each frame write. Zero disables the deadline.
	WriteTimeout time.Duration

	// MaxMessageSize is the largest frame accepted from the peer.
	MaxMessageSize int64

	// Logger receives connection and protocol errors.
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 4 * 1024 * 1024,
		Logger:         slog.Default(),
	}
}

// Option configures an Adapter or a Replica.
type Option func(*Config)

// WithWriteTimeout sets the per-frame write deadline.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.WriteTimeout = d
	}
}

// WithMaxMessageSize sets the read limit for incoming frames.
func WithMaxMessageSize(n int64) Option {
	return func(c *Config) {
		c.MaxMessageSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func newConfig(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}
