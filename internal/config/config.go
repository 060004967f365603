package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	arborerrors "github.com/vango-dev/arbor/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "arbor.yaml"

	// JSONConfigFileName is the alternative JSON configuration file.
	JSONConfigFileName = "arbor.json"

	// DefaultAddr is the default listen address of arbor serve.
	DefaultAddr = "localhost:8080"

	// DefaultMetricsPath is the default Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultMinRemaining is the default yield threshold.
	DefaultMinRemaining = "1ms"

	// DefaultSliceBudget is the default idle slice length.
	DefaultSliceBudget = "5ms"
)

// Config represents the complete arbor.yaml configuration.
type Config struct {
	// Scheduler tunes time slicing.
	Scheduler SchedulerConfig `yaml:"scheduler,omitempty"`

	// Serve configures the HTTP server of arbor serve.
	Serve ServeConfig `yaml:"serve,omitempty"`

	// Snapshot configures S3 uploads of committed trees.
	Snapshot SnapshotConfig `yaml:"snapshot,omitempty"`

	// Log configures the structured logger.
	Log LogConfig `yaml:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SchedulerConfig holds durations in time.ParseDuration syntax.
type SchedulerConfig struct {
	MinRemaining string `yaml:"minRemaining,omitempty"`
	SliceBudget  string `yaml:"sliceBudget,omitempty"`
}

// ServeConfig configures arbor serve.
type ServeConfig struct {
	Addr        string `yaml:"addr,omitempty"`
	MetricsPath string `yaml:"metricsPath,omitempty"`
}

// SnapshotConfig configures the S3 snapshot sink.
type SnapshotConfig struct {
	// Bucket is the target bucket. Empty disables snapshots.
	Bucket string `yaml:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `yaml:"prefix,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `yaml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Enabled reports whether snapshots are configured.
func (s SnapshotConfig) Enabled() bool {
	return s.Bucket != ""
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from dir, trying arbor.yaml then arbor.json.
// A directory with neither file yields the defaults.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, JSONConfigFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, arborerrors.New("A031").
				WithDetail("no config file at " + path).
				Wrap(err)
		}
		return nil, arborerrors.New("A031").Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		if line := yamlLine(err); line > 0 {
			arborerrors.FromError(err, "A030").WithLocation(path, line, 1)
		}
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes and validates a YAML or JSON document.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, arborerrors.New("A030").
				WithDetail(err.Error()).
				WithSuggestion("Check arbor.yaml against the documented keys").
				Wrap(err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return arborerrors.Newf(arborerrors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration as YAML to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return arborerrors.New("A030").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return arborerrors.New("A031").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Scheduler.MinRemaining == "" {
		c.Scheduler.MinRemaining = DefaultMinRemaining
	}
	if c.Scheduler.SliceBudget == "" {
		c.Scheduler.SliceBudget = DefaultSliceBudget
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.MetricsPath == "" {
		c.Serve.MetricsPath = DefaultMetricsPath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	minRemaining, err := time.ParseDuration(c.Scheduler.MinRemaining)
	if err != nil || minRemaining < 0 {
		return arborerrors.New("A030").
			WithDetailf("scheduler.minRemaining %q is not a non-negative duration", c.Scheduler.MinRemaining)
	}
	budget, err := time.ParseDuration(c.Scheduler.SliceBudget)
	if err != nil || budget <= 0 {
		return arborerrors.New("A030").
			WithDetailf("scheduler.sliceBudget %q is not a positive duration", c.Scheduler.SliceBudget)
	}
	if minRemaining >= budget {
		return arborerrors.New("A030").
			WithDetail("scheduler.minRemaining must be smaller than scheduler.sliceBudget").
			WithSuggestion("A slice would yield after every unit; lower minRemaining")
	}
	if !strings.HasPrefix(c.Serve.MetricsPath, "/") {
		return arborerrors.New("A030").
			WithDetailf("serve.metricsPath %q must start with /", c.Serve.MetricsPath)
	}
	if c.Snapshot.Enabled() && c.Snapshot.Region == "" && c.Snapshot.Endpoint == "" {
		return arborerrors.New("A030").
			WithDetail("snapshot.region is required when snapshot.bucket is set")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return arborerrors.New("A030").
			WithDetailf("log.format %q must be text or json", c.Log.Format)
	}
	return nil
}

// MinRemainingDuration returns the parsed yield threshold.
func (s SchedulerConfig) MinRemainingDuration() time.Duration {
	d, _ := time.ParseDuration(s.MinRemaining)
	return d
}

// SliceBudgetDuration returns the parsed slice length.
func (s SchedulerConfig) SliceBudgetDuration() time.Duration {
	d, _ := time.ParseDuration(s.SliceBudget)
	return d
}

// Logger builds a slog.Logger writing to w.
func (l LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, arborerrors.New("A030").
			WithDetailf("log.level %q must be debug, info, warn or error", s)
	}
	return level, nil
}

// yamlLine extracts the line number from a yaml.v3 error message.
func yamlLine(err error) int {
	msg := err.Error()
	i := strings.Index(msg, "line ")
	if i < 0 {
		return 0
	}
	n := 0
	for _, r := range msg[i+5:] {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
