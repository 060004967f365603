package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arborerrors "github.com/vango-dev/arbor/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultAddr, cfg.Serve.Addr)
	assert.Equal(t, DefaultMetricsPath, cfg.Serve.MetricsPath)
	assert.Equal(t, time.Millisecond, cfg.Scheduler.MinRemainingDuration())
	assert.Equal(t, 5*time.Millisecond, cfg.Scheduler.SliceBudgetDuration())
	assert.False(t, cfg.Snapshot.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	yamlDoc := `scheduler:
  minRemaining: 500us
  sliceBudget: 8ms
serve:
  addr: 0.0.0.0:9000
snapshot:
  bucket: trees
  prefix: dev/
  region: eu-west-1
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(yamlDoc), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Microsecond, cfg.Scheduler.MinRemainingDuration())
	assert.Equal(t, 8*time.Millisecond, cfg.Scheduler.SliceBudgetDuration())
	assert.Equal(t, "0.0.0.0:9000", cfg.Serve.Addr)
	assert.Equal(t, DefaultMetricsPath, cfg.Serve.MetricsPath)
	assert.True(t, cfg.Snapshot.Enabled())
	assert.Equal(t, "dev/", cfg.Snapshot.Prefix)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.Path())
	assert.Equal(t, dir, cfg.Dir())
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	jsonDoc := `{"serve": {"addr": ":7000"}, "log": {"level": "warn"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, JSONConfigFileName), []byte(jsonDoc), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Serve.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadMissingDirUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Serve.Addr)
	assert.Empty(t, cfg.Path())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, "A031", arborerrors.CodeOf(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnknownKeyHasLocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("serve:\n  addr: x\n  port: 80\n"), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)

	var ae *arborerrors.ArborError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "A030", ae.Code)
	require.NotNil(t, ae.Location)
	assert.Equal(t, 3, ae.Location.Line)
	assert.NotEmpty(t, ae.Context)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad min remaining", func(c *Config) { c.Scheduler.MinRemaining = "soon" }},
		{"negative min remaining", func(c *Config) { c.Scheduler.MinRemaining = "-1ms" }},
		{"zero slice budget", func(c *Config) { c.Scheduler.SliceBudget = "0s" }},
		{"threshold above budget", func(c *Config) {
			c.Scheduler.MinRemaining = "10ms"
			c.Scheduler.SliceBudget = "5ms"
		}},
		{"metrics path", func(c *Config) { c.Serve.MetricsPath = "metrics" }},
		{"bucket without region", func(c *Config) { c.Snapshot.Bucket = "b" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, "A030", arborerrors.CodeOf(err))
		})
	}

	t.Run("bucket with custom endpoint", func(t *testing.T) {
		cfg := New()
		cfg.Snapshot.Bucket = "b"
		cfg.Snapshot.Endpoint = "http://localhost:9000"
		assert.NoError(t, cfg.Validate())
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := New()
	cfg.Serve.Addr = ":9999"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", loaded.Serve.Addr)

	loaded.Log.Level = "error"
	require.NoError(t, loaded.Save())

	assert.Error(t, New().Save(), "Save without a path should fail")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.Logger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}
