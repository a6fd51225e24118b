package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	rxerrors "github.com/AnatoleLucet/reactive/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		cfg, err := Parse([]byte(`
schemaVersion: v1.0.0
log:
  level: debug
  format: json
scheduler:
  recursionLimit: 5
metrics:
  enabled: false
`))
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, 5, cfg.Scheduler.RecursionLimit)
		assert.False(t, cfg.Metrics.Enabled)

		// untouched sections keep their defaults
		assert.True(t, cfg.Tracing.Enabled)
		assert.True(t, cfg.Diagnostics.ReadonlyWarnings)
	})

	t.Run("accepts short versions", func(t *testing.T) {
		cfg, err := Parse([]byte("schemaVersion: \"1.2\"\n"))
		require.NoError(t, err)
		assert.Equal(t, DefaultRecursionLimit, cfg.Scheduler.RecursionLimit)
	})

	t.Run("rejects empty documents", func(t *testing.T) {
		_, err := Parse([]byte("  \n"))

		var cerr *rxerrors.ConfigError
		assert.True(t, errors.As(err, &cerr))
	})

	t.Run("rejects unknown fields through the schema", func(t *testing.T) {
		_, err := Parse([]byte("schemaVersion: v1.0.0\nscheduler:\n  workers: 4\n"))

		var verr *rxerrors.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Error(), "workers")
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		_, err := Parse([]byte("schemaVersion: v1.0.0\nscheduler:\n  recursionLimit: 0\n"))

		var verr *rxerrors.ValidationError
		assert.True(t, errors.As(err, &verr))
	})

	t.Run("rejects other major versions", func(t *testing.T) {
		_, err := Parse([]byte("schemaVersion: v2.0.0\n"))

		var verr *rxerrors.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Error(), "not compatible")
	})

	t.Run("requires a version", func(t *testing.T) {
		_, err := Parse([]byte("log:\n  level: info\n"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reactive.yaml")
		require.NoError(t, os.WriteFile(path, []byte("schemaVersion: v1.0.0\nlog:\n  level: error\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Log.Level)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		var cerr *rxerrors.ConfigError
		require.True(t, errors.As(err, &cerr))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
