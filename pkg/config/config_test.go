package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouterBaseURL)
	assert.Equal(t, []string{"openrouter/auto"}, cfg.Models())
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.RetryBackoff())
	assert.Equal(t, 5*time.Second, cfg.RenderTimeout())
	assert.Equal(t, 20, cfg.RenderMinText)
	assert.Equal(t, []string{"SyntaxError", "is not defined", "Cannot read"}, cfg.FatalPatterns())
	assert.InDelta(t, 0.88, cfg.Chaos, 1e-9)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.False(t, cfg.Strict)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("OPENROUTER_MODEL", "vendor/a")
	t.Setenv("OPENROUTER_MODEL_FALLBACKS", "vendor/b, vendor/a ,vendor/c")
	t.Setenv("OPENROUTER_TIMEOUT_MS", "1000")
	t.Setenv("OPENROUTER_STRICT", "true")
	t.Setenv("CHAOS_LEVEL", "1.7")
	t.Setenv("CONCURRENCY", "0")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor/a", "vendor/b", "vendor/c"}, cfg.Models())
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout(), "timeouts under 5s fall back to the default")
	assert.True(t, cfg.Strict)
	assert.Equal(t, 1.0, cfg.Chaos)
	assert.Equal(t, 1, cfg.Concurrency)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OPENROUTER_API_KEY=sk-test\nTARGET_SIZE=7\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenRouterAPIKey)
	assert.Equal(t, 7, cfg.TargetSize)
}

func TestLoad_ClampsUnsafeValues(t *testing.T) {
	t.Setenv("RENDER_MIN_TEXT", "0")
	t.Setenv("INTERVAL_MS", "0")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.RenderMinText)
	assert.Equal(t, MinIntervalMS, cfg.IntervalMS)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval())
}
