package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/hallucination-cache/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		Count:           20,
		Concurrency:     2,
		BatchSize:       6,
		Chaos:           0.88,
		RenderMinText:   20,
		RenderTimeoutMS: 5000,
	}
}

func TestApplyFlags_OnlyChangedFlagsOverride(t *testing.T) {
	opts := &options{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--count", "3", "--chaos", "1.7", "--loop"}))

	cfg := baseConfig()
	applyFlags(cmd, opts, cfg)

	assert.Equal(t, 3, cfg.Count)
	assert.Equal(t, 1.0, cfg.Chaos)
	assert.True(t, cfg.Loop)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 6, cfg.BatchSize)
}

func TestApplyFlags_ClampsCounts(t *testing.T) {
	opts := &options{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--concurrency=0", "--batch-size=-2", "--interval-ms=0"}))

	cfg := baseConfig()
	applyFlags(cmd, opts, cfg)

	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, 1, cfg.BatchSize)
	assert.Equal(t, config.MinIntervalMS, cfg.IntervalMS)
}

func TestApplyHandcraft(t *testing.T) {
	cfg := baseConfig()
	applyHandcraft(cfg)

	assert.True(t, cfg.Strict)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, 50, cfg.RenderMinText)
	assert.Equal(t, 8000, cfg.RenderTimeoutMS)
}

func TestHandcraftIsSubcommand(t *testing.T) {
	cmd, _, err := rootCmd().Find([]string{"handcraft"})
	require.NoError(t, err)
	assert.Equal(t, "handcraft", cmd.Name())
}
