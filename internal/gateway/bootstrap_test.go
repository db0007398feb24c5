package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/nulzo/intent-router/internal/config"
	"github.com/nulzo/intent-router/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Upstream:  config.UpstreamConfig{BaseURL: "http://127.0.0.1:1", APIKey: "k"},
		Database:  config.DatabaseConfig{DSN: ":memory:"},
		ModelInfo: config.ModelInfoConfig{CacheTTL: time.Minute, CacheSize: 4},
	}
}

func TestBootstrap_WiresLedger(t *testing.T) {
	rt, err := Bootstrap(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, rt.Close()) }()

	overview, err := rt.Service.Usage(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, overview.Days)
	assert.Equal(t, 15.0, rt.Service.Cost("anthropic/claude-opus-4-6", 1_000_000))

	recent, err := rt.Service.RecentUsage(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestBootstrap_RejectsIncompleteRouting(t *testing.T) {
	cfg := testConfig()
	cfg.Database.DSN = ""
	cfg.Routing = map[string]routing.ModelConfig{"debug": {Model: " "}}

	_, err := Bootstrap(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, routing.ErrConfigurationDefect)
}
