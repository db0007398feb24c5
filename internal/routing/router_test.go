package routing

import (
	"testing"

	"github.com/nulzo/intent-router/internal/intent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRouting_EveryReachableIntent(t *testing.T) {
	router, err := NewRouter(intent.NewClassifier(intent.DefaultPatterns()), DefaultTable())
	require.NoError(t, err)

	for _, i := range intent.Reachable {
		t.Run(i.String(), func(t *testing.T) {
			decision, err := router.GetRouting(i)
			require.NoError(t, err)
			assert.Equal(t, i, decision.Intent)
			assert.NotEmpty(t, decision.Config.Model)
			assert.Equal(t, 0.7, decision.Confidence)
		})
	}
}

func TestRoute_ClassifiesThenLooksUp(t *testing.T) {
	router, err := NewRouter(nil, DefaultTable())
	require.NoError(t, err)

	decision, err := router.Route("create a function to parse JSON")
	require.NoError(t, err)
	assert.Equal(t, intent.CodeGen, decision.Intent)
	assert.Equal(t, DefaultTable()[intent.CodeGen], decision.Config)
}

func TestNewRouter_MissingReachableIntent(t *testing.T) {
	table := DefaultTable()
	delete(table, intent.Debug)

	_, err := NewRouter(nil, table)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigurationDefect)
	assert.Contains(t, err.Error(), "debug")
}

func TestNewRouter_EmptyModelIsDefect(t *testing.T) {
	table := DefaultTable()
	table[intent.Simple] = ModelConfig{Model: "  "}

	_, err := NewRouter(nil, table)
	assert.ErrorIs(t, err, ErrConfigurationDefect)
}

func TestNewRouter_ReservedIntentsOptional(t *testing.T) {
	table := Table{
		intent.Simple:       {Model: "a"},
		intent.CodeGen:      {Model: "b"},
		intent.Debug:        {Model: "c"},
		intent.Architecture: {Model: "d"},
	}

	router, err := NewRouter(nil, table)
	require.NoError(t, err)

	_, err = router.GetRouting(intent.ArchitecturePremium)
	assert.ErrorIs(t, err, ErrConfigurationDefect)
}

func TestRouter_TableIsNotShared(t *testing.T) {
	table := DefaultTable()
	router, err := NewRouter(nil, table)
	require.NoError(t, err)

	table[intent.Simple] = ModelConfig{Model: "mutated"}
	copied := router.Table()
	copied[intent.Debug] = ModelConfig{Model: "mutated"}

	decision, err := router.GetRouting(intent.Simple)
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", decision.Config.Model)

	decision, err = router.GetRouting(intent.Debug)
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-sonnet-4-5", decision.Config.Model)
}

func TestTable_Merge(t *testing.T) {
	merged := DefaultTable().Merge(Table{intent.Debug: {Model: "local/llama"}})
	assert.Equal(t, "local/llama", merged[intent.Debug].Model)
	assert.Equal(t, DefaultTable()[intent.Simple], merged[intent.Simple])
}

func TestModelConfig_Inherit(t *testing.T) {
	base := DefaultTable()[intent.Debug]

	cfg := ModelConfig{Model: "local/llama"}.Inherit(base)
	assert.Equal(t, "local/llama", cfg.Model)
	assert.Equal(t, base.MaxTokens, cfg.MaxTokens)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, 0.1, *cfg.Temperature)

	zero := ModelConfig{Model: "local/llama", Temperature: Temp(0)}.Inherit(base)
	assert.Equal(t, 0.0, *zero.Temperature)
}

func TestModelConfig_Resolve(t *testing.T) {
	cfg := ModelConfig{Model: "m"}.Resolve(4096, 0.7)
	assert.Equal(t, 4096, cfg.MaxTokens)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, 0.7, *cfg.Temperature)

	set := ModelConfig{Model: "m", MaxTokens: 10, Temperature: Temp(0.2)}.Resolve(4096, 0.7)
	assert.Equal(t, 10, set.MaxTokens)
	assert.Equal(t, 0.2, *set.Temperature)
}
