package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type modelMeta struct {
	ID            string `json:"id"`
	ContextLength int    `json:"context_length"`
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(8, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "model:openai/gpt-4o", modelMeta{ID: "openai/gpt-4o", ContextLength: 128000}, 0))

	var got modelMeta
	require.NoError(t, c.Get(ctx, "model:openai/gpt-4o", &got))
	assert.Equal(t, 128000, got.ContextLength)

	require.NoError(t, c.Delete(ctx, "model:openai/gpt-4o"))
	assert.ErrorIs(t, c.Get(ctx, "model:openai/gpt-4o", &got), ErrMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(8, 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var got string
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
	assert.Zero(t, c.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))

	var v int
	require.NoError(t, c.Get(ctx, "a", &v))
	require.NoError(t, c.Set(ctx, "c", 3, 0))

	assert.ErrorIs(t, c.Get(ctx, "b", &v), ErrMiss)
	assert.NoError(t, c.Get(ctx, "a", &v))
	assert.Equal(t, 1, v)
}
