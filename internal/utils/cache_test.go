package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	_, rdb := testRedis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, SetCache(ctx, rdb, "k1", payload{Name: "games", Count: 3}, time.Minute))

	var got payload
	found, err := GetCache(ctx, rdb, "k1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, payload{Name: "games", Count: 3}, got)

	// Missing key reports not found without an error
	found, err = GetCache(ctx, rdb, "k2", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, DeleteCache(ctx, rdb, "k1"))
	found, err = GetCache(ctx, rdb, "k1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteCacheByPrefix(t *testing.T) {
	_, rdb := testRedis(t)
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, rdb, "games:page=1:size=20", "a", time.Minute))
	require.NoError(t, SetCache(ctx, rdb, "games:page=2:size=20", "b", time.Minute))
	require.NoError(t, SetCache(ctx, rdb, "stats:purchases", "c", time.Minute))

	require.NoError(t, DeleteCacheByPrefix(ctx, rdb, "games:"))

	var s string
	found, err := GetCache(ctx, rdb, "games:page=1:size=20", &s)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = GetCache(ctx, rdb, "games:page=2:size=20", &s)
	require.NoError(t, err)
	assert.False(t, found)

	// Unrelated keys survive
	found, err = GetCache(ctx, rdb, "stats:purchases", &s)
	require.NoError(t, err)
	assert.True(t, found)
}
