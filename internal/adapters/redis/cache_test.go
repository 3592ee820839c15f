package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "groupstay_crm/internal/adapters/redis"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	c := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var got bool
	ok, err := c.Get(ctx, "crm:status", &got)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache should miss")

	require.NoError(t, c.Set(ctx, "crm:status", true, 30))
	assert.True(t, mr.Exists("groupstay:crm:status"), "key should carry the prefix")

	ok, err = c.Get(ctx, "crm:status", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got)

	require.NoError(t, c.Del(ctx, "crm:status"))
	ok, err = c.Get(ctx, "crm:status", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_TTLExpires(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"n": 1}, 10))
	mr.FastForward(11 * time.Second)

	var out map[string]int
	ok, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_GetBadJSON(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("groupstay:k", "not-json"))

	var out bool
	ok, err := c.Get(context.Background(), "k", &out)
	assert.Error(t, err)
	assert.False(t, ok)
}
