package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, jitter time.Duration) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, jitter), mr
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	c, mr := setupTestRedis(t, 0)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedisCache_Expiry(t *testing.T) {
	c, mr := setupTestRedis(t, 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Jitter(t *testing.T) {
	c, mr := setupTestRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Minute))
	ttl := mr.TTL("k")
	assert.GreaterOrEqual(t, ttl, 10*time.Minute)
	assert.Less(t, ttl, 11*time.Minute)
}

func TestJSONHelpers(t *testing.T) {
	c, _ := setupTestRedis(t, 0)
	ctx := context.Background()

	type item struct {
		Name string `json:"name"`
	}
	require.NoError(t, SetJSON(ctx, c, "item", item{Name: "shoe"}, time.Minute))

	got, err := GetJSON[item](ctx, c, "item")
	require.NoError(t, err)
	assert.Equal(t, "shoe", got.Name)

	_, err = GetJSON[item](ctx, NopCache{}, "item")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
