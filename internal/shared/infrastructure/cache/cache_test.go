package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	var c Cache = NoopCache{}

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, 2, client.Options().DB)

	_, err = NewRedisClient("not a url")
	assert.Error(t, err)
}

func TestRedisCache_BreakerOpensOnUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisCache(client, "taskpilot:", BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	}, nil)
	ctx := context.Background()

	_, err := c.Get(ctx, "overview")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	err = c.Set(ctx, "overview", []byte("{}"), time.Second)
	require.Error(t, err)

	_, err = c.Get(ctx, "overview")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Error(t, c.Ping(ctx))
}

func TestRedisCache_DeleteWithoutKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	c := NewRedisCache(client, "", DefaultBreakerConfig(), nil)

	assert.NoError(t, c.Delete(context.Background()))
	assert.Equal(t, "overview", c.key("overview"))
}
