package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/feedbackinsights/internal/domain/providers"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestRedisAdapter_GetMissIsErrCacheMiss(t *testing.T) {
	adapter := NewRedisAdapter(newTestRedis(t))

	_, err := adapter.Get(context.Background(), "feedback:test:"+uuid.NewString())

	assert.True(t, errors.Is(err, providers.ErrCacheMiss))
}

func TestRedisAdapter_SetIfAbsent(t *testing.T) {
	ctx := context.Background()
	adapter := NewRedisAdapter(newTestRedis(t))
	key := "feedback:test:" + uuid.NewString()
	t.Cleanup(func() { _ = adapter.Delete(ctx, key) })

	stored, err := adapter.SetIfAbsent(ctx, key, []byte("1"), 60)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = adapter.SetIfAbsent(ctx, key, []byte("1"), 60)
	require.NoError(t, err)
	assert.False(t, stored)
}

func TestRedisAdapter_IncrementStartsWindow(t *testing.T) {
	ctx := context.Background()
	adapter := NewRedisAdapter(newTestRedis(t))
	key := "feedback:test:" + uuid.NewString()
	t.Cleanup(func() { _ = adapter.Delete(ctx, key) })

	count, remaining, err := adapter.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, remaining)

	count, remaining, err = adapter.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.LessOrEqual(t, remaining, time.Minute)
	assert.Greater(t, remaining, time.Duration(0))
}
