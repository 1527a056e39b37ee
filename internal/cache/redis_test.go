package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

func setupCache(t *testing.T) Cache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	prefix := "test:" + t.Name()
	t.Cleanup(func() {
		keys, _ := client.Keys(context.Background(), prefix+":*").Result()
		if len(keys) > 0 {
			client.Del(context.Background(), keys...)
		}
	})

	return NewRedisCache(client, prefix)
}

func TestRedisCache_Miss(t *testing.T) {
	c := setupCache(t)

	var got report
	found, err := c.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_SetGet(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "profit", report{Period: "2024-03-01 to 2024-03-31", Count: 4}, time.Minute))

	var got report
	found, err := c.Get(ctx, "profit", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, report{Period: "2024-03-01 to 2024-03-31", Count: 4}, got)
}

func TestRedisCache_Expiry(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", report{Count: 1}, 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)

	var got report
	found, err := c.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
