package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/felixgeelhaar/tasker/internal/shared/infrastructure/kv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, cfg kv.BreakerConfig) (*kv.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	s := kv.NewRedisStore(client, "test", cfg, nil)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore(t *testing.T) {
	s, _ := newRedisStore(t, kv.DefaultBreakerConfig())
	exerciseStore(t, s)
}

func TestRedisStore_NamespacesKeys(t *testing.T) {
	s, mr := newRedisStore(t, kv.DefaultBreakerConfig())

	require.NoError(t, s.Set(context.Background(), "tasks", []byte("[]")))

	got, err := mr.Get("test:tasks")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.False(t, mr.Exists("tasks"))
}

func TestRedisStore_MissingKeyDoesNotTrip(t *testing.T) {
	s, _ := newRedisStore(t, kv.BreakerConfig{MaxRequests: 1, Timeout: time.Minute, FailureThreshold: 1})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	}
	require.NoError(t, s.Set(ctx, "present", []byte("ok")))
}

func TestRedisStore_BreakerOpensAfterFailures(t *testing.T) {
	s, mr := newRedisStore(t, kv.BreakerConfig{MaxRequests: 1, Timeout: time.Minute, FailureThreshold: 2})
	ctx := context.Background()

	mr.SetError("LOADING server is loading")
	for i := 0; i < 2; i++ {
		err := s.Set(ctx, "tasks", []byte("[]"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, kv.ErrCircuitOpen)
	}

	mr.SetError("")
	err := s.Set(ctx, "tasks", []byte("[]"))
	assert.ErrorIs(t, err, kv.ErrCircuitOpen)
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := kv.Open(ctx, kv.Config{Driver: kv.DriverRedis, RedisURL: "redis://" + mr.Addr()}, nil)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)

	_, err = kv.OpenRedis(ctx, "not a url", "", nil)
	assert.Error(t, err)
}
