package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// DefaultRedisNamespace prefixes every key written by RedisStore.
const DefaultRedisNamespace = "tasker"

// BreakerConfig configures the circuit breaker around redis calls.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold trips the breaker after this many consecutive failures.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns the breaker settings used by Open.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 3,
	}
}

// RedisStore keeps values in redis under {namespace}:{key}.
type RedisStore struct {
	client    *redis.Client
	namespace string
	breaker   *gobreaker.CircuitBreaker[[]byte]
	logger    *slog.Logger
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, namespace string, cfg BreakerConfig, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	if namespace == "" {
		namespace = DefaultRedisNamespace
	}

	s := &RedisStore{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}

	settings := gobreaker.Settings{
		Name:        "redis:" + namespace,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	s.breaker = gobreaker.NewCircuitBreaker[[]byte](settings)

	return s
}

// OpenRedis connects to the server at url and verifies it answers.
func OpenRedis(ctx context.Context, url, namespace string, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStore(client, namespace, DefaultBreakerConfig(), logger), nil
}

func (s *RedisStore) namespaceKey(key string) string {
	return fmt.Sprintf("%s:%s", s.namespace, key)
}

// Get returns the value stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	val, err := s.execute(func() ([]byte, error) {
		val, err := s.client.Get(ctx, s.namespaceKey(key)).Bytes()
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return val, err
	})
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set overwrites the value stored under key without expiration.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := checkValue(value); err != nil {
		return err
	}

	_, err := s.execute(func() ([]byte, error) {
		return nil, s.client.Set(ctx, s.namespaceKey(key), value, 0).Err()
	})
	return err
}

func (s *RedisStore) execute(fn func() ([]byte, error)) ([]byte, error) {
	val, err := s.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return val, err
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
