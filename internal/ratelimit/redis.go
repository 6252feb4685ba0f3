package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a fixed-window counter store backed by a shared Redis
// instance, for deployments with more than one relay process.
type RedisStore struct {
	client *redis.Client
	points int
	window time.Duration
}

// NewRedisStore connects to Redis at addr and verifies the connection
func NewRedisStore(addr string, points int, windowLength time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{
		client: client,
		points: points,
		window: windowLength,
	}, nil
}

// Consume takes one point for key using INCR with a window-length TTL
// set on the first consumption.
func (s *RedisStore) Consume(ctx context.Context, key string) (Result, error) {
	redisKey := "ratelimit:" + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("incr %s: %w", redisKey, err)
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, redisKey, s.window).Err(); err != nil {
			return Result{}, fmt.Errorf("expire %s: %w", redisKey, err)
		}
	}

	if count > int64(s.points) {
		ttl, err := s.client.PTTL(ctx, redisKey).Result()
		if err != nil {
			return Result{}, fmt.Errorf("ttl %s: %w", redisKey, err)
		}
		if ttl < 0 {
			// Key lost its TTL (e.g. expire failed earlier); restore it
			// so the block is not permanent.
			s.client.PExpire(ctx, redisKey, s.window)
			ttl = s.window
		}
		seconds := int(ttl.Round(time.Second) / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		return Result{Allowed: false, RetryAfter: seconds}, nil
	}

	return Result{
		Allowed:   true,
		Remaining: s.points - int(count),
	}, nil
}

// Close releases the underlying Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
