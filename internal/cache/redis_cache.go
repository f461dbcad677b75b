package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "pharmapulse:advisor:"

type RedisAdvisoryCache struct {
	client *redis.Client
}

func NewRedisAdvisoryCache(addr string, password string, db int) *RedisAdvisoryCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisAdvisoryCache{client: client}
}

func (c *RedisAdvisoryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisAdvisoryCache) Close() error {
	return c.client.Close()
}

func (c *RedisAdvisoryCache) Get(ctx context.Context, key string) (*Entry, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry Entry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		// Unreadable payloads are dropped so the next answer replaces them.
		_ = c.client.Del(ctx, keyPrefix+key).Err()
		return nil, false, err
	}
	return &entry, true, nil
}

// Set stores value for its kind's lifetime derived from ttl.
func (c *RedisAdvisoryCache) Set(ctx context.Context, key string, value *Entry, ttl time.Duration) error {
	if value == nil || value.Text == "" {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, payload, value.Kind.TTL(ttl)).Err()
}

// TTL reports the remaining lifetime of a cached answer. Missing keys
// report zero.
func (c *RedisAdvisoryCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := c.client.TTL(ctx, keyPrefix+key).Result()
	if err != nil {
		return 0, err
	}
	return max(d, 0), nil
}
