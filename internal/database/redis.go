package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Dashrath-Patel/CareerVision.AI/internal/config"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

// ErrCacheMiss is returned by RedisCache.Get when the key is absent or Redis is down.
var ErrCacheMiss = errors.New("cache miss")

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	if _, err := Redis.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis. Leaderboard caching will be disabled.")
		Redis = nil
		return
	}
	logger.Info().Str("addr", config.AppConfig.RedisAddr).Msg("Connected to Redis successfully")
}

// RedisCache is a JSON cache over a redis client. A nil client turns every call
// into a miss / no-op so callers never need to special-case a missing Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c == nil || c.client == nil {
		return ErrCacheMiss
	}
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), payload, ttl).Err()
}

// Invalidate removes every key under the cache prefix (SCAN, not KEYS).
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}
