package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rohankatakam/playlistlog/internal/errors"
	"github.com/sirupsen/logrus"
)

const (
	redisKeyPrefix = "playlistlog:content:"
	redisOpTimeout = 5 * time.Second
)

// RedisContentCache stores raw file content in Redis so several runs or
// machines can share it. Entries are written without a TTL.
type RedisContentCache struct {
	client *redis.Client
	logger *logrus.Logger
}

// OpenRedisContentCache connects to the Redis server named by a redis:// or
// rediss:// URL and verifies connectivity
func OpenRedisContentCache(ctx context.Context, rawURL string, logger *logrus.Logger) (*RedisContentCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, errors.NetworkErrorf(err, "invalid redis URL")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.NetworkErrorf(err, "failed to connect to redis at %s", opts.Addr)
	}

	logger.WithField("addr", opts.Addr).Info("Redis content cache connected")
	return &RedisContentCache{client: client, logger: logger}, nil
}

func redisKey(sha, path string) string {
	return redisKeyPrefix + sha + ":" + path
}

// Get returns the cached content and whether it was present. Redis errors
// count as a miss.
func (c *RedisContentCache) Get(sha, path string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, redisKey(sha, path)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		c.logger.WithError(err).WithField("path", path).Debug("Redis get failed")
		return "", false
	}
	return val, true
}

// Put stores content for (sha, path)
func (c *RedisContentCache) Put(sha, path, content string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := c.client.Set(ctx, redisKey(sha, path), content, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed for %s@%s: %w", path, sha, err)
	}
	return nil
}

// Close closes the Redis client connection
func (c *RedisContentCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	return nil
}
