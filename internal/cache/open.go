package cache

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// Store is a raw content cache backend
type Store interface {
	Get(sha, path string) (string, bool)
	Put(sha, path, content string) error
	Close() error
}

// Open picks the backend from the location: a redis:// or rediss:// URL
// selects Redis, anything else is a bbolt file path
func Open(ctx context.Context, location string, logger *logrus.Logger) (Store, error) {
	if strings.HasPrefix(location, "redis://") || strings.HasPrefix(location, "rediss://") {
		c, err := OpenRedisContentCache(ctx, location, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	c, err := OpenContentCache(location)
	if err != nil {
		return nil, err
	}
	return c, nil
}
