package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "portal:session:"

// RedisSessionCache keeps refresh sessions in redis. When redis is
// unreachable at startup the cache runs in bypass mode: Store and Revoke
// become no-ops and Exists reports an error so the service can decide to
// skip the revocation check instead of locking everyone out.
type RedisSessionCache struct {
	client *redis.Client
	logger *slog.Logger

	warnedUnavailable atomic.Bool
}

var ErrCacheUnavailable = errors.New("session cache unavailable")

func NewRedisSessionCache(addr, password string, db int, logger *slog.Logger) *RedisSessionCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, session revocation disabled", "error", err)
		_ = client.Close()
		return &RedisSessionCache{client: nil, logger: logger}
	}

	return &RedisSessionCache{client: client, logger: logger}
}

func (c *RedisSessionCache) bypassed() bool {
	return c == nil || c.client == nil
}

func (c *RedisSessionCache) warnOnce(err error) {
	if c == nil || c.logger == nil {
		return
	}
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		c.logger.Warn("session cache degraded, bypassing", "error", err)
	}
}

func (c *RedisSessionCache) Store(ctx context.Context, tokenID, username string, ttl time.Duration) error {
	if c.bypassed() {
		c.warnOnce(nil)
		return nil
	}
	if err := c.client.Set(ctx, sessionKeyPrefix+tokenID, username, ttl).Err(); err != nil {
		c.warnOnce(err)
		return ErrCacheUnavailable
	}
	return nil
}

func (c *RedisSessionCache) Exists(ctx context.Context, tokenID string) (bool, error) {
	if c.bypassed() {
		return false, ErrCacheUnavailable
	}
	n, err := c.client.Exists(ctx, sessionKeyPrefix+tokenID).Result()
	if err != nil {
		c.warnOnce(err)
		return false, ErrCacheUnavailable
	}
	return n > 0, nil
}

func (c *RedisSessionCache) Revoke(ctx context.Context, tokenID string) error {
	if c.bypassed() {
		return nil
	}
	if err := c.client.Del(ctx, sessionKeyPrefix+tokenID).Err(); err != nil {
		c.warnOnce(err)
		return ErrCacheUnavailable
	}
	return nil
}
