package sendcap

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCounter enforces the daily send cap with a per-day key. Reserve is an
// atomic INCRBY followed by a compare, so two concurrent sends near the cap
// cannot both slip under it.
type RedisCounter struct {
	rdb    *redis.Client
	limit  int
	logger *zap.Logger
}

func NewRedis(addr string, limit int, logger *zap.Logger) (*RedisCounter, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisCounter{rdb: rdb, limit: limit, logger: logger}, nil
}

func dayKey(now time.Time) string {
	return "sendcap:" + now.UTC().Format("2006-01-02")
}

func (c *RedisCounter) Reserve(ctx context.Context, n int) (bool, error) {
	key := dayKey(time.Now())
	total, err := c.rdb.IncrBy(ctx, key, int64(n)).Result()
	if err != nil {
		return false, err
	}
	// keep yesterday's key around briefly for inspection, then let it expire
	c.rdb.Expire(ctx, key, 48*time.Hour)
	if total > int64(c.limit) {
		if err := c.rdb.DecrBy(ctx, key, int64(n)).Err(); err != nil {
			c.logger.Warn("cap rollback failed", zap.Error(err))
		}
		return false, nil
	}
	return true, nil
}

func (c *RedisCounter) Release(ctx context.Context, n int) {
	if err := c.rdb.DecrBy(ctx, dayKey(time.Now()), int64(n)).Err(); err != nil {
		c.logger.Warn("cap release failed", zap.Error(err))
	}
}

func (c *RedisCounter) Close() error { return c.rdb.Close() }
