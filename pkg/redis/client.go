package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps go-redis with timing logs for every call.
type Client struct {
	rdb *redis.Client
	log *zap.Logger
}

// NewClient creates a new Redis client
func NewClient(redisURL string, log *zap.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 20
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Client{rdb: rdb, log: log}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// HGet reads one hash field. A missing field returns redis.Nil.
func (c *Client) HGet(ctx context.Context, key, field string) ([]byte, error) {
	start := time.Now()
	val, err := c.rdb.HGet(ctx, key, field).Bytes()
	dur := time.Since(start)
	if err != nil && err != redis.Nil {
		c.log.Info("redis_hget",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_hget",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur))
	}
	return val, err
}

// HMGet reads several hash fields; absent fields come back as nil.
func (c *Client) HMGet(ctx context.Context, key string, fields ...string) ([]interface{}, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	start := time.Now()
	vals, err := c.rdb.HMGet(ctx, key, fields...).Result()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_hmget",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Int("fields", len(fields)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_hmget",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Int("fields", len(fields)),
			zap.Duration("duration", dur))
	}
	return vals, err
}

// ZRangeByLex returns sorted-set members between min and max in byte order.
func (c *Client) ZRangeByLex(ctx context.Context, key, min, max string) ([]string, error) {
	start := time.Now()
	members, err := c.rdb.ZRangeByLex(ctx, key, &redis.ZRangeBy{Min: min, Max: max}).Result()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_zrangebylex",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_zrangebylex",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Int("members", len(members)),
			zap.Duration("duration", dur))
	}
	return members, err
}

// TxPipelined runs fn inside MULTI/EXEC.
func (c *Client) TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) error {
	start := time.Now()
	cmds, err := c.rdb.TxPipelined(ctx, fn)
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_tx",
			zap.Int("commands", len(cmds)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_tx",
			zap.Int("commands", len(cmds)),
			zap.Duration("duration", dur))
	}
	return err
}

// Health checks the Redis connection
func (c *Client) Health(ctx context.Context) error {
	start := time.Now()
	err := c.rdb.Ping(ctx).Err()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_ping",
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_ping", zap.Duration("duration", dur))
	}
	return err
}

// prefixForLog returns a safe prefix of a key to avoid logging PII
func prefixForLog(key string) string {
	if len(key) <= 24 {
		return key
	}
	return key[:24] + "…"
}
