package redis

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings.
type Config struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int

	// ElastiCache settings
	ClusterMode   bool
	SentinelAddrs []string
	MasterName    string
}

// Client wraps the Redis connection backing the template cache.
type Client struct {
	native redis.UniversalClient
}

// NewClient connects to Redis and pings it within cfg.DialTimeout.
// Cluster mode and sentinel failover are selected from cfg.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	rdb := newUniversal(cfg)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Client{native: rdb}, nil
}

func newUniversal(cfg Config) redis.UniversalClient {
	switch {
	case cfg.ClusterMode:
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        []string{cfg.Addr},
			Password:     cfg.Password,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
		})
	case len(cfg.SentinelAddrs) > 0:
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.MasterName,
			SentinelAddrs: cfg.SentinelAddrs,
			Password:      cfg.Password,
			DB:            cfg.DB,
			DialTimeout:   cfg.DialTimeout,
			ReadTimeout:   cfg.ReadTimeout,
			WriteTimeout:  cfg.WriteTimeout,
			PoolSize:      cfg.PoolSize,
			MinIdleConns:  cfg.MinIdleConns,
		})
	default:
		return redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
		})
	}
}

// Get retrieves a value by key. A missing key returns redis.Nil.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.native.Get(ctx, key).Result()
}

// Set stores a value with an expiration.
func (c *Client) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return c.native.Set(ctx, key, value, expiration).Err()
}

// Del deletes keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.native.Del(ctx, keys...).Err()
}

// TTL returns the remaining time to live of a key.
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.native.TTL(ctx, key).Result()
}

// DeleteMatching removes every key matching pattern, scanning count keys
// per round trip. In cluster mode every master is scanned, since SCAN only
// walks the keyspace of the node that serves it.
func (c *Client) DeleteMatching(ctx context.Context, pattern string, count int64) (int, error) {
	cluster, ok := c.native.(*redis.ClusterClient)
	if !ok {
		n, err := deleteMatchingOn(ctx, c.native, pattern, count)
		return int(n), err
	}

	var deleted atomic.Int64
	err := cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
		n, err := deleteMatchingOn(ctx, node, pattern, count)
		deleted.Add(n)
		return err
	})
	return int(deleted.Load()), err
}

// deleteMatchingOn scans a single node. Keys are unlinked one command per
// key so a batch never spans hash slots.
func deleteMatchingOn(ctx context.Context, rdb redis.Cmdable, pattern string, count int64) (int64, error) {
	var (
		cursor  uint64
		deleted int64
	)

	for {
		keys, next, err := rdb.Scan(ctx, cursor, pattern, count).Result()
		if err != nil {
			return deleted, fmt.Errorf("scan redis keys: %w", err)
		}

		if len(keys) > 0 {
			cmds := make([]*redis.IntCmd, 0, len(keys))
			_, err := rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
				for _, key := range keys {
					cmds = append(cmds, pipe.Unlink(ctx, key))
				}
				return nil
			})
			if err != nil {
				return deleted, fmt.Errorf("delete redis keys: %w", err)
			}
			for _, cmd := range cmds {
				deleted += cmd.Val()
			}
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.native.Close()
}
