package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/events"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/pkg/config"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/pkg/logger"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var log = logger.NewLogger()

// Custom error types
var (
	ErrCacheNotFound   = errors.New("cache: key not found")
	ErrCacheConnection = errors.New("cache: connection error")
	ErrInvalidConfig   = errors.New("cache: invalid configuration")
)

// EngineEventChannel is the pub/sub channel for engine mutation events
const EngineEventChannel = "engine:events"

// Config holds the configuration for the Redis client
type Config struct {
	Addr             string
	Password         string
	DB               int
	PoolSize         int
	MinIdleConns     int
	MaxRetries       int
	ConnTimeout      time.Duration
	OperationTimeout time.Duration
	DefaultTTL       time.Duration
	KeyPrefix        string
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		PoolSize:         100,
		MinIdleConns:     10,
		MaxRetries:       3,
		ConnTimeout:      5 * time.Second,
		OperationTimeout: 2 * time.Second,
		DefaultTTL:       30 * time.Minute,
		KeyPrefix:        "soi",
	}
}

// RedisClient wraps the go-redis client with engine-specific helpers
type RedisClient struct {
	client *redis.Client
	cfg    *Config
}

// NewRedisClient creates a Redis client from application configuration
func NewRedisClient(appCfg *config.Config) (*RedisClient, error) {
	cfg := DefaultConfig()
	cfg.Addr = fmt.Sprintf("%s:%d", appCfg.Redis.Host, appCfg.Redis.Port)
	cfg.Password = appCfg.Redis.Password
	cfg.DB = appCfg.Redis.DB

	if cfg.Addr == ":0" {
		return nil, ErrInvalidConfig
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.ConnTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	return &RedisClient{client: client, cfg: cfg}, nil
}

func (r *RedisClient) key(k string) string {
	return r.cfg.KeyPrefix + ":" + k
}

// Get retrieves a value and unmarshals it into dest
func (r *RedisClient) Get(ctx context.Context, k string, dest interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.OperationTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.key(k)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set stores a value with the default TTL
func (r *RedisClient) Set(ctx context.Context, k string, value interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.OperationTimeout)
	defer cancel()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(k), data, r.cfg.DefaultTTL).Err()
}

// DeletePattern removes all keys matching the given pattern
func (r *RedisClient) DeletePattern(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, r.key(pattern), 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn("Failed to delete cache key",
				zap.String("key", iter.Val()),
				zap.Error(err))
		}
	}
	return iter.Err()
}

// PublishEngineEvent publishes an engine mutation event for cache
// invalidation and dashboard listeners. Callers log failures; a publish
// error never fails the triggering mutation.
func (r *RedisClient) PublishEngineEvent(ctx context.Context, event *events.EngineEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.OperationTimeout)
	defer cancel()

	return r.client.Publish(ctx, EngineEventChannel, payload).Err()
}

// HealthCheck verifies the connection is alive
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.OperationTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (r *RedisClient) Close() error {
	return r.client.Close()
}
