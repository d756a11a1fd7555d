package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bggapi/config"
	"bggapi/models"

	"github.com/redis/go-redis/v9"
)

// GameCachePrefix prefixes merged game responses: game:123
const GameCachePrefix = "game:"

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores merged game responses in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg config.RedisConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, cfg.TTL), nil
}

func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

// Set stores any value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Get retrieves value from cache
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func gameKey(gameID int64) string {
	return fmt.Sprintf("%s%d", GameCachePrefix, gameID)
}

// GetGame returns a cached game response or ErrCacheMiss.
func (c *Cache) GetGame(ctx context.Context, gameID int64) (*models.GameResponse, error) {
	var resp models.GameResponse
	if err := c.Get(ctx, gameKey(gameID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetGame caches a game response for the configured TTL.
func (c *Cache) SetGame(ctx context.Context, gameID int64, resp models.GameResponse) error {
	return c.Set(ctx, gameKey(gameID), resp, c.ttl)
}
