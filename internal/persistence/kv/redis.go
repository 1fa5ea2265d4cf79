package kv

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emberlabs/ember/internal/infrastructure/env"
)

const (
	DefaultConnectionTimeout = 10 * time.Second
)

type RedisConfig struct {
	Addr              string
	Password          string
	DB                int
	ConnectionTimeout time.Duration
}

func NewRedisDefaultConfig() *RedisConfig {
	return &RedisConfig{
		Addr:              env.GetString("REDIS_ADDR", "localhost:6379"),
		Password:          env.GetString("REDIS_PASSWORD", ""),
		DB:                env.GetInt("REDIS_DB", 0),
		ConnectionTimeout: DefaultConnectionTimeout,
	}
}

// NewRedisClient connects and pings so a bad address fails at startup
// rather than on the first request.
func NewRedisClient(ctx context.Context, cfg *RedisConfig) (*redis.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config is required")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectionTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Printf("Successfully connected to Redis at %s", cfg.Addr)
	return client, nil
}

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) HSet(ctx context.Context, key string, fields map[string]any) error {
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("expire %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("ttl %s: %w", key, err)
	}

	// Redis reports -2 for an absent key and -1 for a key without expiry;
	// both collapse to zero under the Store contract.
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

func (s *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *redisStore) RPush(ctx context.Context, key string, values ...[]byte) error {
	args := make([]any, 0, len(values))
	for _, v := range values {
		args = append(args, v)
	}

	if err := s.client.RPush(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) LRange(ctx context.Context, key string) ([][]byte, error) {
	items, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}

	out := make([][]byte, 0, len(items))
	for _, item := range items {
		out = append(out, []byte(item))
	}
	return out, nil
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("del %v: %w", keys, err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
