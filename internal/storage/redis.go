package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	config "github.com/curachain/claimscan/configs"
)

var DEFAULT_REDIS_POOL_SIZE = 20

// RedisCursorStore persists cursors in redis so multiple replicas resume from
// the same boundary.
type RedisCursorStore struct {
	client *redis.Client
	cfg    *config.RedisConfig
}

func NewRedisCursorStore(cfg *config.RedisConfig) (*RedisCursorStore, error) {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = DEFAULT_REDIS_POOL_SIZE
	}

	options := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: poolSize,
	}

	client := redis.NewClient(options)

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Debug().Str("addr", cfg.Addr).Msg("Connected to Redis for cursor storage")
	return &RedisCursorStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (r *RedisCursorStore) GetCursor(key string) (uint64, bool, error) {
	ctx := context.Background()
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get cursor %s: %w", key, err)
	}

	block, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("cursor %s holds a non-numeric value %q: %w", key, value, err)
	}
	return block, true, nil
}

func (r *RedisCursorStore) SetCursor(key string, block uint64) error {
	ctx := context.Background()
	if err := r.client.Set(ctx, key, strconv.FormatUint(block, 10), 0).Err(); err != nil {
		return fmt.Errorf("failed to set cursor %s: %w", key, err)
	}
	return nil
}
