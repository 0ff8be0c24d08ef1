package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"IceBreaker/backend/go/internal/config"
	"IceBreaker/backend/go/internal/models"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "icebreaker:profile:"

// Redis is a ProfileCache shared between service instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and checks the connection with PING.
func NewRedis(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("无法连接到 Redis: %w", err)
	}
	return &Redis{client: rdb, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (models.ProfileRecord, bool, error) {
	b, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	rec, err := decode(b)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, record models.ProfileRecord) error {
	b, err := encode(record)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+key, b, r.ttl).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
