// Package cache stores cleaned profile records between requests.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"IceBreaker/backend/go/internal/config"
	"IceBreaker/backend/go/internal/models"
)

// ProfileCache caches cleaned profile records by profile URL.
type ProfileCache interface {
	Get(ctx context.Context, key string) (models.ProfileRecord, bool, error)
	Set(ctx context.Context, key string, record models.ProfileRecord) error
	Close() error
}

// New builds the cache backend named in cfg. It returns nil for "none" or an empty backend.
func New(ctx context.Context, cfg config.CacheConfig) (ProfileCache, error) {
	ttl := config.Duration(cfg.TTL, time.Hour)
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemory(cfg.Capacity, ttl), nil
	case "redis":
		r, err := NewRedis(ctx, cfg.Redis, ttl)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}

// Records are stored encoded so that callers never share maps with the cache.
func encode(r models.ProfileRecord) ([]byte, error) {
	return json.Marshal(r)
}

func decode(b []byte) (models.ProfileRecord, error) {
	var r models.ProfileRecord
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return r, nil
}
