package cache

import (
	"context"
	"time"

	"IceBreaker/backend/go/internal/models"
)

// Memory is an in-process ProfileCache backed by LRU.
type Memory struct {
	lru *LRU[string, []byte]
}

// NewMemory creates a Memory cache.
func NewMemory(capacity int, ttl time.Duration) *Memory {
	return &Memory{lru: NewLRU[string, []byte](capacity, ttl)}
}

func (m *Memory) Get(_ context.Context, key string) (models.ProfileRecord, bool, error) {
	b, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	r, err := decode(b)
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

func (m *Memory) Set(_ context.Context, key string, record models.ProfileRecord) error {
	b, err := encode(record)
	if err != nil {
		return err
	}
	m.lru.Put(key, b)
	return nil
}

func (m *Memory) Close() error { return nil }
