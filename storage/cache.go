package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// FolderCache remembers folder ids by name for the lifetime of a session.
type FolderCache interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, id string) error
	Clear(ctx context.Context) error
}

type MemoryFolderCache struct {
	mu  sync.RWMutex
	ids map[string]string
}

func NewMemoryFolderCache() *MemoryFolderCache {
	return &MemoryFolderCache{ids: make(map[string]string)}
}

func (c *MemoryFolderCache) Get(_ context.Context, name string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[name]
	return id, ok, nil
}

func (c *MemoryFolderCache) Set(_ context.Context, name, id string) error {
	c.mu.Lock()
	c.ids[name] = id
	c.mu.Unlock()
	return nil
}

func (c *MemoryFolderCache) Clear(context.Context) error {
	c.mu.Lock()
	c.ids = make(map[string]string)
	c.mu.Unlock()
	return nil
}

// RedisFolderCache keeps folder ids in a single Redis hash so that several
// server processes share one lookup per session.
type RedisFolderCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisFolderCache(client *redis.Client, key string, ttl time.Duration) *RedisFolderCache {
	if key == "" {
		key = "invoicepro:folders"
	}
	return &RedisFolderCache{client: client, key: key, ttl: ttl}
}

func (c *RedisFolderCache) Get(ctx context.Context, name string) (string, bool, error) {
	id, err := c.client.HGet(ctx, c.key, name).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (c *RedisFolderCache) Set(ctx context.Context, name, id string) error {
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, c.key, name, id)
	if c.ttl > 0 {
		pipe.Expire(ctx, c.key, c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisFolderCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
