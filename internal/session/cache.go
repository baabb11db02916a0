package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by a Cache that holds no snapshot for the user.
var ErrCacheMiss = errors.New("session cache miss")

// Cache stores one snapshot per user.
type Cache interface {
	Get(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
	Set(ctx context.Context, snap *Snapshot) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// MemoryCache keeps snapshots in process. Values are copied on the way in and out.
type MemoryCache struct {
	mu    sync.RWMutex
	snaps map[uuid.UUID]*Snapshot
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{snaps: make(map[uuid.UUID]*Snapshot)}
}

func (c *MemoryCache) Get(_ context.Context, userID uuid.UUID) (*Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snaps[userID]
	if !ok {
		return nil, ErrCacheMiss
	}
	return snap.Clone(), nil
}

func (c *MemoryCache) Set(_ context.Context, snap *Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps[snap.UserID] = snap.Clone()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.snaps, userID)
	return nil
}

// RedisCache stores JSON encoded snapshots with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func snapshotKey(userID uuid.UUID) string {
	return fmt.Sprintf("session:snapshot:%s", userID)
}

func (c *RedisCache) Get(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

func (c *RedisCache) Set(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(snap.UserID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
