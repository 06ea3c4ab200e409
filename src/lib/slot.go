package lib

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Slot is a small keyed string store standing in for the browser storage
// slots of a session (the token slot and the cart slot).
type Slot interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// SlotKey namespaces key under a session id.
func SlotKey(sessionID, key string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, key)
}

type MemorySlot struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: map[string]string{}}
}

func (m *MemorySlot) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemorySlot) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemorySlot) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// RedisSlot keeps slot values in redis with a sliding expiry.
type RedisSlot struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSlot(rdb *redis.Client, ttl time.Duration) *RedisSlot {
	return &RedisSlot{rdb: rdb, ttl: ttl}
}

func (r *RedisSlot) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		log.Printf("[redis] Error retrieving value for %s: %s\n", key, err.Error())
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisSlot) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, key, value, r.ttl).Err(); err != nil {
		log.Printf("[redis] Failed to set value for key %s: %s\n", key, err.Error())
		return err
	}
	return nil
}

func (r *RedisSlot) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

// DefaultSlot uses redis when configured and process memory otherwise.
func DefaultSlot(ttl time.Duration) Slot {
	if rdb := GetRedisClient(); rdb != nil {
		return NewRedisSlot(rdb, ttl)
	}
	log.Println("[redis] REDIS_HOST not set, keeping session slots in memory")
	return NewMemorySlot()
}
