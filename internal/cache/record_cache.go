package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const RecordCacheTTL = 1 * time.Hour

// RecordCache caches per-user record lists and totals. Entries are
// invalidated on every mutation for the owning user.
type RecordCache struct {
	client *redis.Client
}

func NewRecordCache(client *redis.Client) *RecordCache {
	return &RecordCache{client: client}
}

// Get returns the cached value, or nil on a miss.
func (c *RecordCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

// Set stores the value with the default TTL.
func (c *RecordCache) Set(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, RecordCacheTTL).Err()
}

// Invalidate drops the given keys.
func (c *RecordCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Build cache key for a user's expense list
func UserExpensesKey(userID int) string {
	return fmt.Sprintf("expenses:user:%d", userID)
}

// Build cache key for a user's saving list
func UserSavingsKey(userID int) string {
	return fmt.Sprintf("savings:user:%d", userID)
}

// Build cache key for a user's running totals
func UserSummaryKey(userID int) string {
	return fmt.Sprintf("summary:user:%d", userID)
}
