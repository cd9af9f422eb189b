package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const RecordCacheTTL = 1 * time.Hour

// RecordCache holds per-user record listings so repeated dashboard loads
// skip the database.
type RecordCache struct {
	client *redis.Client
}

func NewRecordCache(client *redis.Client) *RecordCache {
	return &RecordCache{client: client}
}

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

func (c *RecordCache) Set(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, RecordCacheTTL).Err()
}

// Invalidate drops a cached listing after a mutation.
func (c *RecordCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// UserRecordsKey builds the cache key for one user's listing of a kind
// ("expense" or "income").
func UserRecordsKey(kind string, userID string) string {
	return fmt.Sprintf("records:%s:user:%s", kind, userID)
}
