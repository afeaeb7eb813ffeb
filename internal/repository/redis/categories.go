package redis

import (
	"context"
	"encoding/json"
	"time"

	jobsdomain "tutormatch-go/internal/domain/jobs"
	"github.com/redis/go-redis/v9"
)

const categoriesKey = "tutormatch:categories"

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// CategoryCache keeps the category catalog in Redis so multiple instances
// share one copy. Any Redis or decode error reads as a miss; the catalog is
// always recoverable from the database.
type CategoryCache struct {
	client *redis.Client
}

func NewCategoryCache(client *redis.Client) *CategoryCache {
	return &CategoryCache{client: client}
}

func (c *CategoryCache) Get(ctx context.Context) ([]jobsdomain.Category, bool) {
	payload, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		return nil, false
	}

	var categories []jobsdomain.Category
	if err := json.Unmarshal(payload, &categories); err != nil {
		return nil, false
	}
	return categories, true
}

func (c *CategoryCache) Set(ctx context.Context, categories []jobsdomain.Category, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	payload, err := json.Marshal(categories)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, categoriesKey, payload, ttl).Err()
}
