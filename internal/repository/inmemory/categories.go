package inmemory

import (
	"context"
	"sync"
	"time"

	jobsdomain "tutormatch-go/internal/domain/jobs"
)

// CategoryCache is the single-instance fallback when Redis is not
// configured.
type CategoryCache struct {
	mu        sync.RWMutex
	value     []jobsdomain.Category
	expiresAt time.Time
}

func NewCategoryCache() *CategoryCache {
	return &CategoryCache{}
}

func (c *CategoryCache) Get(_ context.Context) ([]jobsdomain.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.value == nil || !c.expiresAt.After(time.Now()) {
		return nil, false
	}

	result := make([]jobsdomain.Category, len(c.value))
	copy(result, c.value)
	return result, true
}

func (c *CategoryCache) Set(_ context.Context, categories []jobsdomain.Category, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	value := make([]jobsdomain.Category, len(categories))
	copy(value, categories)

	c.mu.Lock()
	c.value = value
	c.expiresAt = time.Now().Add(ttl)
	c.mu.Unlock()
}
