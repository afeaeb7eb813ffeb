package jobs

import (
	"context"
	"time"
)

// CategoryCache fronts the category catalog, which changes rarely and is
// read on every job form render.
type CategoryCache interface {
	Get(ctx context.Context) ([]Category, bool)
	Set(ctx context.Context, categories []Category, ttl time.Duration)
}

type noopCategoryCache struct{}

func (noopCategoryCache) Get(context.Context) ([]Category, bool) { return nil, false }

func (noopCategoryCache) Set(context.Context, []Category, time.Duration) {}

func NewNoopCategoryCache() CategoryCache {
	return noopCategoryCache{}
}
