package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"esgcheck/internal/model"
)

const catalogKey = "assessment:catalog"

// CatalogCache keeps the last catalog read from the primary source
type CatalogCache interface {
	GetCatalog(ctx context.Context) ([]model.Question, error)
	SetCatalog(ctx context.Context, questions []model.Question) error
	Invalidate(ctx context.Context) error
}

type catalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache with the given expiry
func NewCatalogCache(client *redis.Client, ttl time.Duration) CatalogCache {
	return &catalogCache{
		client: client,
		ttl:    ttl,
	}
}

// GetCatalog returns nil without error on a cache miss
func (c *catalogCache) GetCatalog(ctx context.Context) ([]model.Question, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var questions []model.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *catalogCache) SetCatalog(ctx context.Context, questions []model.Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogKey, data, c.ttl).Err()
}

func (c *catalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}
