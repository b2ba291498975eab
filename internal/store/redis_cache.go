package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink-client/internal/shortener"
)

// RedisCacheRepository wraps a Repository with a Redis read-through cache
// for single-link lookups. Listing always goes to the wrapped store.
type RedisCacheRepository struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheRepository creates a cached repository decorator.
func NewRedisCacheRepository(store shortener.Repository, client *redis.Client, ttl time.Duration) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "link_cache:",
		ttl:    ttl,
	}
}

// Create stores the link and caches it on success.
func (r *RedisCacheRepository) Create(ctx context.Context, link *shortener.Link) error {
	if err := r.store.Create(ctx, link); err != nil {
		return err
	}

	r.cacheLink(ctx, link)

	return nil
}

// GetByID checks the cache before the wrapped store.
func (r *RedisCacheRepository) GetByID(ctx context.Context, id string) (*shortener.Link, error) {
	if link, err := r.getFromCache(ctx, id); err == nil {
		return link, nil
	}

	link, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheLink(ctx, link)

	return link, nil
}

// Exists answers from the cache when the link is cached.
func (r *RedisCacheRepository) Exists(ctx context.Context, id string) (bool, error) {
	if n, err := r.client.Exists(ctx, r.prefix+id).Result(); err == nil && n > 0 {
		return true, nil
	}

	return r.store.Exists(ctx, id)
}

func (r *RedisCacheRepository) List(ctx context.Context) ([]*shortener.Link, error) {
	return r.store.List(ctx)
}

// Ping checks the cache connection.
func (r *RedisCacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, id string) (*shortener.Link, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+id).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	link := &shortener.Link{
		ID:          result["id"],
		OriginalURL: result["original_url"],
		Custom:      result["custom"] == "1",
	}

	if nanos, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		link.CreatedAt = time.Unix(0, nanos).UTC()
	}

	return link, nil
}

func (r *RedisCacheRepository) cacheLink(ctx context.Context, link *shortener.Link) {
	key := r.prefix + link.ID
	custom := "0"

	if link.Custom {
		custom = "1"
	}

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"id":           link.ID,
		"original_url": link.OriginalURL,
		"custom":       custom,
		"created_at":   link.CreatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

var _ shortener.Repository = (*RedisCacheRepository)(nil)
