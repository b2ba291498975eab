package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink-client/internal/shortener"
)

// RedisStore is a Redis shortener.Repository. Each link is a JSON string
// key claimed with SETNX; a sorted set scored by creation time indexes them.
type RedisStore struct {
	client   *redis.Client
	prefix   string
	indexKey string
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:   client,
		prefix:   "link:",
		indexKey: "links_by_created",
	}
}

type redisLink struct {
	ID          string    `json:"id"`
	OriginalURL string    `json:"original_url"`
	Custom      bool      `json:"custom"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *RedisStore) Create(ctx context.Context, link *shortener.Link) error {
	payload, err := json.Marshal(redisLink(*link))
	if err != nil {
		return err
	}

	claimed, err := r.client.SetNX(ctx, r.prefix+link.ID, payload, 0).Result()
	if err != nil {
		return err
	}

	if !claimed {
		return shortener.ErrIDTaken
	}

	return r.client.ZAdd(ctx, r.indexKey, redis.Z{
		Score:  float64(link.CreatedAt.UnixNano()),
		Member: link.ID,
	}).Err()
}

func (r *RedisStore) GetByID(ctx context.Context, id string) (*shortener.Link, error) {
	payload, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return decodeLink(payload)
}

func (r *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+id).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// List returns links newest first.
func (r *RedisStore) List(ctx context.Context) ([]*shortener.Link, error) {
	ids, err := r.client.ZRevRange(ctx, r.indexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*shortener.Link{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.prefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	links := make([]*shortener.Link, 0, len(values))

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}

		link, err := decodeLink([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}

		links = append(links, link)
	}

	return links, nil
}

// Ping checks Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func decodeLink(payload []byte) (*shortener.Link, error) {
	var stored redisLink
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}

	link := shortener.Link(stored)

	return &link, nil
}

var _ shortener.Repository = (*RedisStore)(nil)
