//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink-client/internal/shortener"
	"github.com/serroba/shortlink-client/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}

	return "localhost:6379"
}

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: getRedisAddr()})
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	return client
}

func TestRedisStoreIntegration(t *testing.T) {
	ctx := context.Background()
	client := newRedisClient(t)
	s := store.NewRedisStore(client)

	cleanup := func(ids ...string) {
		for _, id := range ids {
			client.Del(ctx, "link:"+id)
			client.ZRem(ctx, "links_by_created", id)
		}
	}

	t.Run("create and get", func(t *testing.T) {
		defer cleanup("redis-it-1")

		link := &shortener.Link{
			ID:          "redis-it-1",
			OriginalURL: "https://example.com",
			Custom:      true,
			CreatedAt:   time.Now().UTC(),
		}

		require.NoError(t, s.Create(ctx, link))

		got, err := s.GetByID(ctx, link.ID)
		require.NoError(t, err)
		assert.Equal(t, link.OriginalURL, got.OriginalURL)
		assert.True(t, got.Custom)
		assert.True(t, link.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		defer cleanup("redis-it-2")

		first := &shortener.Link{ID: "redis-it-2", OriginalURL: "https://old.com", CreatedAt: time.Now()}
		second := &shortener.Link{ID: "redis-it-2", OriginalURL: "https://new.com", CreatedAt: time.Now()}

		require.NoError(t, s.Create(ctx, first))
		require.ErrorIs(t, s.Create(ctx, second), shortener.ErrIDTaken)

		got, _ := s.GetByID(ctx, "redis-it-2")
		assert.Equal(t, "https://old.com", got.OriginalURL)
	})

	t.Run("list is newest first", func(t *testing.T) {
		defer cleanup("redis-it-old", "redis-it-new")

		base := time.Now()
		require.NoError(t, s.Create(ctx, &shortener.Link{ID: "redis-it-old", CreatedAt: base}))
		require.NoError(t, s.Create(ctx, &shortener.Link{ID: "redis-it-new", CreatedAt: base.Add(time.Second)}))

		links, err := s.List(ctx)
		require.NoError(t, err)

		var ids []string
		for _, l := range links {
			if l.ID == "redis-it-old" || l.ID == "redis-it-new" {
				ids = append(ids, l.ID)
			}
		}

		assert.Equal(t, []string{"redis-it-new", "redis-it-old"}, ids)
	})

	t.Run("missing id", func(t *testing.T) {
		got, err := s.GetByID(ctx, "redis-it-missing")

		assert.Nil(t, got)
		require.ErrorIs(t, err, shortener.ErrNotFound)

		ok, err := s.Exists(ctx, "redis-it-missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRedisCacheRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	client := newRedisClient(t)
	backing := store.NewMemoryStore()
	s := store.NewRedisCacheRepository(backing, client, time.Minute)

	defer client.Del(ctx, "link_cache:cache-it-1")

	link := &shortener.Link{ID: "cache-it-1", OriginalURL: "https://example.com", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.Create(ctx, link))

	got, err := s.GetByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, link.OriginalURL, got.OriginalURL)

	ok, err := s.Exists(ctx, link.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.ErrorIs(t, s.Create(ctx, link), shortener.ErrIDTaken)
}
