package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/shortlink-client/internal/shortener"
	"github.com/serroba/shortlink-client/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Create(t *testing.T) {
	t.Run("creates link", func(t *testing.T) {
		s := store.NewMemoryStore()

		err := s.Create(context.Background(), &shortener.Link{ID: "abc123", OriginalURL: "https://example.com"})

		require.NoError(t, err)
	})

	t.Run("never overwrites an existing id", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Create(context.Background(), &shortener.Link{ID: "abc123", OriginalURL: "https://example.com"})

		err := s.Create(context.Background(), &shortener.Link{ID: "abc123", OriginalURL: "https://other.com"})
		require.ErrorIs(t, err, shortener.ErrIDTaken)

		link, _ := s.GetByID(context.Background(), "abc123")
		assert.Equal(t, "https://example.com", link.OriginalURL)
	})

	t.Run("stores a copy", func(t *testing.T) {
		s := store.NewMemoryStore()
		link := &shortener.Link{ID: "abc123", OriginalURL: "https://example.com"}
		_ = s.Create(context.Background(), link)

		link.OriginalURL = "https://mutated.com"

		got, _ := s.GetByID(context.Background(), "abc123")
		assert.Equal(t, "https://example.com", got.OriginalURL)
	})
}

func TestMemoryStore_GetByID(t *testing.T) {
	t.Run("returns link when found", func(t *testing.T) {
		s := store.NewMemoryStore()
		created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		_ = s.Create(context.Background(), &shortener.Link{ID: "my-link", OriginalURL: "https://example.com", Custom: true, CreatedAt: created})

		link, err := s.GetByID(context.Background(), "my-link")

		require.NoError(t, err)
		assert.Equal(t, &shortener.Link{ID: "my-link", OriginalURL: "https://example.com", Custom: true, CreatedAt: created}, link)
	})

	t.Run("returns ErrNotFound when id does not exist", func(t *testing.T) {
		s := store.NewMemoryStore()

		link, err := s.GetByID(context.Background(), "notfound")

		assert.Nil(t, link)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestMemoryStore_ExistsAndList(t *testing.T) {
	s := store.NewMemoryStore()
	_ = s.Create(context.Background(), &shortener.Link{ID: "one"})
	_ = s.Create(context.Background(), &shortener.Link{ID: "two"})

	ok, err := s.Exists(context.Background(), "one")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(context.Background(), "three")
	require.NoError(t, err)
	assert.False(t, ok)

	links, err := s.List(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.ID)
	}

	assert.ElementsMatch(t, []string{"one", "two"}, ids)
	require.NoError(t, s.Ping(context.Background()))
}
