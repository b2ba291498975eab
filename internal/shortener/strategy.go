package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultCodeAttempts bounds how often TokenStrategy retries a colliding code.
const DefaultCodeAttempts = 5

// Request asks for a new link. Slug is already sanitized; empty means a
// generated code.
type Request struct {
	OriginalURL string
	Slug        string
}

// Strategy decides the id of a new link and stores it.
type Strategy interface {
	Shorten(ctx context.Context, req Request) (*Link, error)
}

// CodeGenerator generates candidate short codes.
type CodeGenerator func() string

// Clock returns the creation time of new links.
type Clock func() time.Time

// TokenStrategy stores the link under a freshly generated code, retrying
// when the code collides with an existing link.
type TokenStrategy struct {
	store        Repository
	generateCode CodeGenerator
	now          Clock
	attempts     int
}

// NewTokenStrategy creates a generated-code strategy.
func NewTokenStrategy(store Repository, generator CodeGenerator, now Clock) *TokenStrategy {
	return &TokenStrategy{
		store:        store,
		generateCode: generator,
		now:          now,
		attempts:     DefaultCodeAttempts,
	}
}

func (s *TokenStrategy) Shorten(ctx context.Context, req Request) (*Link, error) {
	for range s.attempts {
		link := &Link{
			ID:          s.generateCode(),
			OriginalURL: req.OriginalURL,
			CreatedAt:   s.now(),
		}

		err := s.store.Create(ctx, link)
		if err == nil {
			return link, nil
		}

		if !errors.Is(err, ErrIDTaken) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("no free code after %d attempts: %w", s.attempts, ErrIDTaken)
}

// CustomStrategy stores the link under the requested slug.
type CustomStrategy struct {
	store Repository
	now   Clock
}

// NewCustomStrategy creates a custom-slug strategy.
func NewCustomStrategy(store Repository, now Clock) *CustomStrategy {
	return &CustomStrategy{store: store, now: now}
}

func (s *CustomStrategy) Shorten(ctx context.Context, req Request) (*Link, error) {
	link := &Link{
		ID:          req.Slug,
		OriginalURL: req.OriginalURL,
		Custom:      true,
		CreatedAt:   s.now(),
	}

	if err := s.store.Create(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}
