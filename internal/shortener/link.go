package shortener

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no link has the requested id.
	ErrNotFound = errors.New("short link not found")
	// ErrIDTaken is returned when a link with the same id already exists.
	ErrIDTaken = errors.New("short link id already taken")
)

// Link is a stored short link. ID is either a custom slug or a generated code.
type Link struct {
	ID          string
	OriginalURL string
	Custom      bool
	CreatedAt   time.Time
}

// Repository persists links.
type Repository interface {
	// Create stores link. It returns ErrIDTaken when the id is in use and
	// never overwrites an existing link.
	Create(ctx context.Context, link *Link) error
	GetByID(ctx context.Context, id string) (*Link, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*Link, error)
}
