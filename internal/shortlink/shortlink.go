package shortlink

import (
	"slices"
	"time"
)

// ShortLink is a link record as returned by the shortlink service.
// Records are never mutated after creation.
type ShortLink struct {
	ID          string    `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortURL    string    `json:"short_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateLinkRequest is the payload for creating a short link.
// CustomSlug is omitted from the wire when empty.
type CreateLinkRequest struct {
	OriginalURL string `json:"original_url"`
	CustomSlug  string `json:"custom_slug,omitempty"`
}

// Availability is the outcome of checking a custom slug.
type Availability struct {
	Valid       bool     `json:"valid"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// SuggestionSet is the outcome of asking for alternatives to a slug.
type SuggestionSet struct {
	Original    string   `json:"original,omitempty"`
	Available   bool     `json:"available"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// SortNewestFirst returns a copy of links ordered by CreatedAt descending.
func SortNewestFirst(links []ShortLink) []ShortLink {
	sorted := slices.Clone(links)

	slices.SortStableFunc(sorted, func(a, b ShortLink) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return sorted
}
