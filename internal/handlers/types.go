package handlers

import "time"

// LinkBody is the wire form of a short link.
type LinkBody struct {
	ID          string    `doc:"Custom slug or generated code" example:"abc123"                    json:"id"`
	OriginalURL string    `doc:"Destination URL"               example:"https://example.com/a/b/c" json:"original_url"`
	ShortURL    string    `doc:"Public short URL"              json:"short_url"`
	CreatedAt   time.Time `doc:"Creation time"                 json:"created_at"`
}

type ValidateSlugRequest struct {
	Body struct {
		CustomSlug string `doc:"Desired slug" example:"my-link" json:"custom_slug"`
	}
}

type ValidateSlugResponse struct {
	Body struct {
		Valid       bool     `json:"valid"`
		Slug        string   `json:"slug"`
		Reason      string   `json:"reason,omitempty"`
		Suggestions []string `json:"suggestions,omitempty"`
	}
}

type SuggestSlugRequest struct {
	Body struct {
		Slug string `doc:"Desired slug" example:"my-link" json:"slug"`
	}
}

type SuggestSlugResponse struct {
	Body struct {
		Original    string   `json:"original"`
		Available   bool     `json:"available"`
		Suggestions []string `json:"suggestions"`
	}
}

type CreateLinkRequest struct {
	Body struct {
		OriginalURL string `doc:"URL to shorten" example:"https://example.com/a/b/c" json:"original_url"`
		CustomSlug  string `doc:"Optional slug"  example:"my-link"                   json:"custom_slug,omitempty"`
	}
}

// LinkResponse returns one link. Creation sets Status to 201 and Location.
type LinkResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
	Body LinkBody
}

type ListLinksResponse struct {
	Body []LinkBody
}

type LinkIDRequest struct {
	ID string `doc:"Link id" example:"abc123" path:"id"`
}

type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}

// SlugError rejects a custom slug, optionally proposing alternatives. It is
// rendered as {"error": ..., "suggestions": [...]}.
type SlugError struct {
	status      int
	Message     string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *SlugError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *SlugError) GetStatus() int {
	return e.status
}

// NewSlugError creates a SlugError with the given HTTP status.
func NewSlugError(status int, message string, suggestions []string) *SlugError {
	return &SlugError{status: status, Message: message, Suggestions: suggestions}
}
