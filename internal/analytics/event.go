// Package analytics defines the events the server emits about links and the
// sinks that record them.
package analytics

import "time"

const (
	// TopicLinkCreated receives a LinkCreatedEvent per new link.
	TopicLinkCreated = "link.created"
	// TopicLinkVisited receives a LinkVisitedEvent per redirect.
	TopicLinkVisited = "link.visited"
)

// LinkCreatedEvent is emitted when a short link is created.
type LinkCreatedEvent struct {
	ID          string    `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortURL    string    `json:"short_url"`
	Custom      bool      `json:"custom"`
	CreatedAt   time.Time `json:"created_at"`
	ClientIP    string    `json:"client_ip,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
}

// LinkVisitedEvent is emitted when a short link redirects.
type LinkVisitedEvent struct {
	ID        string    `json:"id"`
	VisitedAt time.Time `json:"visited_at"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
}
