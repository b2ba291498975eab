package shortlink

import (
	"errors"
	"net/url"
)

// ErrInvalidURL is the user-facing rejection of a malformed original URL.
var ErrInvalidURL = errors.New("Please enter a valid URL.") //nolint:staticcheck // shown verbatim to users

// ValidateURL checks that raw is an absolute http or https URL with a host.
// It runs before any network call is attempted.
func ValidateURL(raw string) error {
	if _, err := url.ParseRequestURI(raw); err != nil {
		return ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ErrInvalidURL
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidURL
	}

	return nil
}
