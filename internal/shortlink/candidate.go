package shortlink

import (
	"strings"
	"unicode"
)

const (
	// MinSlugLength is the shortest candidate that is worth validating.
	MinSlugLength = 3
	// MaxSlugLength caps the candidate at the edit boundary.
	MaxSlugLength = 30
)

// NormalizeCandidate lower-cases raw, turns every run of whitespace into a
// single hyphen, drops anything outside [a-z0-9-] and caps the result at
// MaxSlugLength characters.
func NormalizeCandidate(raw string) string {
	var b strings.Builder

	inSpace := false

	for _, r := range strings.ToLower(raw) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
			}

			inSpace = true

			continue
		}

		inSpace = false

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}

	s := b.String()
	if len(s) > MaxSlugLength {
		s = s[:MaxSlugLength]
	}

	return s
}

// LongEnough reports whether a normalized candidate reaches MinSlugLength.
func LongEnough(candidate string) bool {
	return len(candidate) >= MinSlugLength
}
