package slugs

import "strings"

// Sanitize lower-cases s, turns spaces into hyphens, drops characters
// outside [a-z0-9-] and collapses runs of hyphens, trimming them at both
// ends.
func Sanitize(s string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}

	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })

	return strings.Join(parts, "-")
}

// RemoveVowels drops a, e, i, o and u from s.
func RemoveVowels(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			return -1
		default:
			return r
		}
	}, s)
}

// Compact removes the hyphens from s.
func Compact(s string) string {
	return strings.ReplaceAll(s, "-", "")
}
