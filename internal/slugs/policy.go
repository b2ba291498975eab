// Package slugs decides whether a custom slug may be used and proposes
// alternatives when it may not.
package slugs

import (
	"context"
	"fmt"
)

// Verdict is the outcome of checking one slug.
type Verdict struct {
	Slug        string
	Valid       bool
	Reason      string
	Suggestions []string
	Prohibited  bool
	Taken       bool
}

// Alternatives answers a suggestion request.
type Alternatives struct {
	Original    string
	Available   bool
	Suggestions []string
}

// Policy applies the slug rules against the current set of links.
type Policy struct {
	lookup    Lookup
	filter    *Filter
	suggester *Suggester
}

// NewPolicy creates a policy. filter decides prohibited content and
// suggester proposes alternatives.
func NewPolicy(lookup Lookup, filter *Filter, suggester *Suggester) *Policy {
	return &Policy{
		lookup:    lookup,
		filter:    filter,
		suggester: suggester,
	}
}

// Check sanitizes raw and reports whether it can be used as a slug.
// Taken slugs come with suggestions; prohibited ones do not.
func (p *Policy) Check(ctx context.Context, raw string) (Verdict, error) {
	slug := Sanitize(raw)
	v := Verdict{Slug: slug}

	if len(slug) < MinLength {
		v.Reason = fmt.Sprintf("Slug must be at least %d characters", MinLength)

		return v, nil
	}

	if p.filter.Contains(slug) {
		v.Prohibited = true
		v.Reason = "Slug contains prohibited content"

		return v, nil
	}

	taken, err := p.lookup.Exists(ctx, slug)
	if err != nil {
		return Verdict{}, fmt.Errorf("check slug %q: %w", slug, err)
	}

	if taken {
		suggestions, err := p.suggester.Suggest(ctx, slug)
		if err != nil {
			return Verdict{}, fmt.Errorf("suggest for %q: %w", slug, err)
		}

		v.Taken = true
		v.Reason = "Slug is already taken"
		v.Suggestions = suggestions

		return v, nil
	}

	v.Valid = true

	return v, nil
}

// Alternatives sanitizes raw and, when it cannot be used, proposes
// replacements.
func (p *Policy) Alternatives(ctx context.Context, raw string) (Alternatives, error) {
	slug := Sanitize(raw)
	a := Alternatives{Original: slug, Suggestions: []string{}}

	taken, err := p.lookup.Exists(ctx, slug)
	if err != nil {
		return Alternatives{}, fmt.Errorf("check slug %q: %w", slug, err)
	}

	if !taken && !p.filter.Contains(slug) {
		a.Available = true

		return a, nil
	}

	suggestions, err := p.suggester.Suggest(ctx, slug)
	if err != nil {
		return Alternatives{}, fmt.Errorf("suggest for %q: %w", slug, err)
	}

	a.Suggestions = suggestions

	return a, nil
}
