package slugs

import (
	"context"
	"math/rand/v2"
	"strconv"
)

const (
	// MaxSuggestions caps the alternatives offered for one slug.
	MaxSuggestions = 5
	// MinLength is the shortest slug accepted by the service.
	MinLength = 3
)

var (
	prefixes = []string{"my-", "the-", "new-", "my", "the", "new"}
	suffixes = []string{"-link", "link", "-url", "url", "-page"}
)

// Lookup reports whether an id is already used by a link.
type Lookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Suggester derives free alternatives for a slug.
type Suggester struct {
	lookup Lookup
	filter *Filter
	intn   func(n int) int
}

// SuggesterOption configures a Suggester.
type SuggesterOption func(*Suggester)

// WithIntn replaces the random source; intn must return a value in [0, n).
func WithIntn(intn func(n int) int) SuggesterOption {
	return func(s *Suggester) {
		s.intn = intn
	}
}

// NewSuggester creates a Suggester backed by lookup and filter.
func NewSuggester(lookup Lookup, filter *Filter, opts ...SuggesterOption) *Suggester {
	s := &Suggester{
		lookup: lookup,
		filter: filter,
		intn:   rand.IntN,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Suggest returns up to MaxSuggestions unique alternatives for slug. Each
// one is at least MinLength long, passes the filter and is not taken.
func (s *Suggester) Suggest(ctx context.Context, slug string) ([]string, error) {
	b := &builder{
		ctx:    ctx,
		s:      s,
		used:   map[string]bool{slug: true},
		result: make([]string, 0, MaxSuggestions),
	}

	for range s.intn(b.remaining()) + 1 {
		b.add(slug + "-" + strconv.Itoa(s.intn(10000)))
	}

	if b.remaining() > 0 {
		for range s.intn(b.remaining()) + 1 {
			b.add(prefixes[s.intn(len(prefixes))] + slug)
		}
	}

	for i := 0; i < b.remaining(); i++ {
		b.add(slug + suffixes[s.intn(len(suffixes))])
	}

	b.add(RemoveVowels(slug))
	b.add(Compact(slug))

	if b.err != nil {
		return nil, b.err
	}

	return b.result, nil
}

type builder struct {
	ctx    context.Context
	s      *Suggester
	used   map[string]bool
	result []string
	err    error
}

func (b *builder) remaining() int {
	return MaxSuggestions - len(b.result)
}

func (b *builder) add(item string) {
	if b.err != nil || b.remaining() == 0 {
		return
	}

	if len(item) < MinLength || b.used[item] || b.s.filter.Contains(item) {
		return
	}

	taken, err := b.s.lookup.Exists(b.ctx, item)
	if err != nil {
		b.err = err

		return
	}

	b.used[item] = true

	if !taken {
		b.result = append(b.result, item)
	}
}
