// Package suggestion fetches alternative slugs on explicit user request.
package suggestion

import (
	"context"
	"slices"
	"sync"

	"github.com/serroba/shortlink-client/internal/generation"
	"github.com/serroba/shortlink-client/internal/notify"
	"github.com/serroba/shortlink-client/internal/shortlink"
	"go.uber.org/zap"
)

// ErrorMessage is published when suggestions cannot be loaded.
const ErrorMessage = "Could not load suggestions."

// Fetcher asks the service for alternatives to a slug.
type Fetcher interface {
	FetchSuggestions(ctx context.Context, candidate string) (shortlink.SuggestionSet, error)
}

// Acceptor takes a picked suggestion as the new candidate.
type Acceptor interface {
	Accept(candidate string)
}

// Snapshot is the published state of a Coordinator.
type Snapshot struct {
	Loading     bool
	Err         string
	Suggestions []string
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the coordinator logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithOnChange registers a listener called, in order, after every change.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Coordinator) {
		c.onChange = fn
	}
}

// Coordinator owns the loading, error and suggestions triple. Its token
// space is independent of the validation coordinator.
type Coordinator struct {
	fetcher  Fetcher
	acceptor Acceptor
	logger   *zap.Logger
	onChange func(Snapshot)
	notify   *notify.Queue[Snapshot]
	tokens   generation.Counter

	mu       sync.Mutex
	snapshot Snapshot
	closed   bool
}

// New creates a coordinator. acceptor receives picked suggestions.
func New(fetcher Fetcher, acceptor Acceptor, opts ...Option) *Coordinator {
	c := &Coordinator{
		fetcher:  fetcher,
		acceptor: acceptor,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.notify = notify.New(c.onChange)

	return c
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.copyLocked()
}

// Refresh fetches suggestions for candidate and blocks until the call
// settles. An empty candidate is a no-op. Only the latest refresh may
// publish its outcome.
func (c *Coordinator) Refresh(ctx context.Context, candidate string) {
	if candidate == "" {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return
	}

	token := c.tokens.Next()
	c.snapshot.Loading = true
	c.snapshot.Err = ""
	c.commitLocked()

	set, err := c.fetcher.FetchSuggestions(ctx, candidate)

	c.mu.Lock()
	if c.closed || !c.tokens.IsCurrent(token) {
		c.mu.Unlock()
		c.logger.Debug("discarding stale suggestions", zap.String("candidate", candidate))

		return
	}

	c.snapshot.Loading = false

	switch {
	case err != nil:
		c.logger.Error("failed to fetch slug suggestions",
			zap.String("candidate", candidate),
			zap.Error(err),
		)

		c.snapshot.Err = ErrorMessage
		c.snapshot.Suggestions = []string{}
	case set.Available:
		c.snapshot.Suggestions = []string{}
	default:
		c.snapshot.Suggestions = append([]string{}, set.Suggestions...)
	}

	c.commitLocked()
}

// Select hands s to the acceptor, which makes it the candidate and resets
// validation to idle.
func (c *Coordinator) Select(s string) {
	c.acceptor.Accept(s)
}

// Close retires any outstanding refresh.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.tokens.Next()
}

func (c *Coordinator) copyLocked() Snapshot {
	s := c.snapshot
	s.Suggestions = slices.Clone(c.snapshot.Suggestions)

	return s
}

// commitLocked releases c.mu and notifies the listener in commit order.
func (c *Coordinator) commitLocked() {
	drain := c.notify.Push(c.copyLocked())
	c.mu.Unlock()

	if drain {
		c.notify.Drain()
	}
}
