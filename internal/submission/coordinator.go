// Package submission sends create requests gated on the slug validation
// outcome.
package submission

import (
	"context"
	"errors"
	"sync"

	"github.com/serroba/shortlink-client/internal/notify"
	"github.com/serroba/shortlink-client/internal/shortlink"
	"github.com/serroba/shortlink-client/internal/transport"
	"github.com/serroba/shortlink-client/internal/validation"
	"go.uber.org/zap"
)

const defaultErrorMessage = "Failed to create short link."

var (
	// ErrSuppressed is returned when the slug is awaiting a check, still being
	// checked or was rejected.
	ErrSuppressed = errors.New("submission suppressed until the slug is valid")
	// ErrBusy is returned while a previous submission is outstanding.
	ErrBusy = errors.New("submission already in progress")
)

// Creator creates links on the service.
type Creator interface {
	CreateLink(ctx context.Context, req shortlink.CreateLinkRequest) (shortlink.ShortLink, error)
}

// SlugSource exposes the custom-slug form state. *validation.Coordinator
// satisfies it.
type SlugSource interface {
	Form() validation.Form
	Reset()
}

// Snapshot is the published state of a Coordinator. Result and Err are
// never both set.
type Snapshot struct {
	Loading bool
	Result  string
	Err     string
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

// Coordinator runs at most one submission at a time.
type Coordinator struct {
	creator   Creator
	slug      SlugSource
	onCreated func(shortlink.ShortLink)
	logger    *zap.Logger
	onChange  func(Snapshot)
	notify    *notify.Queue[Snapshot]

	mu       sync.Mutex
	snapshot Snapshot
}

// New creates a coordinator. onCreated, when set, receives every created
// link exactly once.
func New(creator Creator, slug SlugSource, onCreated func(shortlink.ShortLink), opts ...Option) *Coordinator {
	c := &Coordinator{
		creator:   creator,
		slug:      slug,
		onCreated: onCreated,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.notify = notify.New(c.onChange)

	return c
}

// Snapshot returns the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot
}

// Submit creates a link for originalURL. It returns ErrSuppressed when the
// slug state forbids submission and ErrBusy when a previous call has not
// settled; neither reaches the service.
func (c *Coordinator) Submit(ctx context.Context, originalURL string) (shortlink.ShortLink, error) {
	req, err := c.request(originalURL)
	if err != nil {
		return shortlink.ShortLink{}, err
	}

	c.mu.Lock()
	if c.snapshot.Loading {
		c.mu.Unlock()

		return shortlink.ShortLink{}, ErrBusy
	}

	c.snapshot.Loading = true
	c.commitLocked()

	link, err := c.creator.CreateLink(ctx, req)

	c.mu.Lock()
	c.snapshot.Loading = false

	if err != nil {
		c.logger.Error("failed to create short link",
			zap.String("original_url", req.OriginalURL),
			zap.String("custom_slug", req.CustomSlug),
			zap.String("cause", transport.Describe(err)),
		)

		c.snapshot.Result = ""
		c.snapshot.Err = message(err)
		c.commitLocked()

		return shortlink.ShortLink{}, err
	}

	c.logger.Info("short link created",
		zap.String("id", link.ID),
		zap.String("short_url", link.ShortURL),
	)

	c.snapshot.Result = link.ShortURL
	c.snapshot.Err = ""
	c.commitLocked()

	if c.onCreated != nil {
		c.onCreated(link)
	}

	if c.slug != nil {
		c.slug.Reset()
	}

	return link, nil
}

// request applies the gating policy and builds the payload. A candidate
// below the minimum length is never validated, so it stays submittable and
// is left out of the payload.
func (c *Coordinator) request(originalURL string) (shortlink.CreateLinkRequest, error) {
	req := shortlink.CreateLinkRequest{OriginalURL: originalURL}

	if c.slug == nil {
		return req, nil
	}

	form := c.slug.Form()
	if !form.Enabled {
		return req, nil
	}

	if !form.Submittable() {
		return req, ErrSuppressed
	}

	if shortlink.LongEnough(form.Candidate) {
		req.CustomSlug = form.Candidate
	}

	return req, nil
}

func message(err error) string {
	var transportErr *transport.TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Error()
	}

	var appErr *transport.ApplicationError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	return defaultErrorMessage
}

// commitLocked releases c.mu and notifies the listener in commit order.
func (c *Coordinator) commitLocked() {
	drain := c.notify.Push(c.snapshot)
	c.mu.Unlock()

	if drain {
		c.notify.Drain()
	}
}
