// Package history keeps the links created or listed during one client
// session, newest first.
package history

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/serroba/shortlink-client/internal/notify"
	"github.com/serroba/shortlink-client/internal/shortlink"
	"github.com/serroba/shortlink-client/internal/transport"
	"go.uber.org/zap"
)

const loadErrorMessage = "Failed to fetch short links."

// Lister fetches every link from the service.
type Lister interface {
	ListLinks(ctx context.Context) ([]shortlink.ShortLink, error)
}

// Snapshot is the observable state of a History.
type Snapshot struct {
	Loading bool
	Links   []shortlink.ShortLink
	Err     string
}

// History is the session's collection of links.
type History struct {
	logger   *zap.Logger
	onChange func(Snapshot)
	notify   *notify.Queue[Snapshot]

	mu      sync.Mutex
	links   []shortlink.ShortLink
	loading bool
	err     string
	loads   uint64
	// added holds links prepended while a load is in flight, newest first.
	added []shortlink.ShortLink
}

// Option configures a History.
type Option func(*History)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *History) {
		h.logger = logger
	}
}

// WithOnChange registers a listener called after every change.
func WithOnChange(fn func(Snapshot)) Option {
	return func(h *History) {
		h.onChange = fn
	}
}

// New creates an empty history.
func New(opts ...Option) *History {
	h := &History{logger: zap.NewNop()}

	for _, opt := range opts {
		opt(h)
	}

	h.notify = notify.New(h.onChange)

	return h
}

// Replace discards the current links and keeps links, newest first.
func (h *History) Replace(links []shortlink.ShortLink) {
	sorted := shortlink.SortNewestFirst(links)

	h.update(func() {
		h.links = sorted
		h.err = ""
		h.added = nil
	})
}

// Prepend puts link in front. An older entry with the same id is dropped.
func (h *History) Prepend(link shortlink.ShortLink) {
	h.update(func() {
		h.links = prepend(h.links, link)

		if h.loading {
			h.added = prepend(h.added, link)
		}
	})
}

func prepend(links []shortlink.ShortLink, link shortlink.ShortLink) []shortlink.ShortLink {
	out := make([]shortlink.ShortLink, 0, len(links)+1)
	out = append(out, link)

	for _, l := range links {
		if l.ID != link.ID {
			out = append(out, l)
		}
	}

	return out
}

// Links returns a copy of the current links.
func (h *History) Links() []shortlink.ShortLink {
	h.mu.Lock()
	defer h.mu.Unlock()

	return slices.Clone(h.links)
}

// Snapshot returns the current state.
func (h *History) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.snapshotLocked()
}

// Load replaces the links with the service's list. Links prepended while
// the call is in flight stay in front, and only the latest of overlapping
// loads is applied. On failure the current links are kept and Err is set.
func (h *History) Load(ctx context.Context, lister Lister) error {
	var seq uint64

	h.update(func() {
		h.loads++
		seq = h.loads

		if !h.loading {
			h.added = nil
		}

		h.loading = true
	})

	links, err := lister.ListLinks(ctx)
	if err != nil {
		h.logger.Warn("history load failed", zap.String("cause", transport.Describe(err)))

		h.update(func() {
			if seq != h.loads {
				return
			}

			h.loading = false
			h.added = nil
			h.err = message(err)
		})

		return err
	}

	sorted := shortlink.SortNewestFirst(links)

	h.update(func() {
		if seq != h.loads {
			return
		}

		merged := slices.Clone(h.added)
		for _, l := range sorted {
			if !slices.ContainsFunc(h.added, func(a shortlink.ShortLink) bool { return a.ID == l.ID }) {
				merged = append(merged, l)
			}
		}

		h.loading = false
		h.links = merged
		h.added = nil
		h.err = ""
	})

	h.logger.Debug("history loaded", zap.Int("count", len(sorted)))

	return nil
}

func (h *History) update(fn func()) {
	h.mu.Lock()
	fn()

	// Listeners see changes in the order they were made.
	drain := h.notify.Push(h.snapshotLocked())
	h.mu.Unlock()

	if drain {
		h.notify.Drain()
	}
}

func (h *History) snapshotLocked() Snapshot {
	return Snapshot{
		Loading: h.loading,
		Links:   slices.Clone(h.links),
		Err:     h.err,
	}
}

func message(err error) string {
	var transportErr *transport.TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Error()
	}

	var appErr *transport.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	return loadErrorMessage
}
