package submission_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/serroba/shortlink-client/internal/shortlink"
	"github.com/serroba/shortlink-client/internal/submission"
	"github.com/serroba/shortlink-client/internal/transport"
	"github.com/serroba/shortlink-client/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCreator struct {
	mu       sync.Mutex
	requests []shortlink.CreateLinkRequest
	link     shortlink.ShortLink
	err      error
	gate     chan struct{}
}

func (m *mockCreator) CreateLink(_ context.Context, req shortlink.CreateLinkRequest) (shortlink.ShortLink, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}

	return m.link, m.err
}

func (m *mockCreator) calls() []shortlink.CreateLinkRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]shortlink.CreateLinkRequest(nil), m.requests...)
}

type mockSlug struct {
	enabled   bool
	candidate string
	state     validation.State
	pending   bool
	resets    int
}

func (m *mockSlug) Form() validation.Form {
	return validation.Form{Enabled: m.enabled, Candidate: m.candidate, State: m.state, Pending: m.pending}
}

func (m *mockSlug) Reset() {
	m.resets++
	m.candidate = ""
	m.state = validation.Idle{}
}

var created = shortlink.ShortLink{
	ID:          "abc123",
	OriginalURL: "https://a.com",
	ShortURL:    "http://host/abc123",
	CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
}

func TestCoordinator_Submit(t *testing.T) {
	t.Run("idle state submits and reports the short url", func(t *testing.T) {
		creator := &mockCreator{link: created}
		slug := &mockSlug{state: validation.Idle{}}

		var got []shortlink.ShortLink

		c := submission.New(creator, slug, func(l shortlink.ShortLink) { got = append(got, l) })

		link, err := c.Submit(context.Background(), "https://a.com")

		require.NoError(t, err)
		assert.Equal(t, created, link)
		assert.Equal(t, []shortlink.ShortLink{created}, got)
		assert.Equal(t, submission.Snapshot{Result: "http://host/abc123"}, c.Snapshot())
		assert.Equal(t, []shortlink.CreateLinkRequest{{OriginalURL: "https://a.com"}}, creator.calls())
		assert.Equal(t, 1, slug.resets)
	})

	t.Run("checking state is suppressed", func(t *testing.T) {
		creator := &mockCreator{link: created}
		slug := &mockSlug{enabled: true, candidate: "my-link", state: validation.Checking{}}
		c := submission.New(creator, slug, nil)

		_, err := c.Submit(context.Background(), "https://a.com")

		require.ErrorIs(t, err, submission.ErrSuppressed)
		assert.Empty(t, creator.calls())
		assert.Equal(t, submission.Snapshot{}, c.Snapshot())
	})

	t.Run("invalid state is suppressed", func(t *testing.T) {
		creator := &mockCreator{link: created}
		slug := &mockSlug{enabled: true, candidate: "my-link", state: validation.Invalid{Reason: "taken"}}
		c := submission.New(creator, slug, nil)

		_, err := c.Submit(context.Background(), "https://a.com")

		require.ErrorIs(t, err, submission.ErrSuppressed)
		assert.Empty(t, creator.calls())
	})

	t.Run("edit awaiting its check is suppressed", func(t *testing.T) {
		creator := &mockCreator{link: created}
		slug := &mockSlug{enabled: true, candidate: "my-link-2", state: validation.Valid{}, pending: true}
		c := submission.New(creator, slug, nil)

		_, err := c.Submit(context.Background(), "https://a.com")

		require.ErrorIs(t, err, submission.ErrSuppressed)
		assert.Empty(t, creator.calls())
		assert.Zero(t, slug.resets)
	})

	t.Run("valid custom slug is attached", func(t *testing.T) {
		creator := &mockCreator{link: created}
		slug := &mockSlug{enabled: true, candidate: "my-link", state: validation.Valid{}}
		c := submission.New(creator, slug, nil)

		_, err := c.Submit(context.Background(), "https://a.com")

		require.NoError(t, err)
		assert.Equal(t, []shortlink.CreateLinkRequest{{OriginalURL: "https://a.com", CustomSlug: "my-link"}}, creator.calls())
		assert.Empty(t, slug.candidate)
	})

	t.Run("short custom slug is submittable and omitted", func(t *testing.T) {
		creator := &mockCreator{link: created}
		slug := &mockSlug{enabled: true, candidate: "ab", state: validation.Idle{}}
		c := submission.New(creator, slug, nil)

		_, err := c.Submit(context.Background(), "https://a.com")

		require.NoError(t, err)
		assert.Equal(t, []shortlink.CreateLinkRequest{{OriginalURL: "https://a.com"}}, creator.calls())
	})

	t.Run("candidate is ignored when custom mode is off", func(t *testing.T) {
		creator := &mockCreator{link: created}
		slug := &mockSlug{candidate: "my-link", state: validation.Idle{}}
		c := submission.New(creator, slug, nil)

		_, err := c.Submit(context.Background(), "https://a.com")

		require.NoError(t, err)
		assert.Empty(t, creator.calls()[0].CustomSlug)
	})

	t.Run("failure clears the previous result", func(t *testing.T) {
		creator := &mockCreator{link: created}
		slug := &mockSlug{state: validation.Idle{}}

		calls := 0
		c := submission.New(creator, slug, func(shortlink.ShortLink) { calls++ })

		_, err := c.Submit(context.Background(), "https://a.com")
		require.NoError(t, err)

		creator.err = &transport.ApplicationError{Op: "create", Status: 409, Message: "Slug already taken"}

		_, err = c.Submit(context.Background(), "https://a.com")

		require.Error(t, err)
		assert.Equal(t, submission.Snapshot{Err: "Slug already taken"}, c.Snapshot())
		assert.Equal(t, 1, calls)
	})

	t.Run("transport and application failures read differently", func(t *testing.T) {
		slug := &mockSlug{state: validation.Idle{}}

		transportCreator := &mockCreator{err: &transport.TransportError{Op: "create", Err: errors.New("dial tcp")}}
		tc := submission.New(transportCreator, slug, nil)
		_, _ = tc.Submit(context.Background(), "https://a.com")

		appCreator := &mockCreator{err: &transport.ApplicationError{Op: "create", Status: 500, Message: "Failed to create short link."}}
		ac := submission.New(appCreator, slug, nil)
		_, _ = ac.Submit(context.Background(), "https://a.com")

		assert.Equal(t, "Network error. Please try again.", tc.Snapshot().Err)
		assert.Equal(t, "Failed to create short link.", ac.Snapshot().Err)
		assert.NotEqual(t, tc.Snapshot().Err, ac.Snapshot().Err)
	})

	t.Run("unclassified failure uses the generic message", func(t *testing.T) {
		creator := &mockCreator{err: errors.New("boom")}
		c := submission.New(creator, &mockSlug{state: validation.Idle{}}, nil)

		_, _ = c.Submit(context.Background(), "https://a.com")

		assert.Equal(t, "Failed to create short link.", c.Snapshot().Err)
	})

	t.Run("concurrent submit is rejected while loading", func(t *testing.T) {
		creator := &mockCreator{link: created, gate: make(chan struct{})}
		c := submission.New(creator, &mockSlug{state: validation.Idle{}}, nil)

		done := make(chan error, 1)

		go func() {
			_, err := c.Submit(context.Background(), "https://a.com")
			done <- err
		}()

		require.Eventually(t, func() bool { return c.Snapshot().Loading }, time.Second, 5*time.Millisecond)

		_, err := c.Submit(context.Background(), "https://b.com")
		require.ErrorIs(t, err, submission.ErrBusy)

		close(creator.gate)
		require.NoError(t, <-done)
		assert.Len(t, creator.calls(), 1)
		assert.False(t, c.Snapshot().Loading)
	})
}

func TestCoordinator_WithValidation(t *testing.T) {
	creator := &mockCreator{link: created}
	slugs := validation.New(&stubChecker{})

	defer slugs.Close()

	slugs.SetEnabled(true)
	slugs.Accept("my-link-1")

	c := submission.New(creator, slugs, nil)

	_, err := c.Submit(context.Background(), "https://a.com")

	require.NoError(t, err)
	assert.Equal(t, "my-link-1", creator.calls()[0].CustomSlug)
	assert.Empty(t, slugs.Candidate())
	assert.Equal(t, "idle", validation.Status(slugs.State()))
}

func TestCoordinator_EditAfterValid(t *testing.T) {
	creator := &mockCreator{link: created}
	slugs := validation.New(&stubChecker{}, validation.WithDebounce(50*time.Millisecond))

	defer slugs.Close()

	slugs.SetEnabled(true)
	slugs.Edit("my-link")
	require.Eventually(t, func() bool { return validation.Status(slugs.State()) == "valid" }, time.Second, 5*time.Millisecond)

	c := submission.New(creator, slugs, nil)

	slugs.Edit("my-link-unchecked")

	_, err := c.Submit(context.Background(), "https://a.com")
	require.ErrorIs(t, err, submission.ErrSuppressed)
	assert.Empty(t, creator.calls())

	require.Eventually(t, func() bool { return slugs.Form().Submittable() }, time.Second, 5*time.Millisecond)

	_, err = c.Submit(context.Background(), "https://a.com")
	require.NoError(t, err)
	assert.Equal(t, "my-link-unchecked", creator.calls()[0].CustomSlug)
}

type stubChecker struct{}

func (stubChecker) CheckAvailability(context.Context, string) (shortlink.Availability, error) {
	return shortlink.Availability{Valid: true}, nil
}
