package suggestion_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/serroba/shortlink-client/internal/shortlink"
	"github.com/serroba/shortlink-client/internal/suggestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	mu      sync.Mutex
	calls   []string
	results map[string]shortlink.SuggestionSet
	err     error
	gates   map[string]chan struct{}
}

func (m *mockFetcher) FetchSuggestions(_ context.Context, candidate string) (shortlink.SuggestionSet, error) {
	m.mu.Lock()
	m.calls = append(m.calls, candidate)
	gate := m.gates[candidate]
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}

	if m.err != nil {
		return shortlink.SuggestionSet{}, m.err
	}

	return m.results[candidate], nil
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.calls)
}

type mockAcceptor struct {
	accepted []string
}

func (m *mockAcceptor) Accept(candidate string) {
	m.accepted = append(m.accepted, candidate)
}

func TestCoordinator_Refresh(t *testing.T) {
	t.Run("empty candidate is a no-op", func(t *testing.T) {
		fetcher := &mockFetcher{}
		c := suggestion.New(fetcher, &mockAcceptor{})

		c.Refresh(context.Background(), "")

		assert.Zero(t, fetcher.callCount())
		assert.Equal(t, suggestion.Snapshot{}, c.Snapshot())
	})

	t.Run("publishes suggestions for an unavailable slug", func(t *testing.T) {
		fetcher := &mockFetcher{results: map[string]shortlink.SuggestionSet{
			"promo": {Available: false, Suggestions: []string{"promo-1", "my-promo"}},
		}}
		c := suggestion.New(fetcher, &mockAcceptor{})

		c.Refresh(context.Background(), "promo")

		snap := c.Snapshot()
		assert.False(t, snap.Loading)
		assert.Empty(t, snap.Err)
		assert.Equal(t, []string{"promo-1", "my-promo"}, snap.Suggestions)
	})

	t.Run("publishes an empty list for an available slug", func(t *testing.T) {
		fetcher := &mockFetcher{results: map[string]shortlink.SuggestionSet{
			"free-slug": {Available: true, Suggestions: []string{"ignored"}},
		}}
		c := suggestion.New(fetcher, &mockAcceptor{})

		c.Refresh(context.Background(), "free-slug")

		assert.Empty(t, c.Snapshot().Suggestions)
	})

	t.Run("failure clears the list and sets a generic error", func(t *testing.T) {
		fetcher := &mockFetcher{results: map[string]shortlink.SuggestionSet{
			"promo": {Available: false, Suggestions: []string{"promo-1"}},
		}}
		c := suggestion.New(fetcher, &mockAcceptor{})

		c.Refresh(context.Background(), "promo")
		require.NotEmpty(t, c.Snapshot().Suggestions)

		fetcher.err = errors.New("boom")
		c.Refresh(context.Background(), "promo")

		snap := c.Snapshot()
		assert.Equal(t, suggestion.ErrorMessage, snap.Err)
		assert.Empty(t, snap.Suggestions)
		assert.False(t, snap.Loading)
	})

	t.Run("a new refresh clears the previous error", func(t *testing.T) {
		fetcher := &mockFetcher{err: errors.New("boom")}
		c := suggestion.New(fetcher, &mockAcceptor{})

		c.Refresh(context.Background(), "promo")
		require.NotEmpty(t, c.Snapshot().Err)

		fetcher.err = nil
		c.Refresh(context.Background(), "promo")

		assert.Empty(t, c.Snapshot().Err)
	})

	t.Run("stale response is discarded", func(t *testing.T) {
		olderGate := make(chan struct{})
		fetcher := &mockFetcher{
			results: map[string]shortlink.SuggestionSet{
				"older": {Suggestions: []string{"older-1"}},
				"newer": {Suggestions: []string{"newer-1"}},
			},
			gates: map[string]chan struct{}{"older": olderGate},
		}
		c := suggestion.New(fetcher, &mockAcceptor{})

		done := make(chan struct{})

		go func() {
			defer close(done)
			c.Refresh(context.Background(), "older")
		}()

		require.Eventually(t, func() bool { return fetcher.callCount() == 1 }, time.Second, 5*time.Millisecond)

		c.Refresh(context.Background(), "newer")
		close(olderGate)
		<-done

		assert.Equal(t, []string{"newer-1"}, c.Snapshot().Suggestions)
	})

	t.Run("loading is visible while in flight", func(t *testing.T) {
		gate := make(chan struct{})
		fetcher := &mockFetcher{gates: map[string]chan struct{}{"promo": gate}}
		c := suggestion.New(fetcher, &mockAcceptor{})

		done := make(chan struct{})

		go func() {
			defer close(done)
			c.Refresh(context.Background(), "promo")
		}()

		require.Eventually(t, func() bool { return c.Snapshot().Loading }, time.Second, 5*time.Millisecond)

		close(gate)
		<-done

		assert.False(t, c.Snapshot().Loading)
	})

	t.Run("closed coordinator drops results", func(t *testing.T) {
		gate := make(chan struct{})
		fetcher := &mockFetcher{
			results: map[string]shortlink.SuggestionSet{"promo": {Suggestions: []string{"promo-1"}}},
			gates:   map[string]chan struct{}{"promo": gate},
		}
		c := suggestion.New(fetcher, &mockAcceptor{})

		done := make(chan struct{})

		go func() {
			defer close(done)
			c.Refresh(context.Background(), "promo")
		}()

		require.Eventually(t, func() bool { return fetcher.callCount() == 1 }, time.Second, 5*time.Millisecond)

		c.Close()
		close(gate)
		<-done

		assert.Empty(t, c.Snapshot().Suggestions)
	})
}

func TestCoordinator_Select(t *testing.T) {
	acceptor := &mockAcceptor{}
	c := suggestion.New(&mockFetcher{}, acceptor)

	c.Select("my-link-1")

	assert.Equal(t, []string{"my-link-1"}, acceptor.accepted)
}

func TestCoordinator_OnChange(t *testing.T) {
	var seen []suggestion.Snapshot

	fetcher := &mockFetcher{results: map[string]shortlink.SuggestionSet{
		"promo": {Suggestions: []string{"promo-1"}},
	}}
	c := suggestion.New(fetcher, &mockAcceptor{}, suggestion.WithOnChange(func(s suggestion.Snapshot) {
		seen = append(seen, s)
	}))

	c.Refresh(context.Background(), "promo")

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)
	assert.Equal(t, []string{"promo-1"}, seen[1].Suggestions)
}
