package validation

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/serroba/shortlink-client/internal/generation"
	"github.com/serroba/shortlink-client/internal/notify"
	"github.com/serroba/shortlink-client/internal/shortlink"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a candidate is checked.
const DefaultDebounce = 300 * time.Millisecond

const failedReason = "Validation failed"

// Checker validates a candidate slug against the service.
type Checker interface {
	CheckAvailability(ctx context.Context, candidate string) (shortlink.Availability, error)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDebounce overrides the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		c.debounce = d
	}
}

// WithLogger sets the coordinator logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithOnChange registers a listener for state transitions. Calls arrive in
// transition order and no lock is held while the listener runs.
func WithOnChange(fn func(State)) Option {
	return func(c *Coordinator) {
		c.onChange = fn
	}
}

// Coordinator keeps a validation State consistent with the latest
// candidate. Edits are debounced; every edit retires the previous
// generation so a late response can never overwrite a newer state.
type Coordinator struct {
	checker  Checker
	debounce time.Duration
	logger   *zap.Logger
	onChange func(State)
	notify   *notify.Queue[State]
	ctx      context.Context
	cancel   context.CancelFunc
	tokens   generation.Counter

	mu        sync.Mutex
	timer     *time.Timer
	state     State
	candidate string
	enabled   bool
	closed    bool
}

// New creates a coordinator in the Idle state with custom-slug mode off.
func New(checker Checker, opts ...Option) *Coordinator {
	c := &Coordinator{
		checker:  checker,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		state:    Idle{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.notify = notify.New(c.onChange)
	c.ctx, c.cancel = context.WithCancel(context.Background())

	return c
}

// Form is a consistent view of the custom-slug input. Pending is set while
// an edit waits out the quiet period, when State still describes an older
// candidate.
type Form struct {
	Enabled   bool
	Candidate string
	State     State
	Pending   bool
}

// Submittable reports whether the form may be sent. A pending edit is never
// submittable: its verdict has not been asked for yet.
func (f Form) Submittable() bool {
	return !f.Pending && Submittable(f.State)
}

// Form returns the candidate, its state and the debounce flag in one read.
func (c *Coordinator) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Form{
		Enabled:   c.enabled,
		Candidate: c.candidate,
		State:     c.state,
		Pending:   c.timer != nil,
	}
}

// State returns the current validation state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Candidate returns the current normalized candidate.
func (c *Coordinator) Candidate() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.candidate
}

// Enabled reports whether custom-slug mode is on.
func (c *Coordinator) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.enabled
}

// SetEnabled toggles custom-slug mode. Either direction clears the
// candidate, retires pending work and returns to Idle.
func (c *Coordinator) SetEnabled(enabled bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return
	}

	c.enabled = enabled
	c.candidate = ""
	c.retireLocked()
	c.commitLocked(Idle{})
}

// Edit applies a raw user edit. The text is normalized first; candidates
// below the minimum length go straight to Idle, others are checked once the
// quiet period passes without another edit.
func (c *Coordinator) Edit(raw string) {
	candidate := shortlink.NormalizeCandidate(raw)

	c.mu.Lock()
	if c.closed || (candidate == c.candidate && c.enabled) {
		c.mu.Unlock()

		return
	}

	c.candidate = candidate
	c.retireLocked()

	if !c.enabled || !shortlink.LongEnough(candidate) {
		c.commitLocked(Idle{})

		return
	}

	token := c.tokens.Current()
	c.timer = time.AfterFunc(c.debounce, func() {
		c.fire(token, candidate)
	})
	c.mu.Unlock()
}

// Accept makes candidate current without a round-trip, leaving the state
// Idle. Used when the user picks a server-suggested slug.
func (c *Coordinator) Accept(candidate string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return
	}

	c.candidate = shortlink.NormalizeCandidate(candidate)
	c.retireLocked()
	c.commitLocked(Idle{})
}

// Reset clears the candidate for the next entry. Custom-slug mode is kept.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return
	}

	c.candidate = ""
	c.retireLocked()
	c.commitLocked(Idle{})
}

// Close cancels the pending timer and any in-flight check. Results that
// arrive afterwards are dropped.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.retireLocked()
	c.cancel()
}

func (c *Coordinator) fire(token generation.Token, candidate string) {
	c.mu.Lock()
	if c.closed || !c.tokens.IsCurrent(token) {
		c.mu.Unlock()

		return
	}

	c.timer = nil
	issued := c.tokens.Next()
	ctx := c.ctx
	c.commitLocked(Checking{})

	result, err := c.checker.CheckAvailability(ctx, candidate)

	c.apply(issued, candidate, result, err)
}

func (c *Coordinator) apply(token generation.Token, candidate string, result shortlink.Availability, err error) {
	c.mu.Lock()
	if c.closed || !c.tokens.IsCurrent(token) {
		c.mu.Unlock()
		c.logger.Debug("discarding stale validation result", zap.String("candidate", candidate))

		return
	}

	var next State

	switch {
	case err != nil:
		c.logger.Warn("slug validation failed",
			zap.String("candidate", candidate),
			zap.Error(err),
		)

		next = Invalid{Reason: failedReason}
	case result.Valid:
		next = Valid{}
	default:
		next = Invalid{Reason: result.Reason, Suggestions: slices.Clone(result.Suggestions)}
	}

	c.commitLocked(next)
}

// retireLocked stops the pending timer and retires the current generation.
func (c *Coordinator) retireLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	c.tokens.Next()
}

// commitLocked stores next and notifies the listener. It must be called with
// c.mu held and releases it; notifications keep transition order.
func (c *Coordinator) commitLocked(next State) {
	changed := !sameState(c.state, next)
	c.state = next

	drain := changed && c.notify.Push(next)
	c.mu.Unlock()

	if drain {
		c.notify.Drain()
	}
}
