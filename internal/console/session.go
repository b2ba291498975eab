package console

import (
	"time"

	"github.com/serroba/shortlink-client/internal/history"
	"github.com/serroba/shortlink-client/internal/shortlink"
	"github.com/serroba/shortlink-client/internal/submission"
	"github.com/serroba/shortlink-client/internal/suggestion"
	"github.com/serroba/shortlink-client/internal/validation"
	"go.uber.org/zap"
)

// Service is the remote API the form needs. *transport.Client satisfies it.
type Service interface {
	validation.Checker
	suggestion.Fetcher
	submission.Creator
	history.Lister
}

// Config assembles a Session.
type Config struct {
	Service  Service
	Renderer *Renderer
	// History receives created links. A new one is used when nil.
	History *history.History
	// OnCreated replaces the default of prepending to History.
	OnCreated func(shortlink.ShortLink)
	Debounce  time.Duration
	Logger    *zap.Logger
}

// Session is one form: custom slug validation, suggestions, submission and
// the link history, each rendered as it changes.
type Session struct {
	Service     Service
	Validation  *validation.Coordinator
	Suggestions *suggestion.Coordinator
	Submission  *submission.Coordinator
	History     *history.History
}

// NewSession wires the coordinators of one form.
func NewSession(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = validation.DefaultDebounce
	}

	s := &Session{Service: cfg.Service, History: cfg.History}
	if s.History == nil {
		s.History = history.New(history.WithLogger(logger.Named("history")))
	}

	onCreated := cfg.OnCreated
	if onCreated == nil {
		onCreated = s.History.Prepend
	}

	validationOpts := []validation.Option{
		validation.WithDebounce(debounce),
		validation.WithLogger(logger.Named("validation")),
	}
	suggestionOpts := []suggestion.Option{suggestion.WithLogger(logger.Named("suggestion"))}
	submissionOpts := []submission.Option{submission.WithLogger(logger.Named("submission"))}

	if r := cfg.Renderer; r != nil {
		validationOpts = append(validationOpts, validation.WithOnChange(r.Validation))
		suggestionOpts = append(suggestionOpts, suggestion.WithOnChange(r.Suggestions))
		submissionOpts = append(submissionOpts, submission.WithOnChange(r.Submission))
	}

	s.Validation = validation.New(cfg.Service, validationOpts...)
	s.Suggestions = suggestion.New(cfg.Service, s.Validation, suggestionOpts...)
	s.Submission = submission.New(cfg.Service, s.Validation, onCreated, submissionOpts...)

	return s
}

// Close stops pending validation and suggestion work.
func (s *Session) Close() {
	s.Validation.Close()
	s.Suggestions.Close()
}
