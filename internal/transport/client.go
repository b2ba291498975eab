package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/serroba/shortlink-client/internal/shortlink"
	"go.uber.org/zap"
)

const (
	// DefaultCreateFloor is the minimum visible duration of a create call.
	DefaultCreateFloor = 200 * time.Millisecond
	// DefaultListFloor is the minimum visible duration of a list call.
	DefaultListFloor = 1000 * time.Millisecond
)

const (
	opValidate = "validate"
	opSuggest  = "suggest"
	opCreate   = "create"
	opList     = "list"
	opGet      = "get"
	opHealth   = "health"
)

var defaultMessages = map[string]string{
	opValidate: validationErrorMessage,
	opSuggest:  validationErrorMessage,
	opCreate:   "Failed to create short link.",
	opList:     "Failed to fetch short links.",
	opGet:      "Failed to fetch short link.",
	opHealth:   "Service unavailable.",
}

// Client talks to the shortlink service, one method per remote operation.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
	createFloor time.Duration
	listFloor   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCreateFloor overrides the create latency floor. Zero disables it.
func WithCreateFloor(d time.Duration) Option {
	return func(c *Client) {
		c.createFloor = d
	}
}

// WithListFloor overrides the list latency floor. Zero disables it.
func WithListFloor(d time.Duration) Option {
	return func(c *Client) {
		c.listFloor = d
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  http.DefaultClient,
		logger:      zap.NewNop(),
		createFloor: DefaultCreateFloor,
		listFloor:   DefaultListFloor,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type validateRequest struct {
	CustomSlug string `json:"custom_slug"`
}

type suggestRequest struct {
	Slug string `json:"slug"`
}

type errorBody struct {
	Error       string   `json:"error"`
	Detail      string   `json:"detail"`
	Suggestions []string `json:"suggestions"`
}

// CheckAvailability asks whether candidate can be used as a custom slug.
// Any failure is reported as a *ValidationError.
func (c *Client) CheckAvailability(ctx context.Context, candidate string) (shortlink.Availability, error) {
	var out shortlink.Availability

	err := c.do(ctx, opValidate, http.MethodPost, "/api/shortlinks/validate", validateRequest{CustomSlug: candidate}, &out)
	if err != nil {
		return shortlink.Availability{}, &ValidationError{Op: opValidate, Err: err}
	}

	return out, nil
}

// FetchSuggestions asks for alternatives to candidate.
// Any failure is reported as a *ValidationError.
func (c *Client) FetchSuggestions(ctx context.Context, candidate string) (shortlink.SuggestionSet, error) {
	var out shortlink.SuggestionSet

	err := c.do(ctx, opSuggest, http.MethodPost, "/api/shortlinks/suggest", suggestRequest{Slug: candidate}, &out)
	if err != nil {
		return shortlink.SuggestionSet{}, &ValidationError{Op: opSuggest, Err: err}
	}

	return out, nil
}

// CreateLink creates a short link. It never returns before the create floor
// has elapsed.
func (c *Client) CreateLink(ctx context.Context, req shortlink.CreateLinkRequest) (shortlink.ShortLink, error) {
	return withFloor(ctx, c.createFloor, func(ctx context.Context) (shortlink.ShortLink, error) {
		var out shortlink.ShortLink

		err := c.do(ctx, opCreate, http.MethodPost, "/api/shortlinks", req, &out)

		return out, err
	})
}

// ListLinks returns every link, newest first whatever the server order. It
// never returns before the list floor has elapsed.
func (c *Client) ListLinks(ctx context.Context) ([]shortlink.ShortLink, error) {
	links, err := withFloor(ctx, c.listFloor, func(ctx context.Context) ([]shortlink.ShortLink, error) {
		var out []shortlink.ShortLink

		err := c.do(ctx, opList, http.MethodGet, "/api/shortlinks", nil, &out)

		return out, err
	})
	if err != nil {
		return nil, err
	}

	return shortlink.SortNewestFirst(links), nil
}

// GetLink fetches a single link by its id.
func (c *Client) GetLink(ctx context.Context, id string) (shortlink.ShortLink, error) {
	var out shortlink.ShortLink

	err := c.do(ctx, opGet, http.MethodGet, "/api/shortlinks/"+url.PathEscape(id), nil, &out)

	return out, err
}

// Health checks that the service answers.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, opHealth, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("op", op),
			zap.Error(err),
		)

		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("response received",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.applicationError(op, resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Warn("undecodable response",
			zap.String("op", op),
			zap.Error(err),
		)

		return &ApplicationError{Op: op, Status: resp.StatusCode, Message: defaultMessages[op]}
	}

	return nil
}

func (c *Client) applicationError(op string, resp *http.Response) error {
	appErr := &ApplicationError{
		Op:      op,
		Status:  resp.StatusCode,
		Message: defaultMessages[op],
	}

	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		switch {
		case body.Error != "":
			appErr.Message = body.Error
		case body.Detail != "":
			appErr.Message = body.Detail
		}

		appErr.Suggestions = body.Suggestions
	}

	c.logger.Info("service rejected request",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.String("message", appErr.Message),
	)

	return appErr
}
