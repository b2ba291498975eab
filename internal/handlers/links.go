package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortlink-client/internal/analytics"
	"github.com/serroba/shortlink-client/internal/messaging"
	"github.com/serroba/shortlink-client/internal/middleware"
	"github.com/serroba/shortlink-client/internal/shortener"
	"github.com/serroba/shortlink-client/internal/shortlink"
	"github.com/serroba/shortlink-client/internal/slugs"
	"go.uber.org/zap"
)

// LinkHandler serves the short link API.
type LinkHandler struct {
	store          shortener.Repository
	generated      shortener.Strategy
	custom         shortener.Strategy
	policy         *slugs.Policy
	baseURL        string
	publishCreated messaging.Publish[analytics.LinkCreatedEvent]
	publishVisited messaging.Publish[analytics.LinkVisitedEvent]
	logger         *zap.Logger
}

// NewLinkHandler creates a link handler. generated stores links without a
// custom slug, custom stores the rest.
func NewLinkHandler(
	store shortener.Repository,
	generated shortener.Strategy,
	custom shortener.Strategy,
	policy *slugs.Policy,
	baseURL string,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishVisited messaging.Publish[analytics.LinkVisitedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		store:          store,
		generated:      generated,
		custom:         custom,
		policy:         policy,
		baseURL:        baseURL,
		publishCreated: publishCreated,
		publishVisited: publishVisited,
		logger:         logger,
	}
}

func (h *LinkHandler) ValidateSlug(ctx context.Context, req *ValidateSlugRequest) (*ValidateSlugResponse, error) {
	verdict, err := h.policy.Check(ctx, req.Body.CustomSlug)
	if err != nil {
		h.logger.Error("slug check failed", zap.String("slug", req.Body.CustomSlug), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to validate slug")
	}

	resp := &ValidateSlugResponse{}
	resp.Body.Valid = verdict.Valid
	resp.Body.Slug = verdict.Slug
	resp.Body.Reason = verdict.Reason
	resp.Body.Suggestions = verdict.Suggestions

	return resp, nil
}

func (h *LinkHandler) SuggestSlugs(ctx context.Context, req *SuggestSlugRequest) (*SuggestSlugResponse, error) {
	alt, err := h.policy.Alternatives(ctx, req.Body.Slug)
	if err != nil {
		h.logger.Error("slug suggestions failed", zap.String("slug", req.Body.Slug), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to suggest slugs")
	}

	resp := &SuggestSlugResponse{}
	resp.Body.Original = alt.Original
	resp.Body.Available = alt.Available
	resp.Body.Suggestions = alt.Suggestions

	return resp, nil
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*LinkResponse, error) {
	if err := shortlink.ValidateURL(req.Body.OriginalURL); err != nil {
		return nil, huma.Error400BadRequest("Invalid URL format")
	}

	link, err := h.shorten(ctx, req.Body.OriginalURL, req.Body.CustomSlug)
	if err != nil {
		return nil, err
	}

	body := h.toBody(link)

	meta := middleware.RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortURL:    body.ShortURL,
		Custom:      link.Custom,
		CreatedAt:   link.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("id", event.ID),
			zap.Error(err),
		)
	}

	resp := &LinkResponse{Status: http.StatusCreated, Body: body}
	resp.Headers.Location = body.ShortURL

	return resp, nil
}

func (h *LinkHandler) shorten(ctx context.Context, originalURL, rawSlug string) (*shortener.Link, error) {
	if rawSlug == "" {
		link, err := h.generated.Shorten(ctx, shortener.Request{OriginalURL: originalURL})
		if err != nil {
			h.logger.Error("failed to create link", zap.Error(err))

			return nil, huma.Error500InternalServerError("Failed to create short link")
		}

		return link, nil
	}

	verdict, err := h.policy.Check(ctx, rawSlug)
	if err != nil {
		h.logger.Error("slug check failed", zap.String("slug", rawSlug), zap.Error(err))

		return nil, huma.Error500InternalServerError("Failed to create short link")
	}

	switch {
	case verdict.Prohibited:
		return nil, h.rejectSlug(ctx, http.StatusBadRequest, verdict.Reason, verdict.Slug)
	case verdict.Taken:
		return nil, NewSlugError(http.StatusConflict, takenMessage(verdict.Slug), verdict.Suggestions)
	case !verdict.Valid:
		return nil, NewSlugError(http.StatusBadRequest, verdict.Reason, nil)
	}

	link, err := h.custom.Shorten(ctx, shortener.Request{OriginalURL: originalURL, Slug: verdict.Slug})
	if errors.Is(err, shortener.ErrIDTaken) {
		return nil, h.rejectSlug(ctx, http.StatusConflict, takenMessage(verdict.Slug), verdict.Slug)
	}

	if err != nil {
		h.logger.Error("failed to create link", zap.String("slug", verdict.Slug), zap.Error(err))

		return nil, huma.Error500InternalServerError("Failed to create short link")
	}

	return link, nil
}

// rejectSlug builds a SlugError carrying alternatives to slug. Suggestions
// are best effort.
func (h *LinkHandler) rejectSlug(ctx context.Context, status int, message, slug string) error {
	slugErr := NewSlugError(status, message, nil)

	alt, err := h.policy.Alternatives(ctx, slug)
	if err != nil {
		h.logger.Warn("slug suggestions failed", zap.String("slug", slug), zap.Error(err))

		return slugErr
	}

	slugErr.Suggestions = alt.Suggestions

	return slugErr
}

func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	links, err := h.store.List(ctx)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))

		return nil, huma.Error500InternalServerError("Failed to fetch short links")
	}

	resp := &ListLinksResponse{Body: make([]LinkBody, 0, len(links))}
	for _, link := range links {
		resp.Body = append(resp.Body, h.toBody(link))
	}

	return resp, nil
}

func (h *LinkHandler) GetLink(ctx context.Context, req *LinkIDRequest) (*LinkResponse, error) {
	link, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &LinkResponse{Status: http.StatusOK, Body: h.toBody(link)}, nil
}

func (h *LinkHandler) Redirect(ctx context.Context, req *LinkIDRequest) (*RedirectResponse, error) {
	link, err := h.lookup(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	meta := middleware.RequestMetaFromContext(ctx)
	event := &analytics.LinkVisitedEvent{
		ID:        link.ID,
		VisitedAt: time.Now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := h.publishVisited(event); err != nil {
		h.logger.Error("failed to publish visit event",
			zap.String("id", event.ID),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = link.OriginalURL

	return resp, nil
}

func (h *LinkHandler) lookup(ctx context.Context, id string) (*shortener.Link, error) {
	link, err := h.store.GetByID(ctx, id)
	if errors.Is(err, shortener.ErrNotFound) {
		return nil, huma.Error404NotFound("Short link not found")
	}

	if err != nil {
		h.logger.Error("failed to get link", zap.String("id", id), zap.Error(err))

		return nil, huma.Error500InternalServerError("Failed to fetch short link")
	}

	return link, nil
}

func takenMessage(slug string) string {
	return "Slug '" + slug + "' is already taken"
}

// ShortURL returns the public URL of the link with id.
func (h *LinkHandler) ShortURL(id string) string {
	return h.baseURL + "/shortlinks/" + id
}

func (h *LinkHandler) toBody(link *shortener.Link) LinkBody {
	return LinkBody{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortURL:    h.ShortURL(link.ID),
		CreatedAt:   link.CreatedAt,
	}
}
