// Package health serves the liveness endpoint of the shortlink service.
package health

import (
	"context"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// Checker reports whether a dependency is reachable.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler answers health checks by pinging every registered dependency.
type Handler struct {
	checkers map[string]Checker
	logger   *zap.Logger
}

// NewHandler creates a health handler over named dependencies.
func NewHandler(checkers map[string]Checker, logger *zap.Logger) *Handler {
	return &Handler{checkers: checkers, logger: logger}
}

// Response is the health check payload. Status is 200 when every dependency
// is healthy and 503 otherwise.
type Response struct {
	Status int
	Body   struct {
		Status       string            `doc:"healthy or degraded"        example:"healthy" json:"status"`
		Dependencies map[string]string `doc:"Per-dependency health state" json:"dependencies,omitempty"`
	}
}

// Check pings every dependency.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{Status: http.StatusOK}
	resp.Body.Status = "healthy"
	resp.Body.Dependencies = make(map[string]string, len(h.checkers))

	names := make([]string, 0, len(h.checkers))
	for name := range h.checkers {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := h.checkers[name].Ping(ctx); err != nil {
			h.logger.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))

			resp.Body.Dependencies[name] = "unhealthy"
			resp.Body.Status = "degraded"
			resp.Status = http.StatusServiceUnavailable

			continue
		}

		resp.Body.Dependencies[name] = "healthy"
	}

	return resp, nil
}

// RegisterRoutes registers the health route.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
