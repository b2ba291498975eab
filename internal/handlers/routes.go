package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the short link API and the public redirect.
func RegisterRoutes(api huma.API, h *LinkHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "validate-slug",
		Method:      http.MethodPost,
		Path:        "/api/shortlinks/validate",
		Summary:     "Validate custom slug",
		Description: "Reports whether a custom slug can be used, with alternatives when it is taken.",
		Tags:        []string{"Slugs"},
	}, h.ValidateSlug)

	huma.Register(api, huma.Operation{
		OperationID: "suggest-slugs",
		Method:      http.MethodPost,
		Path:        "/api/shortlinks/suggest",
		Summary:     "Suggest slugs",
		Tags:        []string{"Slugs"},
	}, h.SuggestSlugs)

	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/api/shortlinks",
		Summary:       "Create short link",
		Description:   "Creates a short link under a custom slug or a generated code.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, h.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/api/shortlinks",
		Summary:     "List short links",
		Tags:        []string{"Links"},
	}, h.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID: "get-link",
		Method:      http.MethodGet,
		Path:        "/api/shortlinks/{id}",
		Summary:     "Get short link",
		Tags:        []string{"Links"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetLink)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/shortlinks/{id}",
		Summary:     "Redirect to original URL",
		Tags:        []string{"Links"},
		Errors:      []int{http.StatusNotFound},
	}, h.Redirect)
}
