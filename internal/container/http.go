package container

import (
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jaevor/go-nanoid"
	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/analytics"
	"github.com/serroba/shortlink-client/internal/handlers"
	"github.com/serroba/shortlink-client/internal/health"
	"github.com/serroba/shortlink-client/internal/messaging"
	"github.com/serroba/shortlink-client/internal/middleware"
	"github.com/serroba/shortlink-client/internal/shortener"
	"github.com/serroba/shortlink-client/internal/slugs"
	"go.uber.org/zap"
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// HTTPPackage provides the *chi.Mux and the huma.API with every route
// registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		cors := middleware.DefaultCORSConfig
		cors.AllowOrigins = opts.Origins()

		router := chi.NewMux()
		router.Use(chimiddleware.RequestID)
		router.Use(chimiddleware.Recoverer)
		router.Use(middleware.Logger(logger.Named("http")))
		router.Use(middleware.CORS(cors))

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("Shortlink", "1.0.0"))
		api.UseMiddleware(middleware.RequestMetaMiddleware(api))

		linkHandler, err := do.Invoke[*handlers.LinkHandler](i)
		if err != nil {
			return nil, err
		}

		handlers.RegisterRoutes(api, linkHandler)
		health.RegisterRoutes(api, do.MustInvoke[*health.Handler](i))

		return api, nil
	})

	do.Provide(injector, newLinkHandler)
	do.Provide(injector, newHealthHandler)
}

func newLinkHandler(i *do.Injector) (*handlers.LinkHandler, error) {
	opts := do.MustInvoke[*Options](i)
	logger := do.MustInvoke[*zap.Logger](i)
	repo := do.MustInvoke[shortener.Repository](i)

	publishers, err := do.Invoke[*messaging.PublisherGroup](i)
	if err != nil {
		return nil, err
	}

	generateCode, err := nanoid.CustomASCII(codeAlphabet, opts.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("code generator: %w", err)
	}

	filter := slugs.DefaultFilter()
	policy := slugs.NewPolicy(repo, filter, slugs.NewSuggester(repo, filter))

	return handlers.NewLinkHandler(
		repo,
		shortener.NewTokenStrategy(repo, generateCode, time.Now),
		shortener.NewCustomStrategy(repo, time.Now),
		policy,
		opts.PublicBaseURL(),
		messaging.NewPublishFunc[analytics.LinkCreatedEvent](publishers.Publisher(), analytics.TopicLinkCreated),
		messaging.NewPublishFunc[analytics.LinkVisitedEvent](publishers.Publisher(), analytics.TopicLinkVisited),
		logger.Named("links"),
	), nil
}

func newHealthHandler(i *do.Injector) (*health.Handler, error) {
	logger := do.MustInvoke[*zap.Logger](i)
	checkers := map[string]health.Checker{}

	if c, ok := do.MustInvoke[shortener.Repository](i).(health.Checker); ok {
		checkers["store"] = c
	}

	return health.NewHandler(checkers, logger.Named("health")), nil
}
