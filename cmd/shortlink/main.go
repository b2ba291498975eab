package main

import (
	"context"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/console"
	"github.com/serroba/shortlink-client/internal/container"
	"github.com/serroba/shortlink-client/internal/history"
	"github.com/serroba/shortlink-client/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newInjector(options *container.ClientOptions) *do.Injector {
	injector := do.New()
	do.ProvideValue(injector, options)
	do.ProvideValue(injector, container.LogConfig{Format: options.LogFormat, Level: options.LogLevel})
	container.LoggerPackage(injector)
	container.ClientPackage(injector)

	return injector
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.ClientOptions) {
		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			defer cancel()

			injector := newInjector(options)
			logger := do.MustInvoke[*zap.Logger](injector)

			defer func() {
				if err := injector.Shutdown(); err != nil {
					logger.Error("shutdown error", zap.Error(err))
				}

				_ = logger.Sync()
			}()

			session := do.MustInvoke[*console.Session](injector)
			defer session.Close()

			renderer := do.MustInvoke[*console.Renderer](injector)
			warmUp(ctx, renderer, do.MustInvoke[*transport.Client](injector), session.History)

			if err := console.NewREPL(session, renderer, os.Stdin).Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("input failed", zap.Error(err))
			}
		})

		hooks.OnStop(cancel)
	})

	addCommands(cli)

	cli.Run()
}

// warmUp checks the service and loads the history concurrently.
func warmUp(ctx context.Context, renderer *console.Renderer, client *transport.Client, h *history.History) {
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return client.Health(egCtx)
	})
	eg.Go(func() error {
		return h.Load(egCtx, client)
	})

	if err := eg.Wait(); err != nil {
		renderer.Error("service unavailable: " + err.Error())

		return
	}

	renderer.History(h.Snapshot())
}
