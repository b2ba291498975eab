package container

import (
	"context"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/console"
	"github.com/serroba/shortlink-client/internal/history"
	"github.com/serroba/shortlink-client/internal/messaging"
	"github.com/serroba/shortlink-client/internal/shortlink"
	"github.com/serroba/shortlink-client/internal/transport"
	"go.uber.org/zap"
)

// ClientOptions configures the terminal client. Every field can also be set
// through a SERVICE_ prefixed environment variable.
type ClientOptions struct {
	API           string `default:"http://localhost:8080" help:"Base URL of the shortlink service" short:"a"`
	DebounceMS    int    `default:"300" help:"Quiet period before a custom slug is checked, in ms"`
	CreateFloorMS int    `default:"200" help:"Minimum duration of a create call, in ms"`
	ListFloorMS   int    `default:"1000" help:"Minimum duration of a list call, in ms"`
	Plain         bool   `default:"false" help:"Disable colour output"`
	LogFormat     string `default:"console" help:"Log format: console or json"`
	LogLevel      string `default:"warn" help:"Log level"`
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// SessionBus carries created links to the history inside one client
// process.
type SessionBus struct {
	pubSub   *gochannel.GoChannel
	consumer *messaging.Consumer[shortlink.ShortLink]
}

func (b *SessionBus) Shutdown() error {
	err := b.consumer.Shutdown()
	if closeErr := b.pubSub.Close(); err == nil {
		err = closeErr
	}

	return err
}

// ClientPackage provides *transport.Client, *history.History, *SessionBus,
// *console.Renderer and *console.Session.
func ClientPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*transport.Client, error) {
		opts := do.MustInvoke[*ClientOptions](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return transport.New(opts.API,
			transport.WithLogger(logger.Named("transport")),
			transport.WithCreateFloor(ms(opts.CreateFloorMS)),
			transport.WithListFloor(ms(opts.ListFloorMS)),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*history.History, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		return history.New(history.WithLogger(logger.Named("history"))), nil
	})

	do.Provide(injector, func(i *do.Injector) (*SessionBus, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		h := do.MustInvoke[*history.History](i)

		pubSub := gochannel.NewGoChannel(gochannel.Config{}, messaging.NewZapLoggerAdapter(logger.Named("events")))
		consumer := history.NewConsumer(pubSub, h, logger.Named("history"))

		if err := consumer.Start(context.Background()); err != nil {
			_ = pubSub.Close()

			return nil, err
		}

		return &SessionBus{pubSub: pubSub, consumer: consumer}, nil
	})

	do.Provide(injector, func(i *do.Injector) (*console.Renderer, error) {
		opts := do.MustInvoke[*ClientOptions](i)

		return console.NewRenderer(os.Stdout, opts.Plain), nil
	})

	do.Provide(injector, func(i *do.Injector) (*console.Session, error) {
		opts := do.MustInvoke[*ClientOptions](i)
		logger := do.MustInvoke[*zap.Logger](i)
		bus := do.MustInvoke[*SessionBus](i)

		return console.NewSession(console.Config{
			Service:   do.MustInvoke[*transport.Client](i),
			Renderer:  do.MustInvoke[*console.Renderer](i),
			History:   do.MustInvoke[*history.History](i),
			OnCreated: history.NewCreatedNotifier(bus.pubSub, logger.Named("history")),
			Debounce:  ms(opts.DebounceMS),
			Logger:    logger,
		}), nil
	})
}
