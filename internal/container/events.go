package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/analytics"
	"github.com/serroba/shortlink-client/internal/messaging"
	"go.uber.org/zap"
)

// GoChannelPackage provides the in-process *gochannel.GoChannel.
func GoChannelPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		return gochannel.NewGoChannel(gochannel.Config{}, messaging.NewZapLoggerAdapter(logger.Named("events"))), nil
	})
}

// PublisherGroupPackage provides *messaging.PublisherGroup for the backend
// selected by Options.Events.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Events {
		case EventsGoChannel:
			return messaging.NewPublisherGroup(do.MustInvoke[*gochannel.GoChannel](i)), nil
		case EventsRedis:
			publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
				Client:     do.MustInvoke[*RedisClient](i).Client,
				Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
			}, watermillLogger(i))
			if err != nil {
				return nil, fmt.Errorf("redis stream publisher: %w", err)
			}

			return messaging.NewPublisherGroup(publisher), nil
		default:
			return nil, fmt.Errorf("unknown event backend %q", opts.Events)
		}
	})
}

// SubscriberPackage provides the message.Subscriber for Options.Events.
func SubscriberPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Events {
		case EventsGoChannel:
			return do.MustInvoke[*gochannel.GoChannel](i), nil
		case EventsRedis:
			subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        do.MustInvoke[*RedisClient](i).Client,
				Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
				ConsumerGroup: opts.ConsumerGroup,
			}, watermillLogger(i))
			if err != nil {
				return nil, fmt.Errorf("redis stream subscriber: %w", err)
			}

			return subscriber, nil
		default:
			return nil, fmt.Errorf("unknown event backend %q", opts.Events)
		}
	})
}

// ConsumerGroupPackage provides the analytics *messaging.ConsumerGroup,
// logging every event.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		subscriber, err := do.Invoke[message.Subscriber](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i).Named("analytics")

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(analytics.NewConsumers(subscriber, analytics.NewLogSink(logger), logger)...)

		return group, nil
	})
}

func watermillLogger(i *do.Injector) watermill.LoggerAdapter {
	return messaging.NewZapLoggerAdapter(do.MustInvoke[*zap.Logger](i).Named("events"))
}
