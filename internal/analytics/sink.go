package analytics

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink-client/internal/messaging"
	"go.uber.org/zap"
)

// Sink records analytics events.
type Sink interface {
	LinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	LinkVisited(ctx context.Context, event *LinkVisitedEvent) error
}

// LogSink writes every event to a logger.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink backed by logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) LinkCreated(_ context.Context, event *LinkCreatedEvent) error {
	s.logger.Info("link created",
		zap.String("id", event.ID),
		zap.String("original_url", event.OriginalURL),
		zap.Bool("custom", event.Custom),
		zap.Time("created_at", event.CreatedAt),
	)

	return nil
}

func (s *LogSink) LinkVisited(_ context.Context, event *LinkVisitedEvent) error {
	s.logger.Info("link visited",
		zap.String("id", event.ID),
		zap.Time("visited_at", event.VisitedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

// NewConsumers builds one consumer per analytics topic, all feeding sink.
func NewConsumers(subscriber message.Subscriber, sink Sink, logger *zap.Logger) []messaging.Runnable {
	return []messaging.Runnable{
		messaging.NewConsumer(subscriber, TopicLinkCreated, sink.LinkCreated, logger),
		messaging.NewConsumer(subscriber, TopicLinkVisited, sink.LinkVisited, logger),
	}
}
