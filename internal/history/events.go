package history

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink-client/internal/messaging"
	"github.com/serroba/shortlink-client/internal/shortlink"
	"go.uber.org/zap"
)

// TopicCreated carries links created by this client session.
const TopicCreated = "session.link_created"

// NewCreatedNotifier returns a callback that publishes every created link to
// TopicCreated. Publish failures are logged and dropped.
func NewCreatedNotifier(publisher message.Publisher, logger *zap.Logger) func(shortlink.ShortLink) {
	publish := messaging.NewPublishFunc[shortlink.ShortLink](publisher, TopicCreated)

	return func(link shortlink.ShortLink) {
		if err := publish(&link); err != nil {
			logger.Error("failed to publish created link", zap.String("id", link.ID), zap.Error(err))
		}
	}
}

// NewConsumer prepends every link published to TopicCreated.
func NewConsumer(subscriber message.Subscriber, h *History, logger *zap.Logger) *messaging.Consumer[shortlink.ShortLink] {
	return messaging.NewConsumer(subscriber, TopicCreated, func(_ context.Context, link *shortlink.ShortLink) error {
		h.Prepend(*link)

		return nil
	}, logger)
}
