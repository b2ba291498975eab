package messaging_test

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink-client/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topics     []string
	messages   []*message.Message
	publishErr error
	closeErr   error
	closed     bool
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	if p.publishErr != nil {
		return p.publishErr
	}

	for range msgs {
		p.topics = append(p.topics, topic)
	}

	p.messages = append(p.messages, msgs...)

	return nil
}

func (p *recordingPublisher) Close() error {
	p.closed = true

	return p.closeErr
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("encodes the event and tags the topic", func(t *testing.T) {
		pub := &recordingPublisher{}
		publish := messaging.NewPublishFunc[linkEvent](pub, "link.created")

		err := publish(&linkEvent{ID: "abc123", URL: "https://a.com"})

		require.NoError(t, err)
		require.Len(t, pub.messages, 1)
		assert.Equal(t, []string{"link.created"}, pub.topics)
		assert.JSONEq(t, `{"id":"abc123","url":"https://a.com"}`, string(pub.messages[0].Payload))
		assert.Equal(t, "link.created", pub.messages[0].Metadata.Get(messaging.MetadataTopic))
		assert.NotEmpty(t, pub.messages[0].UUID)
	})

	t.Run("every message gets its own id", func(t *testing.T) {
		pub := &recordingPublisher{}
		publish := messaging.NewPublishFunc[linkEvent](pub, "link.created")

		require.NoError(t, publish(&linkEvent{ID: "one"}))
		require.NoError(t, publish(&linkEvent{ID: "two"}))

		assert.NotEqual(t, pub.messages[0].UUID, pub.messages[1].UUID)
	})

	t.Run("returns publisher errors", func(t *testing.T) {
		pub := &recordingPublisher{publishErr: errors.New("broker down")}
		publish := messaging.NewPublishFunc[linkEvent](pub, "link.created")

		err := publish(&linkEvent{ID: "abc123"})

		require.EqualError(t, err, "broker down")
	})
}

func TestDiscard(t *testing.T) {
	publish := messaging.Discard[linkEvent]()

	assert.NoError(t, publish(&linkEvent{ID: "abc123"}))
}

func TestPublisherGroup(t *testing.T) {
	t.Run("exposes the publisher", func(t *testing.T) {
		pub := &recordingPublisher{}
		group := messaging.NewPublisherGroup(pub)

		assert.Same(t, pub, group.Publisher())
	})

	t.Run("shutdown closes the publisher", func(t *testing.T) {
		pub := &recordingPublisher{}
		group := messaging.NewPublisherGroup(pub)

		require.NoError(t, group.Shutdown())
		assert.True(t, pub.closed)
	})

	t.Run("shutdown reports close errors", func(t *testing.T) {
		group := messaging.NewPublisherGroup(&recordingPublisher{closeErr: errors.New("close error")})

		assert.Error(t, group.Shutdown())
	})
}
