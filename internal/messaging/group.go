package messaging

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runnable is a component that can be started and shut down.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup starts and stops a set of consumers sharing a subscriber.
type ConsumerGroup struct {
	consumers  []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger
}

// NewConsumerGroup creates a new consumer group.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers consumers with the group.
func (g *ConsumerGroup) Add(consumers ...Runnable) {
	g.consumers = append(g.consumers, consumers...)
}

// Start starts every consumer concurrently. If any fails, the ones that did
// start are shut down again.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	var (
		mu      sync.Mutex
		started []Runnable
	)

	eg := new(errgroup.Group)

	for i, consumer := range g.consumers {
		eg.Go(func() error {
			if err := consumer.Start(ctx); err != nil {
				return fmt.Errorf("start consumer %d: %w", i, err)
			}

			mu.Lock()
			started = append(started, consumer)
			mu.Unlock()

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		for _, consumer := range started {
			_ = consumer.Shutdown()
		}

		return err
	}

	g.logger.Info("consumer group started", zap.Int("count", len(g.consumers)))

	return nil
}

// Shutdown stops every consumer, then closes the subscriber. The first
// error is returned.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("shutting down consumer group")

	var firstErr error

	for _, consumer := range g.consumers {
		if err := consumer.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if err := g.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}
