package events

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/idcard-hub/idcard-menu-services/internal/metrics"
	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/rs/zerolog/log"
)

// Outcome says what happened to a consumed menu event.
type Outcome string

const (
	// OutcomeApplied events are acked.
	OutcomeApplied Outcome = "applied"
	// OutcomeRejected events can never apply and are acked so they are not
	// redelivered.
	OutcomeRejected Outcome = "rejected"
	// OutcomeRetry events are nacked and redelivered until the DLQ takes them.
	OutcomeRetry Outcome = "retry"
)

const (
	maxDeliveries  = 3
	defaultBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Handler applies one decoded menu event.
type Handler func(ctx context.Context, event models.MenuEvent) (Outcome, error)

// MenuEventConsumer receives menu events from a shared Pulsar subscription.
type MenuEventConsumer struct {
	client   pulsar.Client
	consumer pulsar.Consumer
	counter  metrics.IncrementalCounter

	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewMenuEventConsumer subscribes to topic. Events that fail maxDeliveries
// times go to "<topic>-dlq". Outcomes are counted on counter when it is set.
func NewMenuEventConsumer(pulsarURL, topic, subscription string, counter metrics.IncrementalCounter) (*MenuEventConsumer, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{URL: pulsarURL})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:            topic,
		SubscriptionName: subscription,
		Type:             pulsar.Shared,
		DLQ: &pulsar.DLQPolicy{
			MaxDeliveries:   maxDeliveries,
			DeadLetterTopic: topic + "-dlq",
		},
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not subscribe to %s: %w", topic, err)
	}

	log.Info().Str("topic", topic).Str("subscription", subscription).Msg("Subscribed to menu events")
	return &MenuEventConsumer{
		client:     client,
		consumer:   consumer,
		counter:    counter,
		minBackoff: defaultBackoff,
		maxBackoff: maxBackoff,
	}, nil
}

// Run hands every received event to handle until ctx is cancelled. Receive
// failures are retried with a capped exponential backoff.
func (c *MenuEventConsumer) Run(ctx context.Context, handle Handler) {
	delay := c.minBackoff
	for {
		msg, err := c.consumer.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Dur("retry_in", delay).Msg("Error receiving message")

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay = min(delay*2, c.maxBackoff)
			continue
		}

		delay = c.minBackoff
		c.process(ctx, msg, handle)
	}
}

// process decodes one message, applies it and settles it with the broker.
func (c *MenuEventConsumer) process(ctx context.Context, msg pulsar.Message, handle Handler) {
	action := "unknown"
	outcome := OutcomeRejected

	event, err := DecodeEvent(msg.Payload())
	if err == nil {
		action = event.Action
		outcome, err = handle(ctx, event)
	}

	if c.counter != nil {
		c.counter.Increment(action, string(outcome))
	}

	logger := log.With().Str("menu_id", event.MenuID).Str("action", action).Logger()
	switch outcome {
	case OutcomeRetry:
		logger.Error().Err(err).Msg("Failed to apply menu event, will retry")
		c.consumer.Nack(msg)
		return
	case OutcomeRejected:
		logger.Warn().Err(err).Msg("Discarding menu event")
	default:
		logger.Info().Msg("Applied menu event")
	}

	if err := c.consumer.Ack(msg); err != nil {
		logger.Error().Err(err).Msg("Failed to acknowledge message")
	}
}

// Close cleans up the Pulsar consumer and client.
func (c *MenuEventConsumer) Close() {
	c.consumer.Close()
	c.client.Close()
	log.Info().Msg("Pulsar consumer closed")
}
