package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/rs/zerolog/log"
)

// Notifier publishes menu change events.
type Notifier interface {
	Publish(event models.MenuEvent) error
	Close()
}

type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	log.Info().Str("topic", topic).Msg("Pulsar client and producer initialized successfully")
	return &EventPublisher{
		client:   client,
		producer: producer,
	}, nil
}

// Publish sends a menu event to Pulsar, keyed by menu id so changes to the
// same menu stay ordered.
func (p *EventPublisher) Publish(event models.MenuEvent) error {
	message, err := EncodeEvent(event)
	if err != nil {
		return err
	}

	_, err = p.producer.Send(context.Background(), &pulsar.ProducerMessage{
		Key:     event.MenuID,
		Payload: message,
	})
	if err != nil {
		return fmt.Errorf("could not send event to Pulsar: %w", err)
	}

	log.Debug().Str("menu_id", event.MenuID).Str("action", event.Action).Msg("Event sent to Pulsar")
	return nil
}

// Close closes the Pulsar producer and client
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
	log.Info().Msg("Pulsar client and producer closed successfully")
}

// EncodeEvent serializes an event payload as JSON.
func EncodeEvent(event models.MenuEvent) ([]byte, error) {
	message, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("could not serialize event payload: %w", err)
	}
	return message, nil
}

// DecodeEvent parses an event payload and checks it names a known action.
func DecodeEvent(payload []byte) (models.MenuEvent, error) {
	var event models.MenuEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, fmt.Errorf("could not parse event payload: %w", err)
	}

	switch event.Action {
	case models.MenuEventUpsert:
		if event.Menu == nil {
			return event, fmt.Errorf("upsert event for %q carries no menu", event.MenuID)
		}
		if event.MenuID == "" {
			event.MenuID = event.Menu.ID
		}
	case models.MenuEventDelete:
	default:
		return event, fmt.Errorf("unknown event action %q", event.Action)
	}

	if event.MenuID == "" {
		return event, fmt.Errorf("event carries no menu id")
	}
	return event, nil
}
