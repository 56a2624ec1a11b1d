/**
 * @description
 * This package provides a small producer for publishing lending events to
 * RabbitMQ. It encapsulates connecting to the broker and publishing JSON
 * messages to the topic exchange the service's consumers bind against.
 *
 * @dependencies
 * - context, encoding/json, time: Standard Go libraries.
 * - github.com/rabbitmq/amqp091-go: The RabbitMQ client library.
 */
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/paisebank/lending-service/internal/domain"
)

// EventsExchange is the topic exchange all lending events are published to.
const EventsExchange = "lending.events"

// Routing keys for the events this service publishes.
const (
	UserRegisteredKey        = "user.registered"
	BillingCycleCompletedKey = "billing.cycle.completed"
)

// Publisher is the interface implemented by types that can publish events.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body interface{}) error
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishBillingCycleCompleted(ctx context.Context, event domain.BillingCycleCompletedEvent) error
	Close()
}

// EventProducer holds the RabbitMQ connection and channel for publishing messages.
type EventProducer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// EventProducerFallback is a no-op publisher used when RabbitMQ is unavailable
// at startup. Registration and billing must keep working without the broker;
// only the asynchronous side effects degrade.
type EventProducerFallback struct {
	Logger *slog.Logger
}

func (p *EventProducerFallback) Publish(ctx context.Context, routingKey string, body interface{}) error {
	p.Logger.Warn("event publish skipped, broker unavailable", "routing_key", routingKey)
	return nil
}

func (p *EventProducerFallback) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	return p.Publish(ctx, UserRegisteredKey, event)
}

func (p *EventProducerFallback) PublishBillingCycleCompleted(ctx context.Context, event domain.BillingCycleCompletedEvent) error {
	return p.Publish(ctx, BillingCycleCompletedKey, event)
}

func (p *EventProducerFallback) Close() {}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewEventProducer creates and returns a new EventProducer.
func NewEventProducer(amqpURL string) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	// Bounded dial timeout so startup does not hang indefinitely.
	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &EventProducer{conn: conn, channel: ch}, nil
}

// Publish sends a JSON message to the events exchange with the given routing key.
func (p *EventProducer) Publish(ctx context.Context, routingKey string, body interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	publishing := amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        jsonBody,
	}

	err = p.channel.PublishWithContext(ctx, EventsExchange, routingKey, false, false, publishing)
	if err == nil {
		return nil
	}

	// One-shot retry: reopen the channel and try again.
	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return err
	}
	p.channel = ch
	if exErr := p.channel.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); exErr != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx, EventsExchange, routingKey, false, false, publishing)
}

// PublishUserRegistered publishes the event that triggers credit scoring.
func (p *EventProducer) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	return p.Publish(ctx, UserRegisteredKey, event)
}

// PublishBillingCycleCompleted publishes a summary of a finished billing batch.
func (p *EventProducer) PublishBillingCycleCompleted(ctx context.Context, event domain.BillingCycleCompletedEvent) error {
	return p.Publish(ctx, BillingCycleCompletedKey, event)
}

// Close gracefully closes the channel and connection to RabbitMQ.
func (p *EventProducer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
