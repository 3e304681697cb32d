package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const suggestionsGeneratedKey = "suggestions.generated"

type SuggestionsGeneratedEvent struct {
	UserID       uuid.UUID `json:"user_id"`
	GenerationID uuid.UUID `json:"generation_id"`
	Count        int       `json:"count"`
	JobTitles    []string  `json:"job_titles"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// EventPublisher announces finished generations to other services.
type EventPublisher interface {
	PublishSuggestionsGenerated(ctx context.Context, event SuggestionsGeneratedEvent) error
	Close() error
}

type amqpPublisher struct {
	conn     *amqp.Connection
	exchange string
	mu       sync.Mutex
}

// NewAMQPPublisher dials RabbitMQ and declares a durable topic exchange.
func NewAMQPPublisher(url, exchange string) (EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &amqpPublisher{conn: conn, exchange: exchange}, nil
}

func (p *amqpPublisher) PublishSuggestionsGenerated(ctx context.Context, event SuggestionsGeneratedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		suggestionsGeneratedKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.GenerationID.String(),
			Timestamp:    event.GeneratedAt,
			Body:         body,
		},
	)
}

func (p *amqpPublisher) Close() error {
	return p.conn.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) PublishSuggestionsGenerated(ctx context.Context, event SuggestionsGeneratedEvent) error {
	return nil
}

func (noopPublisher) Close() error { return nil }
