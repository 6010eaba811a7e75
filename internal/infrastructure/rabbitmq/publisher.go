// Package rabbitmq publishes fee/fine events to a durable topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iho/feefines/internal/domain"
)

const dialTimeout = 10 * time.Second

// Envelope is the JSON body of every published message.
type Envelope struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	AggregateID   string    `json:"aggregateId"`
	AggregateType string    `json:"aggregateType"`
	OccurredAt    time.Time `json:"occurredAt"`
	Payload       any       `json:"payload"`
}

// channel is the subset of *amqp091.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher implements usecase.EventPublisher on RabbitMQ. The routing key
// of each message is the event type.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	ch       channel
	reopen   func() (channel, error)
	exchange string
	logger   zerolog.Logger
}

// Dial connects to the broker and declares the exchange.
func Dial(amqpURL, exchange string, logger zerolog.Logger) (*Publisher, error) {
	cleanURL, err := sanitizeURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	reopen := func() (channel, error) { return conn.Channel() }
	p, err := newPublisher(reopen, exchange, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn

	return p, nil
}

func newPublisher(reopen func() (channel, error), exchange string, logger zerolog.Logger) (*Publisher, error) {
	ch, err := reopen()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err := declare(ch, exchange); err != nil {
		_ = ch.Close()
		return nil, err
	}

	return &Publisher{
		ch:       ch,
		reopen:   reopen,
		exchange: exchange,
		logger:   logger.With().Str("component", "rabbitmq_publisher").Str("exchange", exchange).Logger(),
	}, nil
}

// Publish sends one event. A failed publish reopens the channel and retries once.
func (p *Publisher) Publish(ctx context.Context, event *domain.Event) error {
	body, err := json.Marshal(Envelope{
		ID:            event.ID,
		Type:          event.EventType,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		OccurredAt:    event.CreatedAt,
		Payload:       event.Payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}

	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    event.ID,
		Type:         event.EventType,
		Timestamp:    event.CreatedAt,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, event.EventType, false, false, msg)
	if err == nil {
		return nil
	}

	p.logger.Warn().Err(err).Str("event_type", event.EventType).Msg("publish failed; reopening channel")

	if reopenErr := p.reopenChannel(); reopenErr != nil {
		return errors.Join(err, reopenErr)
	}

	return p.ch.PublishWithContext(ctx, p.exchange, event.EventType, false, false, msg)
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

func (p *Publisher) reopenChannel() error {
	ch, err := p.reopen()
	if err != nil {
		return fmt.Errorf("reopen rabbitmq channel: %w", err)
	}
	if err := declare(ch, p.exchange); err != nil {
		_ = ch.Close()
		return err
	}

	_ = p.ch.Close()
	p.ch = ch
	return nil
}

func declare(ch channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}

func sanitizeURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("parse AMQP URL: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}
