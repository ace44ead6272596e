// Package events publishes order lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"minishop/internal/config"
	"minishop/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Publisher delivers order events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
	Close() error
}

// Writer is the subset of *kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a writer for the configured brokers and topic.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

type kafkaPublisher struct {
	writer Writer
	logger zerolog.Logger
}

// NewKafkaPublisher returns a Publisher writing JSON messages through w.
func NewKafkaPublisher(w Writer, logger zerolog.Logger) Publisher {
	return &kafkaPublisher{
		writer: w,
		logger: logger.With().Str("publisher", "kafka").Logger(),
	}
}

// Publish writes the event keyed by order ID alone, so all events of one
// order land on the same partition. The type travels in the event_type header.
func (p *kafkaPublisher) Publish(ctx context.Context, event model.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(MessageKey(event.OrderID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).
			Str("event_type", event.Type).
			Int64("order_id", event.OrderID).
			Msg("failed to publish order event")
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.logger.Debug().
		Str("event_type", event.Type).
		Int64("order_id", event.OrderID).
		Msg("order event published")

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// MessageKey is the partition key for an order's events.
func MessageKey(orderID int64) string {
	return fmt.Sprintf("order-%d", orderID)
}

type noopPublisher struct {
	logger zerolog.Logger
}

// NewNoopPublisher returns a Publisher that only logs events. Used when
// Kafka is disabled.
func NewNoopPublisher(logger zerolog.Logger) Publisher {
	return &noopPublisher{logger: logger.With().Str("publisher", "noop").Logger()}
}

func (p *noopPublisher) Publish(_ context.Context, event model.OrderEvent) error {
	p.logger.Debug().
		Str("event_type", event.Type).
		Int64("order_id", event.OrderID).
		Msg("event publishing disabled, dropping order event")
	return nil
}

func (p *noopPublisher) Close() error { return nil }
