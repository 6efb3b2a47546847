package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/nationbuilder/nationbuilder/internal/services"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits nation lifecycle events keyed by nation id, so all
// events of one nation land on the same partition in order.
type KafkaPublisher struct {
	w      MessageWriter
	logger zerolog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return NewPublisherWithWriter(w, logger)
}

func NewPublisherWithWriter(w MessageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{w: w, logger: logger.With().Str("component", "kafka-events").Logger()}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev services.NationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Type, err)
	}
	msg := kafka.Message{
		Key:     []byte(ev.NationID),
		Value:   payload,
		Time:    ev.At,
		Headers: []kafka.Header{{Key: "type", Value: []byte(ev.Type)}},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", ev.Type, err)
	}
	p.logger.Debug().Str("event", string(ev.Type)).Str("nation", ev.NationID).Msg("event published")
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// Fanout delivers each event to every publisher and joins their errors.
type Fanout []services.EventPublisher

func (f Fanout) Publish(ctx context.Context, ev services.NationEvent) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Noop discards events when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, services.NationEvent) error { return nil }
