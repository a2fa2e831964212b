package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/devflexlabs/flex-analise-backend/pkg/events"
	pkgkafka "github.com/devflexlabs/flex-analise-backend/pkg/kafka"
)

// MessageProducer is satisfied by *pkgkafka.Producer.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// KafkaEntryPublisher implements events.EntryPublisher by writing outbox
// entries to a Kafka topic, keyed by aggregate so one analysis' events stay
// ordered within a partition.
type KafkaEntryPublisher struct {
	producer MessageProducer
	topic    string
	logger   *slog.Logger
}

// NewKafkaEntryPublisher creates a publisher targeting the given producer and topic.
func NewKafkaEntryPublisher(producer MessageProducer, topic string, logger *slog.Logger) *KafkaEntryPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaEntryPublisher{producer: producer, topic: topic, logger: logger}
}

// PublishEntries sends entries in one batch.
func (p *KafkaEntryPublisher) PublishEntries(ctx context.Context, entries ...events.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(entries))
	for _, e := range entries {
		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", e.EventType,
			"aggregate_id", e.AggregateID,
			"topic", p.topic,
			"payload_size", len(e.Payload),
		)
		messages = append(messages, pkgkafka.Message{
			Key:   []byte(e.AggregateID.String()),
			Value: e.Payload,
			Headers: map[string]string{
				"event_type":     e.EventType,
				"event_id":       e.ID.String(),
				"aggregate_type": e.AggregateType,
			},
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}
	return nil
}
