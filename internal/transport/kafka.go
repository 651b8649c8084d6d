package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/lineage-audit/emitter/internal/lineage"
)

// Sentinel errors for Kafka transport configuration.
var (
	ErrNoBrokers  = errors.New("at least one broker is required")
	ErrEmptyTopic = errors.New("topic cannot be empty")
)

type (
	// KafkaConfig holds settings for the Kafka transport.
	KafkaConfig struct {
		// Brokers is the bootstrap broker list.
		Brokers []string

		// Topic receives the lineage events. Downstream consumers expect one
		// OpenLineage RunEvent JSON document per message.
		Topic string

		// RequiredAcks selects the delivery mode:
		//   - kafka.RequireNone: asynchronous fire-and-forget. Send returns
		//     as soon as the message is written to the connection; broker
		//     failures are NOT reported to the caller. This is the one
		//     configured-async mode this project supports.
		//   - kafka.RequireOne / kafka.RequireAll: synchronous. Send blocks
		//     until the broker acknowledges or the write fails.
		RequiredAcks kafka.RequiredAcks
	}

	// Kafka publishes events to a Kafka topic, keyed by run ID so that all
	// events of one run land on one partition and preserve their recorded
	// order end to end.
	Kafka struct {
		writer *kafka.Writer
	}
)

// Validate validates the Kafka transport configuration.
func (c *KafkaConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return ErrNoBrokers
	}

	if c.Topic == "" {
		return ErrEmptyTopic
	}

	return nil
}

// NewKafka creates a Kafka transport from config.
func NewKafka(cfg *KafkaConfig) (*Kafka, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid kafka transport configuration: %w", err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{}, // key hash keeps one run on one partition
		RequiredAcks: cfg.RequiredAcks,
	}

	return &Kafka{writer: writer}, nil
}

// Send writes one event as one message. The message key is the run ID; the
// value is the same wire JSON the HTTP transport posts.
func (t *Kafka) Send(ctx context.Context, event *lineage.RunEvent) error {
	body, err := lineage.Marshal(event)
	if err != nil {
		return &Error{Transport: "kafka", Detail: "event serialization failed", Err: err}
	}

	msg := kafka.Message{
		Key:   []byte(event.Run.ID),
		Value: body,
	}

	if err := t.writer.WriteMessages(ctx, msg); err != nil {
		return &Error{Transport: "kafka", Detail: "write failed", Err: err}
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (t *Kafka) Close() error {
	if err := t.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}

	return nil
}
