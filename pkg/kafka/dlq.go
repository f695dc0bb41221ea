package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// DLQTopic returns the dead-letter topic for topic.
func DLQTopic(topic string) string {
	return TopicPrefix + ".dlq." + topic
}

// DeadLetterPublisher receives messages a consumer gave up on.
type DeadLetterPublisher interface {
	Publish(ctx context.Context, msg kafka.Message, cause error, group string) error
}

// DLQProducer forwards failed messages to their dead-letter topic, keeping
// the original key, value and headers.
type DLQProducer struct {
	writer MessageWriter
	logger *slog.Logger
}

// NewDLQProducer returns a DLQProducer that writes each message synchronously.
func NewDLQProducer(brokers []string, logger *slog.Logger) *DLQProducer {
	return NewDLQProducerWithWriter(newWriter(ProducerConfig{
		Brokers:      brokers,
		BatchSize:    1,
		BatchTimeout: 100 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}), logger)
}

// NewDLQProducerWithWriter returns a DLQProducer over an existing writer.
func NewDLQProducerWithWriter(w MessageWriter, logger *slog.Logger) *DLQProducer {
	return &DLQProducer{writer: w, logger: logger}
}

// Publish writes msg to DLQTopic(msg.Topic) with provenance headers.
func (d *DLQProducer) Publish(ctx context.Context, msg kafka.Message, cause error, group string) error {
	topic := DLQTopic(msg.Topic)

	headers := make([]kafka.Header, 0, len(msg.Headers)+5)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: "dlq.original_topic", Value: []byte(msg.Topic)},
		kafka.Header{Key: "dlq.original_partition", Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: "dlq.original_offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		kafka.Header{Key: "dlq.consumer_group", Value: []byte(group)},
	)
	if cause != nil {
		headers = append(headers, kafka.Header{Key: "dlq.error", Value: []byte(cause.Error())})
	}

	if err := d.writer.WriteMessages(ctx, kafka.Message{
		Topic:   topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	d.logger.WarnContext(ctx, "message sent to dead-letter topic",
		slog.String("dlq_topic", topic),
		slog.String("original_topic", msg.Topic),
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
	)
	return nil
}

// Close closes the underlying writer.
func (d *DLQProducer) Close() error {
	return d.writer.Close()
}
