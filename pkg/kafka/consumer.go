package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/asqwklop12/sparta/pkg/logger"
)

// MaxHandlerAttempts is how many times a handler runs for one message before
// the message is dead-lettered.
const MaxHandlerAttempts = 3

// Handler processes one event.
type Handler func(ctx context.Context, event *Event) error

// ErrSkip tells the consumer to commit the message without retrying it.
var ErrSkip = errors.New("kafka: skip message")

// MessageReader is the subset of *kafka.Reader used by Consumer.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerConfig holds consumer settings.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int
	// RetryBackoff is multiplied by the attempt number between retries.
	RetryBackoff time.Duration
}

// Consumer reads one topic in a consumer group and commits each message once
// it is handled, skipped, or dead-lettered.
type Consumer struct {
	reader    MessageReader
	topic     string
	group     string
	backoff   time.Duration
	handler   Handler
	dlq       DeadLetterPublisher
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewConsumer builds a consumer over a kafka-go reader. dlq may be nil, in
// which case exhausted messages are logged and committed.
func NewConsumer(cfg ConsumerConfig, handler Handler, dlq DeadLetterPublisher, logger *slog.Logger) *Consumer {
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10 << 20
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return NewConsumerWithReader(r, cfg, handler, dlq, logger)
}

// NewConsumerWithReader builds a consumer over an existing reader.
func NewConsumerWithReader(r MessageReader, cfg ConsumerConfig, handler Handler, dlq DeadLetterPublisher, logger *slog.Logger) *Consumer {
	backoff := cfg.RetryBackoff
	if backoff == 0 {
		backoff = 100 * time.Millisecond
	}
	return &Consumer{
		reader:  r,
		topic:   cfg.Topic,
		group:   cfg.GroupID,
		backoff: backoff,
		handler: handler,
		dlq:     dlq,
		logger:  logger,
	}
}

// Topic returns the consumed topic.
func (c *Consumer) Topic() string { return c.topic }

// Start consumes until ctx is canceled, then closes the reader.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started", slog.String("topic", c.topic), slog.String("group", c.group))
	defer func() {
		c.logger.Info("consumer stopped", slog.String("topic", c.topic))
		_ = c.Close()
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("fetch message failed", slog.String("topic", c.topic), slog.String("error", err.Error()))
			if serr := sleep(ctx, c.backoff); serr != nil {
				return nil
			}
			continue
		}
		consumerMessagesReceived.WithLabelValues(c.topic, c.group).Inc()

		if err := c.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("message left uncommitted", slog.String("error", err.Error()))
			continue
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Error("commit failed",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
		}
	}
}

// process handles one message. A nil return means the message may be
// committed: it was handled, was malformed, was skipped, or reached the DLQ.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) error {
	event, err := UnmarshalEvent(msg.Value)
	if err != nil {
		c.logger.Error("malformed message",
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
		return c.deadLetter(ctx, msg, err)
	}

	ctx = ExtractTraceContext(ctx, msg.Headers)
	if event.CorrelationID != "" {
		ctx = logger.WithCorrelationID(ctx, event.CorrelationID)
	}

	start := time.Now()
	defer func() {
		consumerProcessingDuration.WithLabelValues(c.topic, c.group).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= MaxHandlerAttempts; attempt++ {
		lastErr = c.handler(ctx, event)
		if lastErr == nil || errors.Is(lastErr, ErrSkip) {
			consumerMessagesProcessed.WithLabelValues(c.topic, c.group).Inc()
			return nil
		}
		c.logger.WarnContext(ctx, "handler failed",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()),
		)
		if attempt < MaxHandlerAttempts {
			if err := sleep(ctx, time.Duration(attempt)*c.backoff); err != nil {
				return err
			}
		}
	}

	consumerMessagesFailed.WithLabelValues(c.topic, c.group).Inc()
	c.logger.ErrorContext(ctx, "handler exhausted retries",
		slog.String("event_type", event.EventType),
		slog.String("event_id", event.EventID),
		slog.String("error", lastErr.Error()),
	)
	return c.deadLetter(ctx, msg, lastErr)
}

func (c *Consumer) deadLetter(ctx context.Context, msg kafka.Message, cause error) error {
	if c.dlq == nil {
		return nil
	}
	if err := c.dlq.Publish(ctx, msg, cause, c.group); err != nil {
		return err
	}
	consumerDLQPublished.WithLabelValues(c.topic, c.group).Inc()
	return nil
}

// Close closes the reader. Safe to call more than once.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() { err = c.reader.Close() })
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
