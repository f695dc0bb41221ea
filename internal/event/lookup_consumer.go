package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/asqwklop12/sparta/internal/domain"
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
	pkgkafka "github.com/asqwklop12/sparta/pkg/kafka"
)

// TopicLookupCompleted carries results of price lookups done elsewhere.
var TopicLookupCompleted = pkgkafka.Topic("lookup", "completed")

// LookupCompletedData is the payload of a lookup.completed event.
type LookupCompletedData struct {
	ProductID   string `json:"product_id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	LowestPrice int    `json:"lprice"`
}

// ProductSyncer applies a lookup result to a stored product.
type ProductSyncer interface {
	SyncFromLookup(ctx context.Context, productID string, item domain.LookupItem) (*domain.Product, error)
}

// LookupConsumer turns lookup.completed events into product syncs.
type LookupConsumer struct {
	syncer ProductSyncer
	logger *slog.Logger
}

// NewLookupConsumer creates a new lookup-result consumer.
func NewLookupConsumer(syncer ProductSyncer, logger *slog.Logger) *LookupConsumer {
	return &LookupConsumer{syncer: syncer, logger: logger}
}

// Handle processes one lookup.completed event. Events with a missing or
// malformed product id, for products that no longer exist, or with an invalid
// price are skipped rather than retried.
func (c *LookupConsumer) Handle(ctx context.Context, evt *pkgkafka.Event) error {
	var data LookupCompletedData
	if err := evt.UnmarshalData(&data); err != nil {
		return fmt.Errorf("decode %s: %w", evt.EventType, err)
	}
	if data.ProductID == "" {
		c.logger.WarnContext(ctx, "lookup result without product id",
			slog.String("event_id", evt.EventID),
		)
		return pkgkafka.ErrSkip
	}
	if _, err := uuid.Parse(data.ProductID); err != nil {
		c.logger.WarnContext(ctx, "lookup result with malformed product id",
			slog.String("event_id", evt.EventID),
			slog.String("product_id", data.ProductID),
		)
		return pkgkafka.ErrSkip
	}

	item := domain.LookupItem{Title: data.Title, Link: data.Link, LowestPrice: data.LowestPrice}
	if _, err := c.syncer.SyncFromLookup(ctx, data.ProductID, item); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.logger.WarnContext(ctx, "lookup result for unknown product",
				slog.String("event_id", evt.EventID),
				slog.String("product_id", data.ProductID),
			)
			return pkgkafka.ErrSkip
		}
		if errors.Is(err, apperrors.ErrInvalidInput) {
			c.logger.WarnContext(ctx, "lookup result rejected",
				slog.String("event_id", evt.EventID),
				slog.String("product_id", data.ProductID),
				slog.String("error", err.Error()),
			)
			return pkgkafka.ErrSkip
		}
		return fmt.Errorf("sync product %s: %w", data.ProductID, err)
	}
	return nil
}
