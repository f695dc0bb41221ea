package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/asqwklop12/sparta/internal/domain"
	pkgkafka "github.com/asqwklop12/sparta/pkg/kafka"
	"github.com/asqwklop12/sparta/pkg/logger"
)

// Kafka topics for wish-list domain events.
var (
	TopicProductCreated        = pkgkafka.Topic("product", "created")
	TopicProductMyPriceUpdated = pkgkafka.Topic("product", "myprice_updated")
	TopicProductSynced         = pkgkafka.Topic("product", "synced")
	TopicFolderProductAdded    = pkgkafka.Topic("folder", "product_added")
)

// Aggregate types.
const (
	AggregateTypeProduct = "product"
	AggregateTypeFolder  = "folder"
)

// SourceService identifies events originating from this service.
const SourceService = "myselectshop"

// ProductCreatedData is the payload for a product.created event.
type ProductCreatedData struct {
	ID          string  `json:"id"`
	UserID      *string `json:"user_id,omitempty"`
	Title       string  `json:"title"`
	Link        string  `json:"link"`
	LowestPrice int     `json:"lowest_price"`
	MyPrice     int     `json:"my_price"`
}

// MyPriceUpdatedData is the payload for a product.myprice_updated event.
type MyPriceUpdatedData struct {
	ID          string `json:"id"`
	OldMyPrice  int    `json:"old_my_price"`
	MyPrice     int    `json:"my_price"`
	LowestPrice int    `json:"lowest_price"`
}

// ProductSyncedData is the payload for a product.synced event.
type ProductSyncedData struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	LowestPrice int    `json:"lowest_price"`
	MyPrice     int    `json:"my_price"`
	// BelowMyPrice is set when the lowest price dropped to or under the
	// user's price.
	BelowMyPrice bool `json:"below_my_price"`
}

// ProductAddedData is the payload for a folder.product_added event.
type ProductAddedData struct {
	FolderID  string `json:"folder_id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
}

// Producer publishes wish-list domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, AggregateTypeProduct, ProductCreatedData{
		ID:          product.ID,
		UserID:      product.UserID,
		Title:       product.Title,
		Link:        product.Link,
		LowestPrice: product.LowestPrice,
		MyPrice:     product.MyPrice,
	})
}

// PublishMyPriceUpdated publishes a product.myprice_updated event.
func (p *Producer) PublishMyPriceUpdated(ctx context.Context, product *domain.Product, oldMyPrice int) error {
	return p.publish(ctx, TopicProductMyPriceUpdated, product.ID, AggregateTypeProduct, MyPriceUpdatedData{
		ID:          product.ID,
		OldMyPrice:  oldMyPrice,
		MyPrice:     product.MyPrice,
		LowestPrice: product.LowestPrice,
	})
}

// PublishProductSynced publishes a product.synced event.
func (p *Producer) PublishProductSynced(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductSynced, product.ID, AggregateTypeProduct, ProductSyncedData{
		ID:           product.ID,
		Title:        product.Title,
		Link:         product.Link,
		LowestPrice:  product.LowestPrice,
		MyPrice:      product.MyPrice,
		BelowMyPrice: product.LowestPrice <= product.MyPrice,
	})
}

// PublishProductAddedToFolder publishes a folder.product_added event.
func (p *Producer) PublishProductAddedToFolder(ctx context.Context, link *domain.ProductFolder, userID string) error {
	return p.publish(ctx, TopicFolderProductAdded, link.FolderID, AggregateTypeFolder, ProductAddedData{
		FolderID:  link.FolderID,
		ProductID: link.ProductID,
		UserID:    userID,
	})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}
