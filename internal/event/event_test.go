package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asqwklop12/sparta/internal/domain"
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
	pkgkafka "github.com/asqwklop12/sparta/pkg/kafka"
	"github.com/asqwklop12/sparta/pkg/logger"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func newTestProducer(w *recordingWriter) *Producer {
	l := newTestLogger()
	return NewProducer(pkgkafka.NewProducerWithWriter(w, nil, l), l)
}

func decodeMessage(t *testing.T, msg kafka.Message, target any) *pkgkafka.Event {
	t.Helper()
	evt, err := pkgkafka.UnmarshalEvent(msg.Value)
	require.NoError(t, err)
	require.NoError(t, evt.UnmarshalData(target))
	return evt
}

func strPtr(s string) *string { return &s }

func TestTopics(t *testing.T) {
	assert.Equal(t, "myselectshop.product.created", TopicProductCreated)
	assert.Equal(t, "myselectshop.product.myprice_updated", TopicProductMyPriceUpdated)
	assert.Equal(t, "myselectshop.product.synced", TopicProductSynced)
	assert.Equal(t, "myselectshop.folder.product_added", TopicFolderProductAdded)
	assert.Equal(t, "myselectshop.lookup.completed", TopicLookupCompleted)
}

func TestProducer_PublishProductCreated(t *testing.T) {
	w := &recordingWriter{}
	p := newTestProducer(w)
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")

	product := &domain.Product{ID: "prod-1", UserID: strPtr("user-1"), Title: "Book", LowestPrice: 1000, MyPrice: 100}
	require.NoError(t, p.PublishProductCreated(ctx, product))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, TopicProductCreated, msg.Topic)
	assert.Equal(t, "prod-1", string(msg.Key))

	var data ProductCreatedData
	evt := decodeMessage(t, msg, &data)
	assert.Equal(t, "corr-1", evt.CorrelationID)
	assert.Equal(t, AggregateTypeProduct, evt.AggregateType)
	assert.Equal(t, "Book", data.Title)
	assert.Equal(t, 100, data.MyPrice)
	assert.Equal(t, "user-1", *data.UserID)
}

func TestProducer_PublishMyPriceUpdated(t *testing.T) {
	w := &recordingWriter{}
	p := newTestProducer(w)

	product := &domain.Product{ID: "prod-1", LowestPrice: 1000, MyPrice: 5000}
	require.NoError(t, p.PublishMyPriceUpdated(context.Background(), product, 100))

	var data MyPriceUpdatedData
	decodeMessage(t, w.msgs[0], &data)
	assert.Equal(t, 100, data.OldMyPrice)
	assert.Equal(t, 5000, data.MyPrice)
}

func TestProducer_PublishProductSynced_BelowMyPrice(t *testing.T) {
	w := &recordingWriter{}
	p := newTestProducer(w)

	require.NoError(t, p.PublishProductSynced(context.Background(), &domain.Product{ID: "a", LowestPrice: 900, MyPrice: 1000}))
	require.NoError(t, p.PublishProductSynced(context.Background(), &domain.Product{ID: "b", LowestPrice: 1100, MyPrice: 1000}))

	var first, second ProductSyncedData
	decodeMessage(t, w.msgs[0], &first)
	decodeMessage(t, w.msgs[1], &second)
	assert.True(t, first.BelowMyPrice)
	assert.False(t, second.BelowMyPrice)
}

func TestProducer_PublishProductAddedToFolder(t *testing.T) {
	w := &recordingWriter{}
	p := newTestProducer(w)

	link := &domain.ProductFolder{ID: "pf-1", ProductID: "prod-1", FolderID: "folder-1"}
	require.NoError(t, p.PublishProductAddedToFolder(context.Background(), link, "user-1"))

	msg := w.msgs[0]
	assert.Equal(t, TopicFolderProductAdded, msg.Topic)
	assert.Equal(t, "folder-1", string(msg.Key))

	var data ProductAddedData
	decodeMessage(t, msg, &data)
	assert.Equal(t, ProductAddedData{FolderID: "folder-1", ProductID: "prod-1", UserID: "user-1"}, data)
}

func TestProducer_PublishError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := newTestProducer(w)

	err := p.PublishProductCreated(context.Background(), &domain.Product{ID: "prod-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), TopicProductCreated)
}

// --- lookup consumer ---

const (
	lookupProductID = "8f14e45f-ceea-467f-a0e6-3c2b8a6d1f20"
	goneProductID   = "c9f0f895-fb98-4b91-9d3a-0c1a2e7d5b44"
)

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) SyncFromLookup(ctx context.Context, productID string, item domain.LookupItem) (*domain.Product, error) {
	args := m.Called(ctx, productID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func lookupEvent(t *testing.T, data any) *pkgkafka.Event {
	t.Helper()
	evt, err := pkgkafka.NewEvent(TopicLookupCompleted, lookupProductID, AggregateTypeProduct, "lookup-worker", data)
	require.NoError(t, err)
	return evt
}

func TestLookupConsumer_AppliesResult(t *testing.T) {
	syncer := &mockSyncer{}
	c := NewLookupConsumer(syncer, newTestLogger())

	item := domain.LookupItem{Title: "Book", Link: "https://shop.example.com/book", LowestPrice: 900}
	syncer.On("SyncFromLookup", mock.Anything, lookupProductID, item).Return(&domain.Product{ID: lookupProductID}, nil)

	evt := lookupEvent(t, LookupCompletedData{ProductID: lookupProductID, Title: item.Title, Link: item.Link, LowestPrice: 900})
	require.NoError(t, c.Handle(context.Background(), evt))
	syncer.AssertExpectations(t)
}

func TestLookupConsumer_DecodesLpriceField(t *testing.T) {
	syncer := &mockSyncer{}
	c := NewLookupConsumer(syncer, newTestLogger())

	syncer.On("SyncFromLookup", mock.Anything, lookupProductID, domain.LookupItem{Title: "t", Link: "l", LowestPrice: 4200}).
		Return(&domain.Product{ID: lookupProductID}, nil)

	raw := map[string]any{"product_id": lookupProductID, "title": "t", "link": "l", "lprice": 4200}
	require.NoError(t, c.Handle(context.Background(), lookupEvent(t, raw)))
	syncer.AssertExpectations(t)
}

func TestLookupConsumer_UnknownProductIsSkipped(t *testing.T) {
	syncer := &mockSyncer{}
	c := NewLookupConsumer(syncer, newTestLogger())

	syncer.On("SyncFromLookup", mock.Anything, goneProductID, mock.Anything).Return(nil, domain.ErrProductNotFound())

	err := c.Handle(context.Background(), lookupEvent(t, LookupCompletedData{ProductID: goneProductID, LowestPrice: 1}))
	assert.ErrorIs(t, err, pkgkafka.ErrSkip)
}

func TestLookupConsumer_MissingProductIDIsSkipped(t *testing.T) {
	c := NewLookupConsumer(&mockSyncer{}, newTestLogger())

	err := c.Handle(context.Background(), lookupEvent(t, LookupCompletedData{Title: "t"}))
	assert.ErrorIs(t, err, pkgkafka.ErrSkip)
}

func TestLookupConsumer_TransientErrorIsReturned(t *testing.T) {
	syncer := &mockSyncer{}
	c := NewLookupConsumer(syncer, newTestLogger())

	syncer.On("SyncFromLookup", mock.Anything, lookupProductID, mock.Anything).
		Return(nil, apperrors.Internal(errors.New("connection refused")))

	err := c.Handle(context.Background(), lookupEvent(t, LookupCompletedData{ProductID: lookupProductID}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, pkgkafka.ErrSkip)
}

func TestLookupConsumer_MalformedPayload(t *testing.T) {
	c := NewLookupConsumer(&mockSyncer{}, newTestLogger())
	evt := &pkgkafka.Event{EventID: "e-1", EventType: TopicLookupCompleted, Data: []byte(`"not an object"`)}

	err := c.Handle(context.Background(), evt)
	require.Error(t, err)
	assert.NotErrorIs(t, err, pkgkafka.ErrSkip)
}

func TestLookupConsumer_MalformedProductIDIsSkipped(t *testing.T) {
	syncer := &mockSyncer{}
	c := NewLookupConsumer(syncer, newTestLogger())

	err := c.Handle(context.Background(), lookupEvent(t, LookupCompletedData{ProductID: "prod-1", LowestPrice: 1}))
	assert.ErrorIs(t, err, pkgkafka.ErrSkip)
	syncer.AssertNotCalled(t, "SyncFromLookup", mock.Anything, mock.Anything, mock.Anything)
}

func TestLookupConsumer_InvalidPriceIsSkipped(t *testing.T) {
	syncer := &mockSyncer{}
	c := NewLookupConsumer(syncer, newTestLogger())

	syncer.On("SyncFromLookup", mock.Anything, lookupProductID, mock.Anything).Return(nil, domain.ErrAboveMaxPrice())

	err := c.Handle(context.Background(), lookupEvent(t, LookupCompletedData{ProductID: lookupProductID, LowestPrice: domain.MaxPrice + 1}))
	assert.ErrorIs(t, err, pkgkafka.ErrSkip)
	syncer.AssertExpectations(t)
}
