package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/internal/event"
	"github.com/asqwklop12/sparta/internal/repository"
	pkgkafka "github.com/asqwklop12/sparta/pkg/kafka"
)

// --- Mock Repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) UpdateMyPrice(ctx context.Context, id string, myPrice int, at time.Time) error {
	args := m.Called(ctx, id, myPrice, at)
	return args.Error(0)
}

func (m *mockProductRepository) UpdateFromLookup(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) List(ctx context.Context, query repository.ProductQuery) ([]domain.Product, int, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

type mockFolderRepository struct {
	mock.Mock
}

func (m *mockFolderRepository) Create(ctx context.Context, folder *domain.Folder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *mockFolderRepository) GetByID(ctx context.Context, id string) (*domain.Folder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folder), args.Error(1)
}

func (m *mockFolderRepository) ExistingNames(ctx context.Context, userID string, names []string) ([]string, error) {
	args := m.Called(ctx, userID, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFolderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Folder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Folder), args.Error(1)
}

type mockProductFolderRepository struct {
	mock.Mock
}

func (m *mockProductFolderRepository) Exists(ctx context.Context, productID, folderID string) (bool, error) {
	args := m.Called(ctx, productID, folderID)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductFolderRepository) Create(ctx context.Context, link *domain.ProductFolder) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// mockStore hands out the mock repositories and runs WithinTx inline,
// counting commits and rollbacks.
type mockStore struct {
	products       *mockProductRepository
	folders        *mockFolderRepository
	productFolders *mockProductFolderRepository
	users          *mockUserRepository
	commits        int
	rollbacks      int
}

func newMockStore() *mockStore {
	return &mockStore{
		products:       &mockProductRepository{},
		folders:        &mockFolderRepository{},
		productFolders: &mockProductFolderRepository{},
		users:          &mockUserRepository{},
	}
}

func (s *mockStore) Products() repository.ProductRepository             { return s.products }
func (s *mockStore) Folders() repository.FolderRepository               { return s.folders }
func (s *mockStore) ProductFolders() repository.ProductFolderRepository { return s.productFolders }
func (s *mockStore) Users() repository.UserRepository                   { return s.users }

func (s *mockStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if err := fn(ctx, s); err != nil {
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

func (s *mockStore) assertExpectations(t mock.TestingT) {
	s.products.AssertExpectations(t)
	s.folders.AssertExpectations(t)
	s.productFolders.AssertExpectations(t)
	s.users.AssertExpectations(t)
}

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]domain.LookupItem, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LookupItem), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// recordingWriter stands in for the Kafka writer.
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

func (w *recordingWriter) topics() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	topics := make([]string, 0, len(w.msgs))
	for _, m := range w.msgs {
		topics = append(topics, m.Topic)
	}
	return topics
}

func newTestProducer(w *recordingWriter) *event.Producer {
	l := newTestLogger()
	return event.NewProducer(pkgkafka.NewProducerWithWriter(w, nil, l), l)
}

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
