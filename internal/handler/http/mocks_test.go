package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/internal/service"
	"github.com/asqwklop12/sparta/pkg/health"
	"github.com/asqwklop12/sparta/pkg/httputil"
	"github.com/asqwklop12/sparta/pkg/middleware"
	"github.com/asqwklop12/sparta/pkg/pagination"
)

// =============================================================================
// Mock services
// =============================================================================

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) CreateProduct(ctx context.Context, input *service.CreateProductInput) (*domain.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductService) UpdateMyPrice(ctx context.Context, productID string, myPrice int) (*domain.Product, error) {
	args := m.Called(ctx, productID, myPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductService) RefreshFromLookup(ctx context.Context, caller domain.Caller, productID string) (*domain.Product, error) {
	args := m.Called(ctx, caller, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductService) ListProducts(ctx context.Context, caller domain.Caller, page pagination.Request) (*pagination.Page[domain.Product], error) {
	args := m.Called(ctx, caller, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[domain.Product]), args.Error(1)
}

func (m *mockProductService) ListAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductService) AddProductToFolder(ctx context.Context, userID, productID, folderID string) (*domain.ProductFolder, error) {
	args := m.Called(ctx, userID, productID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductFolder), args.Error(1)
}

func (m *mockProductService) ListProductsInFolder(ctx context.Context, userID, folderID string, page pagination.Request) (*pagination.Page[domain.Product], error) {
	args := m.Called(ctx, userID, folderID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[domain.Product]), args.Error(1)
}

type mockFolderService struct {
	mock.Mock
}

func (m *mockFolderService) CreateFolders(ctx context.Context, userID string, names []string) ([]domain.Folder, error) {
	args := m.Called(ctx, userID, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Folder), args.Error(1)
}

func (m *mockFolderService) ListFolders(ctx context.Context, userID string) ([]domain.Folder, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Folder), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Signup(ctx context.Context, input *service.SignupInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
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

// =============================================================================
// Test helpers
// =============================================================================

const (
	userToken  = "user-token"
	otherToken = "other-token"
	adminToken = "admin-token"

	productID = "6f9619ff-8b86-d011-b42d-00cf4fc964ff"
	folderID  = "0b5f6c9e-7c2d-4a3e-9f10-2a8d3c4e5f60"
)

var testClaims = map[string]middleware.Claims{
	userToken:  {UserID: "user-1", Username: "alice01", Role: domain.RoleUser},
	otherToken: {UserID: "user-2", Username: "bob0002", Role: domain.RoleUser},
	adminToken: {UserID: "admin-1", Username: "admin01", Role: domain.RoleAdmin},
}

func stubValidator(token string) (*middleware.Claims, error) {
	c, ok := testClaims[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &c, nil
}

type testServer struct {
	products *mockProductService
	folders  *mockFolderService
	users    *mockUserService
	search   *mockSearcher
	handler  http.Handler
}

func newTestServer() *testServer {
	s := &testServer{
		products: &mockProductService{},
		folders:  &mockFolderService{},
		users:    &mockUserService{},
		search:   &mockSearcher{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	s.handler = NewRouter(
		Services{Products: s.products, Folders: s.folders, Users: s.users, Search: s.search},
		stubValidator,
		health.NewHandler(),
		logger,
		middleware.CORSConfig{AllowedOrigins: []string{"*"}},
	)
	return s
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) assertExpectations(t *testing.T) {
	s.products.AssertExpectations(t)
	s.folders.AssertExpectations(t)
	s.users.AssertExpectations(t)
	s.search.AssertExpectations(t)
}

type envelope struct {
	Data  json.RawMessage         `json:"data"`
	Error *httputil.ErrorResponse `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	env := decodeEnvelope(t, rec)
	require.Nil(t, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func strPtr(s string) *string { return &s }
