package lookup

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asqwklop12/sparta/internal/domain"
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
	"github.com/asqwklop12/sparta/pkg/httpclient"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.Timeout = 2 * time.Second
	breaker := httpclient.NewBreakerClient(httpclient.New(cfg), httpclient.DefaultBreakerConfig(t.Name()), newTestLogger())

	return NewClient(breaker, Config{BaseURL: srv.URL + "/", ClientID: "id-1", ClientSecret: "secret-1"}, newTestLogger())
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search/shop.json", r.URL.Path)
		assert.Equal(t, "mac book", r.URL.Query().Get("query"))
		assert.Equal(t, "15", r.URL.Query().Get("display"))
		assert.Equal(t, "id-1", r.Header.Get("X-Naver-Client-Id"))
		assert.Equal(t, "secret-1", r.Header.Get("X-Naver-Client-Secret"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"total":2,"items":[
			{"title":"<b>Mac</b> <b>Book</b> Air &amp; case","link":"https://shop.example.com/1","image":"https://img.example.com/1.jpg","lprice":"1290000"},
			{"title":"Mac Book Pro","link":"https://shop.example.com/2","image":"","lprice":"2390000"}
		]}`)
	})

	items, err := c.Search(context.Background(), " mac book ")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.LookupItem{
		Title:       "Mac Book Air & case",
		Link:        "https://shop.example.com/1",
		Image:       "https://img.example.com/1.jpg",
		LowestPrice: 1290000,
	}, items[0])
	assert.Equal(t, 2390000, items[1].LowestPrice)
}

func TestClient_Search_SkipsUnparsablePrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[{"title":"a","lprice":"n/a"},{"title":"b","lprice":""}]}`)
	})

	items, err := c.Search(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].Title)
	assert.Equal(t, 0, items[0].LowestPrice)
}

func TestClient_Search_SkipsPriceOutOfRange(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[{"title":"a","lprice":"3000000000"},{"title":"b","lprice":"2147483647"}]}`)
	})

	items, err := c.Search(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].Title)
	assert.Equal(t, 2147483647, items[0].LowestPrice)
}

func TestClient_Search_EmptyQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestClient_Search_UpstreamRejectsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"errorMessage":"Incorrect query request.","errorCode":"SE01"}`)
	})

	_, err := c.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	assert.Equal(t, "invalid.lookup.query", apperrors.CodeOf(err))
}

func TestClient_Search_UpstreamFailureIsUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"bad credentials", http.StatusUnauthorized},
		{"throttled", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := c.Search(context.Background(), "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
			assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(err))
		})
	}
}

func TestClient_Search_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":`)
	})

	_, err := c.Search(context.Background(), "x")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Apple iPad", cleanTitle("<b>Apple</b> iPad"))
	assert.Equal(t, "Tom & Jerry", cleanTitle("Tom &amp; Jerry"))
}
