package postgres

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/pkg/database"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var productCols = []string{
	"id", "user_id", "title", "link", "image", "lowest_price", "my_price", "created_at", "modified_at",
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:          "prod-1",
		UserID:      strPtr("user-1"),
		Title:       "Book",
		Link:        "https://shop.example.com/book",
		Image:       "https://img.example.com/book.jpg",
		LowestPrice: 1000,
		MyPrice:     domain.MinMyPrice,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
}

func productRow(p domain.Product) []any {
	return []any{
		p.ID, p.UserID, p.Title, p.Link, p.Image, p.LowestPrice, p.MyPrice, p.CreatedAt, p.ModifiedAt,
	}
}

var folderCols = []string{"id", "user_id", "name", "created_at"}

var userCols = []string{"id", "username", "email", "password_hash", "role", "created_at", "updated_at"}
