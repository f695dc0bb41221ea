package http

import (
	"context"
	"net/http"
	"time"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/internal/service"
	"github.com/asqwklop12/sparta/pkg/middleware"
	"github.com/asqwklop12/sparta/pkg/pagination"
)

// ProductService is the product use-case surface the handlers call.
type ProductService interface {
	CreateProduct(ctx context.Context, input *service.CreateProductInput) (*domain.Product, error)
	UpdateMyPrice(ctx context.Context, productID string, myPrice int) (*domain.Product, error)
	RefreshFromLookup(ctx context.Context, caller domain.Caller, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, caller domain.Caller, page pagination.Request) (*pagination.Page[domain.Product], error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	AddProductToFolder(ctx context.Context, userID, productID, folderID string) (*domain.ProductFolder, error)
	ListProductsInFolder(ctx context.Context, userID, folderID string, page pagination.Request) (*pagination.Page[domain.Product], error)
}

// FolderService is the folder use-case surface.
type FolderService interface {
	CreateFolders(ctx context.Context, userID string, names []string) ([]domain.Folder, error)
	ListFolders(ctx context.Context, userID string) ([]domain.Folder, error)
}

// UserService is the account use-case surface.
type UserService interface {
	Signup(ctx context.Context, input *service.SignupInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
}

// Searcher runs a shopping search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.LookupItem, error)
}

// callerFrom reads the authenticated identity set by middleware.Auth.
func callerFrom(r *http.Request) domain.Caller {
	return domain.Caller{
		UserID: middleware.UserIDFromContext(r.Context()),
		Role:   middleware.RoleFromContext(r.Context()),
	}
}

// --- Response DTOs ---

// ProductResponse is the wire form of a product.
type ProductResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Image       string    `json:"image"`
	LowestPrice int       `json:"lowestPrice"`
	MyPrice     int       `json:"myPrice"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

func newProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Link:        p.Link,
		Image:       p.Image,
		LowestPrice: p.LowestPrice,
		MyPrice:     p.MyPrice,
		CreatedAt:   p.CreatedAt,
		ModifiedAt:  p.ModifiedAt,
	}
}

// FolderResponse is the wire form of a folder.
type FolderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func newFolderResponse(f domain.Folder) FolderResponse {
	return FolderResponse{ID: f.ID, Name: f.Name, CreatedAt: f.CreatedAt}
}

// ProductFolderResponse is the wire form of a product-folder link.
type ProductFolderResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	FolderID  string    `json:"folderId"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserResponse is the wire form of an account.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}
