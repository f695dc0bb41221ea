package repository

import (
	"context"
	"time"

	"github.com/asqwklop12/sparta/internal/domain"
)

// ProductQuery defines the filter and window of a product listing.
// SortColumn must already be resolved through domain.SortColumn.
type ProductQuery struct {
	OwnerID    *string
	FolderID   *string
	SortColumn string
	Asc        bool
	Offset     int
	Limit      int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetByIDForUpdate retrieves a product and locks its row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Product, error)

	// UpdateMyPrice stores a new my-price for the product.
	UpdateMyPrice(ctx context.Context, id string, myPrice int, at time.Time) error

	// UpdateFromLookup overwrites title, link and lowest price.
	UpdateFromLookup(ctx context.Context, product *domain.Product) error

	// List returns one window of products matching the query along with the
	// total number of matches.
	List(ctx context.Context, query ProductQuery) ([]domain.Product, int, error)

	// ListAll returns every product ordered by creation time.
	ListAll(ctx context.Context) ([]domain.Product, error)
}

// FolderRepository defines the interface for folder persistence operations.
type FolderRepository interface {
	// Create inserts a new folder.
	Create(ctx context.Context, folder *domain.Folder) error

	// GetByID retrieves a folder by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Folder, error)

	// ExistingNames returns which of names the user already uses.
	ExistingNames(ctx context.Context, userID string, names []string) ([]string, error)

	// ListByUser returns the folders of a user ordered by name.
	ListByUser(ctx context.Context, userID string) ([]domain.Folder, error)
}

// ProductFolderRepository defines the interface for product-folder links.
type ProductFolderRepository interface {
	// Exists reports whether the product is already linked to the folder.
	Exists(ctx context.Context, productID, folderID string) (bool, error)

	// Create inserts a new link.
	Create(ctx context.Context, link *domain.ProductFolder) error
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// ExistsByUsername reports whether the username is taken.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether the email is registered.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Store gives access to every repository over one connection or transaction.
type Store interface {
	Products() ProductRepository
	Folders() FolderRepository
	ProductFolders() ProductFolderRepository
	Users() UserRepository
}

// Transactor runs fn inside a database transaction. The Store handed to fn
// is bound to the transaction; it commits when fn returns nil and rolls back
// otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// UnitOfWork is a Store that can also open transactions.
type UnitOfWork interface {
	Store
	Transactor
}
