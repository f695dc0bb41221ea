package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/internal/event"
	"github.com/asqwklop12/sparta/internal/repository"
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
	"github.com/asqwklop12/sparta/pkg/pagination"
)

// ProductService implements the business logic for wish-list products.
type ProductService struct {
	store    repository.UnitOfWork
	producer *event.Producer
	lookup   Searcher
	logger   *slog.Logger
	now      func() time.Time
}

// NewProductService creates a new product service.
func NewProductService(store repository.UnitOfWork, producer *event.Producer, lookup Searcher, logger *slog.Logger) *ProductService {
	return &ProductService{
		store:    store,
		producer: producer,
		lookup:   lookup,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateProductInput holds the parameters for creating a product. An empty
// UserID creates an ownerless product.
type CreateProductInput struct {
	UserID      string
	Title       string
	Link        string
	Image       string
	LowestPrice int
}

// CreateProduct stores a new product with my-price set to MinMyPrice.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.InvalidInput("product title is required")
	}
	if input.LowestPrice < 0 {
		return nil, apperrors.InvalidInput("lowest price must not be negative")
	}
	if input.LowestPrice > domain.MaxPrice {
		return nil, domain.ErrAboveMaxPrice()
	}

	now := s.now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Title:       title,
		Link:        input.Link,
		Image:       input.Image,
		LowestPrice: input.LowestPrice,
		MyPrice:     domain.MinMyPrice,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	if input.UserID != "" {
		owner := input.UserID
		product.UserID = &owner
	}

	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("title", product.Title),
	)

	return product, nil
}

// UpdateMyPrice sets the price under which the user wants to buy. The price
// is checked before the product is looked up.
func (s *ProductService) UpdateMyPrice(ctx context.Context, productID string, myPrice int) (*domain.Product, error) {
	if myPrice < domain.MinMyPrice {
		return nil, domain.ErrBelowMinMyPrice()
	}
	if myPrice > domain.MaxPrice {
		return nil, domain.ErrAboveMaxPrice()
	}

	var (
		product    *domain.Product
		oldMyPrice int
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		p, err := tx.Products().GetByIDForUpdate(ctx, productID)
		if err != nil {
			return orNotFound(err, domain.ErrProductNotFound)
		}

		now := s.now().UTC()
		if err := tx.Products().UpdateMyPrice(ctx, productID, myPrice, now); err != nil {
			return orNotFound(err, domain.ErrProductNotFound)
		}

		oldMyPrice = p.MyPrice
		p.MyPrice = myPrice
		p.ModifiedAt = now
		product = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update my price: %w", err)
	}

	if err := s.producer.PublishMyPriceUpdated(ctx, product, oldMyPrice); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.myprice_updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "my price updated",
		slog.String("product_id", product.ID),
		slog.Int("old_my_price", oldMyPrice),
		slog.Int("my_price", myPrice),
	)

	return product, nil
}

// SyncFromLookup overwrites title, link and lowest price from a lookup
// result.
func (s *ProductService) SyncFromLookup(ctx context.Context, productID string, item domain.LookupItem) (*domain.Product, error) {
	var product *domain.Product
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		p, err := tx.Products().GetByIDForUpdate(ctx, productID)
		if err != nil {
			return orNotFound(err, domain.ErrProductNotFound)
		}
		if item.LowestPrice > domain.MaxPrice {
			return domain.ErrAboveMaxPrice()
		}

		p.ApplyLookup(item, s.now().UTC())
		if err := tx.Products().UpdateFromLookup(ctx, p); err != nil {
			return orNotFound(err, domain.ErrProductNotFound)
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sync product: %w", err)
	}

	if err := s.producer.PublishProductSynced(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.synced event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product synced",
		slog.String("product_id", product.ID),
		slog.Int("lowest_price", product.LowestPrice),
	)

	return product, nil
}

// RefreshFromLookup searches by the product's title and applies the first
// result. Only the owner or an admin may refresh a product.
func (s *ProductService) RefreshFromLookup(ctx context.Context, caller domain.Caller, productID string) (*domain.Product, error) {
	product, err := s.store.Products().GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", orNotFound(err, domain.ErrProductNotFound))
	}
	if !caller.IsAdmin() && !product.OwnedBy(caller.UserID) {
		return nil, domain.ErrProductNotOwned()
	}

	items, err := s.lookup.Search(ctx, product.Title)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", product.Title, err)
	}
	if len(items) == 0 {
		return nil, domain.ErrLookupNotFound(product.Title)
	}

	return s.SyncFromLookup(ctx, product.ID, items[0])
}

// ListProducts returns one page of products. USER callers see only their
// own products; any other role sees every product.
func (s *ProductService) ListProducts(ctx context.Context, caller domain.Caller, page pagination.Request) (*pagination.Page[domain.Product], error) {
	var ownerID *string
	if caller.Role == domain.RoleUser {
		ownerID = &caller.UserID
	}

	query, err := productQuery(page, ownerID, nil)
	if err != nil {
		return nil, err
	}

	products, total, err := s.store.Products().List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	result := pagination.NewPage(products, total, page)
	return &result, nil
}

// ListAll returns every product ordered by creation time.
func (s *ProductService) ListAll(ctx context.Context) ([]domain.Product, error) {
	products, err := s.store.Products().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	return products, nil
}

// AddProductToFolder links a product to a folder. Both must exist and
// belong to userID, and the pair must not be linked yet.
func (s *ProductService) AddProductToFolder(ctx context.Context, userID, productID, folderID string) (*domain.ProductFolder, error) {
	var link *domain.ProductFolder
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		product, err := tx.Products().GetByID(ctx, productID)
		if err != nil {
			return orNotFound(err, domain.ErrProductNotFound)
		}

		folder, err := tx.Folders().GetByID(ctx, folderID)
		if err != nil {
			return orNotFound(err, domain.ErrFolderNotFound)
		}

		if !product.OwnedBy(userID) || folder.UserID != userID {
			return domain.ErrProductOrFolderNotOwned()
		}

		exists, err := tx.ProductFolders().Exists(ctx, productID, folderID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateProductFolder()
		}

		link = &domain.ProductFolder{
			ID:        uuid.New().String(),
			ProductID: productID,
			FolderID:  folderID,
			CreatedAt: s.now().UTC(),
		}
		return tx.ProductFolders().Create(ctx, link)
	})
	if err != nil {
		return nil, fmt.Errorf("add product to folder: %w", err)
	}

	if err := s.producer.PublishProductAddedToFolder(ctx, link, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish folder.product_added event",
			slog.String("folder_id", folderID),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product added to folder",
		slog.String("folder_id", folderID),
		slog.String("product_id", productID),
	)

	return link, nil
}

// ListProductsInFolder returns one page of the user's products in a folder.
// The folder must exist and belong to the user.
func (s *ProductService) ListProductsInFolder(ctx context.Context, userID, folderID string, page pagination.Request) (*pagination.Page[domain.Product], error) {
	folder, err := s.store.Folders().GetByID(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", orNotFound(err, domain.ErrFolderNotFound))
	}
	if folder.UserID != userID {
		return nil, domain.ErrFolderNotOwned()
	}

	query, err := productQuery(page, &userID, &folderID)
	if err != nil {
		return nil, err
	}

	products, total, err := s.store.Products().List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products in folder: %w", err)
	}

	result := pagination.NewPage(products, total, page)
	return &result, nil
}

// SyncAll refreshes every product from the lookup API and reports how many
// were updated. A failing product is logged and skipped.
func (s *ProductService) SyncAll(ctx context.Context) (int, error) {
	products, err := s.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, p := range products {
		if ctx.Err() != nil {
			return synced, ctx.Err()
		}

		items, err := s.lookup.Search(ctx, p.Title)
		if err != nil {
			s.logger.WarnContext(ctx, "price lookup failed",
				slog.String("product_id", p.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if len(items) == 0 {
			s.logger.DebugContext(ctx, "no lookup result", slog.String("product_id", p.ID))
			continue
		}

		if _, err := s.SyncFromLookup(ctx, p.ID, items[0]); err != nil {
			s.logger.WarnContext(ctx, "product sync failed",
				slog.String("product_id", p.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		synced++
	}
	return synced, nil
}
