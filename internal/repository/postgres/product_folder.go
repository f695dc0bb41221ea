package postgres

import (
	"context"
	"fmt"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/pkg/database"
)

// ProductFolderRepository implements repository.ProductFolderRepository
// using PostgreSQL.
type ProductFolderRepository struct {
	db database.DBTX
}

// NewProductFolderRepository creates a new PostgreSQL-backed link repository.
func NewProductFolderRepository(db database.DBTX) *ProductFolderRepository {
	return &ProductFolderRepository{db: db}
}

// Exists reports whether the product is already in the folder.
func (r *ProductFolderRepository) Exists(ctx context.Context, productID, folderID string) (_ bool, err error) {
	query := `SELECT EXISTS (SELECT 1 FROM product_folders WHERE product_id = $1 AND folder_id = $2)`

	ctx, end := database.TraceQuery(ctx, "product_folders.Exists", query)
	defer func() { end(err) }()

	var exists bool
	if err = r.db.QueryRow(ctx, query, productID, folderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product folder: %w", err)
	}
	return exists, nil
}

// Create inserts a link. The unique (product_id, folder_id) constraint
// catches a pair inserted concurrently after Exists was checked.
func (r *ProductFolderRepository) Create(ctx context.Context, link *domain.ProductFolder) (err error) {
	query := `INSERT INTO product_folders (id, product_id, folder_id, created_at) VALUES ($1, $2, $3, $4)`

	ctx, end := database.TraceQuery(ctx, "product_folders.Create", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query, link.ID, link.ProductID, link.FolderID, link.CreatedAt)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return domain.ErrDuplicateProductFolder()
		}
		return fmt.Errorf("insert product folder: %w", err)
	}
	return nil
}
