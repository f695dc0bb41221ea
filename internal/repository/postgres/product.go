package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/internal/repository"
	"github.com/asqwklop12/sparta/pkg/database"
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
)

const productColumns = `p.id, p.user_id, p.title, p.link, p.image, p.lowest_price, p.my_price, p.created_at, p.modified_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (err error) {
	query := `
		INSERT INTO products (id, user_id, title, link, image, lowest_price, my_price, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	ctx, end := database.TraceQuery(ctx, "products.Create", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.Link,
		p.Image,
		p.LowestPrice,
		p.MyPrice,
		p.CreatedAt,
		p.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`
	return r.getOne(ctx, "products.GetByID", query, id)
}

// GetByIDForUpdate retrieves a product by its ID and locks the row.
func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1 FOR UPDATE`
	return r.getOne(ctx, "products.GetByIDForUpdate", query, id)
}

func (r *ProductRepository) getOne(ctx context.Context, op, query, id string) (_ *domain.Product, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(err) }()

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}

// UpdateMyPrice sets the my-price of a product.
func (r *ProductRepository) UpdateMyPrice(ctx context.Context, id string, myPrice int, at time.Time) (err error) {
	query := `UPDATE products SET my_price = $2, modified_at = $3 WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "products.UpdateMyPrice", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, id, myPrice, at)
	if err != nil {
		return fmt.Errorf("update my price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// UpdateFromLookup writes the lookup-owned fields of p.
func (r *ProductRepository) UpdateFromLookup(ctx context.Context, p *domain.Product) (err error) {
	query := `UPDATE products SET title = $2, link = $3, lowest_price = $4, modified_at = $5 WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "products.UpdateFromLookup", query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, p.ID, p.Title, p.Link, p.LowestPrice, p.ModifiedAt)
	if err != nil {
		return fmt.Errorf("update product from lookup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", p.ID, apperrors.ErrNotFound)
	}
	return nil
}

// List returns one window of products matching q and the total count. The
// count runs as its own statement so a window past the last page still
// reports the real total.
func (r *ProductRepository) List(ctx context.Context, q repository.ProductQuery) (_ []domain.Product, _ int, err error) {
	var (
		joins      string
		conditions []string
		args       []any
		argIndex   = 1
	)

	if q.FolderID != nil {
		joins = " JOIN product_folders pf ON pf.product_id = p.id"
		conditions = append(conditions, fmt.Sprintf("pf.folder_id = $%d", argIndex))
		args = append(args, *q.FolderID)
		argIndex++
	}

	if q.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("p.user_id = $%d", argIndex))
		args = append(args, *q.OwnerID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause, err := orderBy(q.SortColumn, q.Asc)
	if err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT count(*) FROM products p` + joins + whereClause
	listQuery := fmt.Sprintf(`SELECT %s FROM products p%s%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, joins, whereClause, orderClause, argIndex, argIndex+1,
	)

	ctx, end := database.TraceQuery(ctx, "products.List", listQuery)
	defer func() { end(err) }()

	var total int
	if err = r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.db.Query(ctx, listQuery, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListAll returns every product ordered by creation time.
func (r *ProductRepository) ListAll(ctx context.Context) (_ []domain.Product, err error) {
	query := `SELECT ` + productColumns + ` FROM products p ORDER BY p.created_at, p.id`

	ctx, end := database.TraceQuery(ctx, "products.ListAll", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	return collectProducts(rows)
}

// orderBy builds the ORDER BY clause. The id tiebreaker keeps windows
// disjoint when the sort column has duplicates.
func orderBy(column string, asc bool) (string, error) {
	if column == "" {
		column = "id"
	}
	if col, ok := domain.SortColumn(column); !ok || col != column {
		return "", fmt.Errorf("sort column %q: %w", column, apperrors.ErrInvalidInput)
	}

	dir := "DESC"
	if asc {
		dir = "ASC"
	}
	if column == "id" {
		return "p.id " + dir, nil
	}
	return fmt.Sprintf("p.%s %s, p.id %s", column, dir, dir), nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Link,
		&p.Image,
		&p.LowestPrice,
		&p.MyPrice,
		&p.CreatedAt,
		&p.ModifiedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}
