package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/pkg/database"
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
)

// FolderRepository implements repository.FolderRepository using PostgreSQL.
type FolderRepository struct {
	db database.DBTX
}

// NewFolderRepository creates a new PostgreSQL-backed folder repository.
func NewFolderRepository(db database.DBTX) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create inserts a new folder. A name the user already has maps to
// duplicate.folder.name.
func (r *FolderRepository) Create(ctx context.Context, f *domain.Folder) (err error) {
	query := `INSERT INTO folders (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`

	ctx, end := database.TraceQuery(ctx, "folders.Create", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query, f.ID, f.UserID, f.Name, f.CreatedAt)
	if err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return domain.ErrDuplicateFolderName(f.Name)
		}
		return fmt.Errorf("insert folder: %w", err)
	}
	return nil
}

// GetByID retrieves a folder by its ID.
func (r *FolderRepository) GetByID(ctx context.Context, id string) (_ *domain.Folder, err error) {
	query := `SELECT id, user_id, name, created_at FROM folders WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "folders.GetByID", query)
	defer func() { end(err) }()

	var f domain.Folder
	err = r.db.QueryRow(ctx, query, id).Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("folder %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("scan folder: %w", err)
	}
	return &f, nil
}

// ExistingNames returns the subset of names the user already uses.
func (r *FolderRepository) ExistingNames(ctx context.Context, userID string, names []string) (_ []string, err error) {
	query := `SELECT name FROM folders WHERE user_id = $1 AND name = ANY($2) ORDER BY name`

	ctx, end := database.TraceQuery(ctx, "folders.ExistingNames", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, userID, names)
	if err != nil {
		return nil, fmt.Errorf("query folder names: %w", err)
	}
	existing, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect folder names: %w", err)
	}
	return existing, nil
}

// ListByUser returns the user's folders ordered by name.
func (r *FolderRepository) ListByUser(ctx context.Context, userID string) (_ []domain.Folder, err error) {
	query := `SELECT id, user_id, name, created_at FROM folders WHERE user_id = $1 ORDER BY name, id`

	ctx, end := database.TraceQuery(ctx, "folders.ListByUser", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := make([]domain.Folder, 0)
	for rows.Next() {
		var f domain.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan folder row: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder rows: %w", err)
	}
	return folders, nil
}
