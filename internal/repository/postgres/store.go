package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/asqwklop12/sparta/internal/repository"
	"github.com/asqwklop12/sparta/pkg/database"
)

const uniqueViolation = "23505"

// Store implements repository.UnitOfWork on top of a pool or a transaction.
type Store struct {
	db             database.DBTX
	products       *ProductRepository
	folders        *FolderRepository
	productFolders *ProductFolderRepository
	users          *UserRepository
}

// NewStore creates a store whose repositories all run on db.
func NewStore(db database.DBTX) *Store {
	return &Store{
		db:             db,
		products:       NewProductRepository(db),
		folders:        NewFolderRepository(db),
		productFolders: NewProductFolderRepository(db),
		users:          NewUserRepository(db),
	}
}

func (s *Store) Products() repository.ProductRepository             { return s.products }
func (s *Store) Folders() repository.FolderRepository               { return s.folders }
func (s *Store) ProductFolders() repository.ProductFolderRepository { return s.productFolders }
func (s *Store) Users() repository.UserRepository                   { return s.users }

// WithinTx runs fn in a transaction. The rollback is deferred
// unconditionally; after a successful commit it is a no-op.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// uniqueConstraint returns the violated constraint name when err is a
// unique violation.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
