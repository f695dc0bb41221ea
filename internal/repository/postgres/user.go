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

// Constraint names from migrations/000001_init.up.sql.
const (
	usersUsernameKey = "users_username_key"
	usersEmailKey    = "users_email_key"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (err error) {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	ctx, end := database.TraceQuery(ctx, "users.Create", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			switch constraint {
			case usersUsernameKey:
				return domain.ErrDuplicateUsername()
			case usersEmailKey:
				return domain.ErrDuplicateEmail()
			}
			return apperrors.Duplicate("ALREADY_EXISTS", "user already exists")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (_ *domain.User, err error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE username = $1`

	ctx, end := database.TraceQuery(ctx, "users.GetByUsername", query)
	defer func() { end(err) }()

	var u domain.User
	err = r.db.QueryRow(ctx, query, username).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", username, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// ExistsByUsername reports whether the username is taken.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "users.ExistsByUsername",
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

// ExistsByEmail reports whether the email is registered.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "users.ExistsByEmail",
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UserRepository) exists(ctx context.Context, op, query, arg string) (_ bool, err error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	defer func() { end(err) }()

	var exists bool
	if err = r.db.QueryRow(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
