package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/internal/repository"
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID, username, role string) (string, error)
}

// UserService implements sign-up and login.
type UserService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	adminToken string
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

// NewUserService creates a new user service. adminToken is the secret a
// sign-up must present to receive the ADMIN role; empty disables admin
// sign-up.
func NewUserService(users repository.UserRepository, tokens TokenIssuer, adminToken string, logger *slog.Logger) *UserService {
	return &UserService{
		users:      users,
		tokens:     tokens,
		adminToken: adminToken,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
		now:        time.Now,
	}
}

// SignupInput holds the parameters for creating an account.
type SignupInput struct {
	Username   string
	Password   string
	Email      string
	Admin      bool
	AdminToken string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string
	User        *domain.User
}

// Signup creates an account with role USER, or ADMIN when the admin token
// matches.
func (s *UserService) Signup(ctx context.Context, input *SignupInput) (*domain.User, error) {
	taken, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicateUsername()
	}

	taken, err = s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicateEmail()
	}

	role := domain.RoleUser
	if input.Admin {
		if s.adminToken == "" || subtle.ConstantTimeCompare([]byte(input.AdminToken), []byte(s.adminToken)) != 1 {
			return nil, domain.ErrNotValidAdminToken()
		}
		role = domain.RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user signed up",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role),
	)

	return user, nil
}

// Login checks the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials()
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials()
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return &LoginResult{AccessToken: token, User: user}, nil
}
