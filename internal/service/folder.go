package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/internal/repository"
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
)

// FolderService implements the business logic for folders.
type FolderService struct {
	store  repository.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
}

// NewFolderService creates a new folder service.
func NewFolderService(store repository.UnitOfWork, logger *slog.Logger) *FolderService {
	return &FolderService{store: store, logger: logger, now: time.Now}
}

// CreateFolders creates one folder per name. Either every folder is created
// or none is: a name the user already has, or one repeated in names, fails
// the whole call.
func (s *FolderService) CreateFolders(ctx context.Context, userID string, names []string) ([]domain.Folder, error) {
	if len(names) == 0 {
		return nil, apperrors.InvalidInput("at least one folder name is required")
	}

	cleaned := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, apperrors.InvalidInput("folder name must not be blank")
		}
		if _, dup := seen[name]; dup {
			return nil, domain.ErrDuplicateFolderName(name)
		}
		seen[name] = struct{}{}
		cleaned = append(cleaned, name)
	}

	folders := make([]domain.Folder, 0, len(cleaned))
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		existing, err := tx.Folders().ExistingNames(ctx, userID, cleaned)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return domain.ErrDuplicateFolderName(existing[0])
		}

		now := s.now().UTC()
		for _, name := range cleaned {
			f := domain.Folder{
				ID:        uuid.New().String(),
				UserID:    userID,
				Name:      name,
				CreatedAt: now,
			}
			if err := tx.Folders().Create(ctx, &f); err != nil {
				return err
			}
			folders = append(folders, f)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create folders: %w", err)
	}

	s.logger.InfoContext(ctx, "folders created",
		slog.String("user_id", userID),
		slog.Int("count", len(folders)),
	)

	return folders, nil
}

// ListFolders returns the user's folders ordered by name.
func (s *FolderService) ListFolders(ctx context.Context, userID string) ([]domain.Folder, error) {
	folders, err := s.store.Folders().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}
