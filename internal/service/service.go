package service

import (
	"context"
	"errors"

	"github.com/asqwklop12/sparta/internal/domain"
	"github.com/asqwklop12/sparta/internal/repository"
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
	"github.com/asqwklop12/sparta/pkg/pagination"
)

// Searcher looks up current offers for a product title.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.LookupItem, error)
}

// orNotFound replaces a bare repository not-found with the coded domain
// error. Errors that already carry a code pass through.
func orNotFound(err error, notFound func() error) error {
	if errors.Is(err, apperrors.ErrNotFound) && apperrors.CodeOf(err) == "" {
		return notFound()
	}
	return err
}

// productQuery validates a page request and turns it into a repository
// query. ownerID and folderID may be nil.
func productQuery(page pagination.Request, ownerID, folderID *string) (repository.ProductQuery, error) {
	if err := page.Validate(); err != nil {
		return repository.ProductQuery{}, err
	}
	sortBy := page.SortBy
	if sortBy == "" {
		sortBy = pagination.DefaultSortBy
	}
	column, ok := domain.SortColumn(sortBy)
	if !ok {
		return repository.ProductQuery{}, domain.ErrInvalidSortField(sortBy)
	}
	return repository.ProductQuery{
		OwnerID:    ownerID,
		FolderID:   folderID,
		SortColumn: column,
		Asc:        page.Asc,
		Offset:     page.Offset(),
		Limit:      page.Limit(),
	}, nil
}
