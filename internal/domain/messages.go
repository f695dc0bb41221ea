package domain

import (
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
)

// Error codes returned by the domain services.
const (
	CodeBelowMinMyPrice         = "below.min.my.price"
	CodeAboveMaxPrice           = "above.max.price"
	CodeNotFoundProduct         = "not.found.product"
	CodeNotFoundFolder          = "not.found.folder"
	CodeNotFoundLookup          = "not.found.lookup"
	CodeNotOwnedProduct         = "not.owned.product"
	CodeNotOwnedFolder          = "not.owned.folder"
	CodeNotOwnedProductOrFolder = "not.owned.product.or.folder"
	CodeDuplicateProductFolder  = "duplicate.product.folder"
	CodeDuplicateFolderName     = "duplicate.folder.name"
	CodeInvalidSortField        = "invalid.sort.field"
	CodeDuplicateUsername       = "duplicate.username"
	CodeDuplicateEmail          = "duplicate.email"
	CodeNotValidAdminToken      = "not.valid.admin.token"
	CodeInvalidCredentials      = "invalid.credentials"
)

// Messages holds the display text of every code.
var Messages = apperrors.Catalog{
	CodeBelowMinMyPrice:         "my price must be at least %d",
	CodeAboveMaxPrice:           "price must be at most %d",
	CodeNotFoundProduct:         "product not found",
	CodeNotFoundFolder:          "folder not found",
	CodeNotFoundLookup:          "no search result for %q",
	CodeNotOwnedProduct:         "product belongs to another user",
	CodeNotOwnedFolder:          "folder belongs to another user",
	CodeNotOwnedProductOrFolder: "product or folder belongs to another user",
	CodeDuplicateProductFolder:  "product is already in the folder",
	CodeDuplicateFolderName:     "folder name %q is already in use",
	CodeInvalidSortField:        "cannot sort by %q",
	CodeDuplicateUsername:       "username is already taken",
	CodeDuplicateEmail:          "email is already registered",
	CodeNotValidAdminToken:      "admin token is not valid",
	CodeInvalidCredentials:      "username or password is incorrect",
}

// ErrBelowMinMyPrice is returned when a requested my-price is under MinMyPrice.
func ErrBelowMinMyPrice() error {
	return apperrors.Validation(CodeBelowMinMyPrice, Messages.Format(CodeBelowMinMyPrice, MinMyPrice))
}

// ErrAboveMaxPrice is returned when a price does not fit the price columns.
func ErrAboveMaxPrice() error {
	return apperrors.Validation(CodeAboveMaxPrice, Messages.Format(CodeAboveMaxPrice, MaxPrice))
}

// ErrProductNotFound is returned when no product has the given id.
func ErrProductNotFound() error {
	return apperrors.NotFound(CodeNotFoundProduct, Messages.Format(CodeNotFoundProduct))
}

// ErrFolderNotFound is returned when no folder has the given id.
func ErrFolderNotFound() error {
	return apperrors.NotFound(CodeNotFoundFolder, Messages.Format(CodeNotFoundFolder))
}

// ErrLookupNotFound is returned when the shopping search has no result for query.
func ErrLookupNotFound(query string) error {
	return apperrors.NotFound(CodeNotFoundLookup, Messages.Format(CodeNotFoundLookup, query))
}

// ErrProductNotOwned is returned when the caller does not own the product.
func ErrProductNotOwned() error {
	return apperrors.Forbidden(CodeNotOwnedProduct, Messages.Format(CodeNotOwnedProduct))
}

// ErrFolderNotOwned is returned when the caller does not own the folder.
func ErrFolderNotOwned() error {
	return apperrors.Forbidden(CodeNotOwnedFolder, Messages.Format(CodeNotOwnedFolder))
}

// ErrProductOrFolderNotOwned is returned when linking a product and folder
// that are not both owned by the caller.
func ErrProductOrFolderNotOwned() error {
	return apperrors.Forbidden(CodeNotOwnedProductOrFolder, Messages.Format(CodeNotOwnedProductOrFolder))
}

// ErrDuplicateProductFolder is returned when the product is already in the folder.
func ErrDuplicateProductFolder() error {
	return apperrors.Duplicate(CodeDuplicateProductFolder, Messages.Format(CodeDuplicateProductFolder))
}

// ErrDuplicateFolderName is returned when the caller already has a folder
// called name, or the request repeats it.
func ErrDuplicateFolderName(name string) error {
	return apperrors.Duplicate(CodeDuplicateFolderName, Messages.Format(CodeDuplicateFolderName, name))
}

// ErrInvalidSortField is returned for a sortBy outside the allowlist.
func ErrInvalidSortField(field string) error {
	return apperrors.Validation(CodeInvalidSortField, Messages.Format(CodeInvalidSortField, field))
}

// ErrDuplicateUsername is returned on signup with a taken username.
func ErrDuplicateUsername() error {
	return apperrors.Duplicate(CodeDuplicateUsername, Messages.Format(CodeDuplicateUsername))
}

// ErrDuplicateEmail is returned on signup with a registered email.
func ErrDuplicateEmail() error {
	return apperrors.Duplicate(CodeDuplicateEmail, Messages.Format(CodeDuplicateEmail))
}

// ErrNotValidAdminToken is returned when an admin signup carries the wrong token.
func ErrNotValidAdminToken() error {
	return apperrors.Forbidden(CodeNotValidAdminToken, Messages.Format(CodeNotValidAdminToken))
}

// ErrInvalidCredentials is returned for an unknown username or a wrong password.
func ErrInvalidCredentials() error {
	return apperrors.Unauthorized(CodeInvalidCredentials, Messages.Format(CodeInvalidCredentials))
}
