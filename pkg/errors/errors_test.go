package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- AppError behavior ---

func TestAppError_ErrorString_WithWrappedError(t *testing.T) {
	appErr := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: fmt.Errorf("db connection lost")}
	assert.Contains(t, appErr.Error(), "INTERNAL_ERROR")
	assert.Contains(t, appErr.Error(), "something broke")
	assert.Contains(t, appErr.Error(), "db connection lost")
}

func TestAppError_ErrorString_WithoutWrappedError(t *testing.T) {
	appErr := &AppError{Code: "not.found.product", Message: "product not found"}
	assert.Equal(t, "not.found.product: product not found", appErr.Error())
}

// --- Constructors ---

func TestConstructors_KindAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		kind   error
		status int
	}{
		{"validation", Validation("below.min.my.price", "too low"), ErrInvalidInput, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad"), ErrInvalidInput, http.StatusBadRequest},
		{"not found", NotFound("not.found.folder", "missing"), ErrNotFound, http.StatusNotFound},
		{"duplicate", Duplicate("duplicate.product.folder", "dup"), ErrAlreadyExists, http.StatusConflict},
		{"forbidden", Forbidden("not.owned", "nope"), ErrForbidden, http.StatusForbidden},
		{"unauthorized", Unauthorized("invalid.credentials", "who"), ErrUnauthorized, http.StatusUnauthorized},
		{"unavailable", Unavailable("lookup down", errors.New("dial tcp")), ErrServiceUnavail, http.StatusServiceUnavailable},
		{"internal", Internal(errors.New("boom")), ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestInternal_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "an internal error occurred", err.Message)
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("update my price: %w", NotFound("not.found.product", "x"))
	assert.Equal(t, "not.found.product", CodeOf(wrapped))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

// --- HTTPStatus fallbacks ---

func TestHTTPStatus_Sentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(Wrap(ErrNotFound, "get product")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrAlreadyExists))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrInvalidInput))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrUnauthorized))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrForbidden))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrServiceUnavail))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("unknown")))
}

// --- Catalog ---

func TestCatalog_Format(t *testing.T) {
	c := Catalog{
		"below.min.my.price": "my price must be at least %d",
		"not.found.product":  "product not found",
	}

	assert.Equal(t, "my price must be at least 100", c.Format("below.min.my.price", 100))
	assert.Equal(t, "product not found", c.Format("not.found.product"))
}

func TestCatalog_Format_UnknownCode(t *testing.T) {
	c := Catalog{}
	require.Equal(t, "some.code", c.Format("some.code", 1, 2))
}
