package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/asqwklop12/sparta/pkg/errors"
)

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestParseResponseError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		code    string
		message string
	}{
		{"flat", `{"errorCode":"SE01","errorMessage":"Incorrect query request"}`, "SE01", "Incorrect query request"},
		{"envelope", `{"error":{"code":"BAD","message":"nope"}}`, "BAD", "nope"},
		{"plain text", `oops`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ue := ParseResponseError(response(http.StatusBadRequest, tt.body))
			assert.Equal(t, http.StatusBadRequest, ue.Status)
			assert.Equal(t, tt.code, ue.Code)
			assert.Equal(t, tt.message, ue.Message)
			assert.Equal(t, tt.body, ue.Body)
		})
	}
}

func TestToAppError(t *testing.T) {
	assert.NoError(t, ToAppError("lookup", nil))

	err := ToAppError("lookup", &UpstreamError{Status: http.StatusBadRequest, Message: "Incorrect query request"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, "invalid.lookup.query", apperrors.CodeOf(err))

	for _, cause := range []error{
		gobreaker.ErrOpenState,
		gobreaker.ErrTooManyRequests,
		&UpstreamError{Status: http.StatusUnauthorized},
		&UpstreamError{Status: http.StatusBadGateway},
		errors.New("dial tcp: connection refused"),
	} {
		err := ToAppError("lookup", cause)
		assert.ErrorIs(t, err, apperrors.ErrServiceUnavail, cause.Error())
		assert.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(err))
	}
}
