package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker/v2"

	apperrors "github.com/asqwklop12/sparta/pkg/errors"
)

// UpstreamError is a non-2xx answer from a remote API.
type UpstreamError struct {
	Status  int
	Code    string
	Message string
	Body    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream status %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// upstreamBody covers the two error shapes seen in practice: the flat
// errorCode/errorMessage form and the {"error":{code,message}} envelope.
type upstreamBody struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	Error        *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads and closes the body of a non-2xx response.
func ParseResponseError(resp *http.Response) *UpstreamError {
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	ue := &UpstreamError{Status: resp.StatusCode, Body: string(raw)}

	var body upstreamBody
	if json.Unmarshal(raw, &body) == nil {
		switch {
		case body.Error != nil:
			ue.Code, ue.Message = body.Error.Code, body.Error.Message
		case body.ErrorCode != "" || body.ErrorMessage != "":
			ue.Code, ue.Message = body.ErrorCode, body.ErrorMessage
		}
	}
	return ue
}

// ToAppError maps an outbound call failure to the error returned to our own
// callers. A 400 means our query was rejected; everything else (breaker open,
// throttling, bad credentials, 5xx, network) means the upstream is unusable.
func ToAppError(upstream string, err error) error {
	if err == nil {
		return nil
	}

	var ue *UpstreamError
	if errors.As(err, &ue) && ue.Status == http.StatusBadRequest {
		msg := ue.Message
		if msg == "" {
			msg = "request rejected by " + upstream
		}
		return apperrors.Validation("invalid.lookup.query", msg)
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.Unavailable(upstream+" temporarily unavailable", err)
	}
	return apperrors.Unavailable(upstream+" request failed", err)
}
