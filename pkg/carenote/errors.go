package carenote

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// APIError is returned for every non-2xx backend response. Message carries
// the parsed error body when the backend sent one, otherwise the transport
// status text.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("carenote: %s (%s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("carenote: %s (status %d)", e.Message, e.StatusCode)
}

// newAPIError extracts a human-readable message from the raw error body.
// Backends in the wild use error/message/detail interchangeably.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: body}

	parsed := gjson.ParseBytes(body)
	for _, key := range []string{"error", "message", "detail"} {
		if v := parsed.Get(key); v.Exists() && v.String() != "" {
			apiErr.Message = v.String()
			break
		}
	}
	if v := parsed.Get("code"); v.Exists() {
		apiErr.Code = v.String()
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// AsAPIError unwraps err to an *APIError when the failure came from an HTTP
// response rather than the transport.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthError reports whether err is a 401/403 response, i.e. the session
// is no longer valid and the client should force a logout.
func IsAuthError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}
