package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnreachable wraps transport failures: refused connections, DNS errors,
// timeouts. The original error stays in the chain.
var ErrUnreachable = errors.New("backend unreachable")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api %d %s", e.StatusCode, e.Code)
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool     { return statusOf(err) == http.StatusNotFound }
func IsConflict(err error) bool     { return statusOf(err) == http.StatusConflict }
func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }
func IsBadRequest(err error) bool   { return statusOf(err) == http.StatusBadRequest }
func IsServerError(err error) bool  { return statusOf(err) >= http.StatusInternalServerError }

// HasCode reports whether err is an APIError with the given error code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
