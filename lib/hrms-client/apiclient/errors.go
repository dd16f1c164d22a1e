package apiclient

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ErrInvalidCredentials is returned by Login when the server answers 401.
var ErrInvalidCredentials = errors.New("invalid credentials")

// APIError is a non-2xx answer of the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("hrms api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("hrms api: status %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status of err, 0 when err is not an APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}
