package apiclient

import (
	"errors"
	"fmt"

	"hobbyhub-client/internal/models"
)

// NetworkErrorMessage is shown for every transport failure, whatever the
// underlying cause.
const NetworkErrorMessage = "Network error. Please check your connection and try again."

var (
	ErrInvalidProjectID = errors.New("invalid project ID format")
	ErrInvalidFileID    = errors.New("invalid file ID format")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func newAPIError(statusCode int, env *models.Envelope) *APIError {
	msg := fmt.Sprintf("HTTP error! status: %d", statusCode)
	if env != nil && env.Error != "" {
		msg = env.Error
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError wraps a transport failure. Its message is always
// NetworkErrorMessage; the cause stays reachable through Unwrap.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return NetworkErrorMessage
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// StatusCode returns the HTTP status of an APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// ErrorMessage is the text a screen shows for err.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return NetworkErrorMessage
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Fail converts err into the failed form of a Result.
func Fail[T any](err error) models.Result[T] {
	return models.Result[T]{Success: false, Error: ErrorMessage(err)}
}
