package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error sentinel values
var (
	ErrInternal        = errors.New("internal server error")
	ErrCORSBlocked     = errors.New("request blocked by CORS policy")
	ErrRouteNotFound   = errors.New("route not found")
	ErrMethodNotFound  = errors.New("method not allowed")
	ErrTooManyRequests = errors.New("too many requests")
	ErrUnavailable     = errors.New("service unavailable")
)

// ApiErr is the fault value carried from any layer to the terminal error handler.
// StatusCode defaults to 500 when left unset.
type ApiErr struct {
	StatusCode int
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
	Stack      []byte // Goroutine stack, only set for recovered panics
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// Status returns the HTTP status of the fault, falling back to 500.
func (e *ApiErr) Status() int {
	if e.StatusCode == 0 {
		return http.StatusInternalServerError
	}
	return e.StatusCode
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// From converts any error into a fault. Errors that are not already an ApiErr
// become a 500 carrying the original error as cause.
func From(err error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternalErrorWithCause("internal server error", err)
}

// Common error constructors with appropriate HTTP status codes
func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: errors.New(message)}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: errors.New(message)}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: errors.New(message)}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: errors.New(message)}
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        errors.New(message),
		Cause:      cause,
	}
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrCORSBlocked,
		Details:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}

func NewRouteNotFoundError() *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: ErrRouteNotFound}
}

func NewMethodNotAllowedError(method string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusMethodNotAllowed,
		err:        ErrMethodNotFound,
		Details:    method,
	}
}

func NewTooManyRequestsError() *ApiErr {
	return &ApiErr{StatusCode: http.StatusTooManyRequests, err: ErrTooManyRequests}
}

func NewUnavailableError(details string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrUnavailable,
		Details:    details,
		Cause:      cause,
	}
}

// NewPanicError wraps a recovered panic value together with the goroutine stack.
func NewPanicError(recovered any, stack []byte) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrInternal,
		Cause:      fmt.Errorf("panic: %v", recovered),
		Stack:      stack,
	}
}

// StatusOf returns the HTTP status a given error maps to.
func StatusOf(err error) int {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.Status()
	}
	return http.StatusInternalServerError
}

func IsBadRequest(err error) bool {
	return err != nil && StatusOf(err) == http.StatusBadRequest
}

func IsUnauthorized(err error) bool {
	return err != nil && StatusOf(err) == http.StatusUnauthorized
}

func IsInternal(err error) bool {
	return err != nil && StatusOf(err) == http.StatusInternalServerError
}

func IsConflict(err error) bool {
	return err != nil && StatusOf(err) == http.StatusConflict
}

func IsNotFound(err error) bool {
	return err != nil && StatusOf(err) == http.StatusNotFound
}
