// Package errors categorises service errors and maps them to HTTP status codes.
package errors

import (
	"errors"
	"net/http"
)

// Category classifies a ServiceError.
type Category int

const (
	// CategoryGeneralError is an unexpected failure. Its message is never shown to clients.
	CategoryGeneralError Category = iota
	// CategoryDataError is invalid client input.
	CategoryDataError
	// CategoryUnauthorized means the caller could not be authenticated.
	CategoryUnauthorized
	// CategoryResourceNotFound means the addressed resource does not exist.
	CategoryResourceNotFound
	// CategoryDataConflict means the request collides with existing state.
	CategoryDataConflict
	// CategoryGone means the resource existed but is no longer usable, e.g. an expired session.
	CategoryGone
	// CategoryDependencyFailure means a backing service (redis, a node) failed.
	CategoryDependencyFailure
)

var categories = map[Category]struct {
	name   string
	status int
	// fallback is the logged error when the caller passes none.
	fallback string
}{
	CategoryGeneralError:      {"CategoryGeneralError", http.StatusInternalServerError, "internal server error"},
	CategoryDataError:         {"CategoryDataError", http.StatusBadRequest, "bad request"},
	CategoryUnauthorized:      {"CategoryUnauthorized", http.StatusUnauthorized, "unauthorized"},
	CategoryResourceNotFound:  {"CategoryResourceNotFound", http.StatusNotFound, "resource not found"},
	CategoryDataConflict:      {"CategoryDataConflict", http.StatusConflict, "conflict"},
	CategoryGone:              {"CategoryGone", http.StatusGone, "gone"},
	CategoryDependencyFailure: {"CategoryDependencyFailure", http.StatusBadGateway, "dependency failure"},
}

func (c Category) String() string {
	if info, ok := categories[c]; ok {
		return info.name
	}
	return categories[CategoryGeneralError].name
}

// ServiceError carries a client-facing Message and the underlying Err, which is only logged.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

func (err ServiceError) Unwrap() error {
	return err.Err
}

// StatusCode returns the HTTP status for the error's category.
func (err ServiceError) StatusCode() int {
	if info, ok := categories[err.Category]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Is reports whether err is a ServiceError of category cat.
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// IsInternalError reports whether err should be treated as a server-side fault:
// anything that is not a ServiceError, a general error or a dependency failure.
func IsInternalError(err error) bool {
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		return true
	}
	return svcErr.Category == CategoryGeneralError || svcErr.Category == CategoryDependencyFailure
}

func newError(cat Category, err error, message string) error {
	if err == nil {
		err = errors.New(categories[cat].fallback + ": " + message)
	}
	return &ServiceError{Category: cat, Message: message, Err: err}
}

// GeneralError hides err behind "Internal Server Error".
func GeneralError(err error) error {
	if err == nil {
		err = errors.New(categories[CategoryGeneralError].fallback)
	}
	return &ServiceError{Category: CategoryGeneralError, Message: "Internal Server Error", Err: err}
}

// BadRequestError returns a CategoryDataError; message is shown to the client.
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, message)
}

// UnAuthorizedError returns a CategoryUnauthorized error.
func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, message)
}

// ResourceNotFoundError returns a CategoryResourceNotFound error.
func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, message)
}

// ConflictError returns a CategoryDataConflict error.
func ConflictError(err error, message string) error {
	return newError(CategoryDataConflict, err, message)
}

// GoneError returns a CategoryGone error.
func GoneError(err error, message string) error {
	return newError(CategoryGone, err, message)
}

// DependencyFailureError returns a CategoryDependencyFailure error.
func DependencyFailureError(err error, message string) error {
	return newError(CategoryDependencyFailure, err, message)
}
