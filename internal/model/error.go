// internal/model/error.go
package model

import "errors"

// Application-level sentinel errors. Services wrap them in AppError,
// webutil.MapErrorToStatusCode maps them to HTTP status codes.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrForbidden      = errors.New("forbidden")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrConflict       = errors.New("resource conflict")

	// certificate workflow
	ErrNotEnrolled     = errors.New("not enrolled in this course")
	ErrAlreadyIssued   = errors.New("certificate already issued")
	ErrNotEligible     = errors.New("course not completed")
	ErrStorageConflict = errors.New("unique constraint violation")
)

// AppError carries a client-facing code and message together with the
// underlying sentinel error. Extra is merged into the top level of the
// JSON error body.
type AppError struct {
	Code    string
	Message string
	Field   string
	Err     error
	Extra   map[string]interface{}
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Err:     err,
	}
}

// WithExtra attaches an additional top-level field to the error body.
func (e *AppError) WithExtra(key string, value interface{}) *AppError {
	if e.Extra == nil {
		e.Extra = make(map[string]interface{})
	}
	e.Extra[key] = value
	return e
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Detail returns the part of the error exposed to clients.
func (e *AppError) Detail() ErrorDetail {
	return ErrorDetail{
		Code:    e.Code,
		Message: e.Message,
		Field:   e.Field,
	}
}

// ErrorDetail is the "error" object of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse is the JSON body of every error response.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
