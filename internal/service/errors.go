package service

import (
	"errors"
	"fmt"
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeConflict        = "CONFLICT"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
)

type Resource string

const ResourceVolunteer Resource = "volunteer"
const ResourceTask Resource = "task"
const ResourcePost Resource = "post"

// BusinessError is an expected failure the caller can act on. Anything else that
// leaves the service layer is an internal error.
type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource Resource, id string) *BusinessError {
	return NewBusinessError(CodeNotFound,
		fmt.Sprintf("%s %s not found", resource, id),
		ToDetail("resource", resource),
		ToDetail("id", id),
	)
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(CodeValidation,
		fmt.Sprintf("invalid value for field '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

func NewConflict(message string, details ...Detail) *BusinessError {
	return NewBusinessError(CodeConflict, message, details...)
}

func NewUnauthenticated(message string, cause error) *BusinessError {
	busErr := NewBusinessError(CodeUnauthenticated, message)
	busErr.Err = cause
	return busErr
}

func NewForbidden(message string) *BusinessError {
	return NewBusinessError(CodeForbidden, message)
}

// AsBusinessError unwraps err looking for a BusinessError.
func AsBusinessError(err error) (*BusinessError, bool) {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a BusinessError with the given code.
func HasCode(err error, code string) bool {
	busErr, ok := AsBusinessError(err)
	return ok && busErr.Code == code
}
