package errors

import (
	"errors"
	"fmt"
)

// ErrorCode groups errors so the transport layer can pick a status code.
type ErrorCode string

const (
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInactive           ErrorCode = "INACTIVE"
	ErrCodeUnauthenticated    ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeMisconfigured      ErrorCode = "MISCONFIGURED"
	ErrCodeInternal           ErrorCode = "INTERNAL"
)

// AppError is the only error shape that leaves the service layer.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so the sentinels below
// work with errors.Is regardless of message or cause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewAppError creates a new AppError
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAppError reports whether err wraps an AppError
func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

// GetAppError extracts the AppError from err
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// CodeOf returns the code of err, ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code
	}
	return ErrCodeInternal
}

func InvalidInput(message string) *AppError {
	return NewAppError(ErrCodeInvalidInput, message, nil)
}

func Internal(message string, err error) *AppError {
	return NewAppError(ErrCodeInternal, message, err)
}

func Misconfigured(message string, err error) *AppError {
	return NewAppError(ErrCodeMisconfigured, message, err)
}

var (
	ErrInvalidInput       = NewAppError(ErrCodeInvalidInput, "invalid input", nil)
	ErrInvalidCredentials = NewAppError(ErrCodeInvalidCredentials, "invalid code or PIN", nil)
	ErrInactive           = NewAppError(ErrCodeInactive, "member is inactive", nil)
	ErrUnauthenticated    = NewAppError(ErrCodeUnauthenticated, "authentication required", nil)
	ErrForbidden          = NewAppError(ErrCodeForbidden, "insufficient role", nil)
	ErrNotFound           = NewAppError(ErrCodeNotFound, "member not found", nil)
	ErrConflict           = NewAppError(ErrCodeConflict, "member code already exists", nil)
	ErrMisconfigured      = NewAppError(ErrCodeMisconfigured, "server misconfigured", nil)
	ErrInternal           = NewAppError(ErrCodeInternal, "internal server error", nil)
)
