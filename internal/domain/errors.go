package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("credentials do not match")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrDecode             = errors.New("invalid image payload")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// ValidationError 绑定通过但业务上不可用的入参（未知排序列、邮箱已占用等）
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
