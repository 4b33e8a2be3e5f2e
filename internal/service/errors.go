package service

import (
	"fmt"
	"strings"
)

type Code string

// закрытый список ошибок, которые видит транспортный слой
const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeInvalidID     Code = "INVALID_ID"
	CodeNotFound      Code = "NOT_FOUND"
	CodeRouteNotFound Code = "ROUTE_NOT_FOUND"
	CodeInternal      Code = "INTERNAL_ERROR"
)

type BusinessError struct {
	Code    Code
	Message string
	Err     error
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

// NewValidationError склеивает все нарушения в одно сообщение
func NewValidationError(violations ...string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: strings.Join(violations, "; "),
	}
}

func NewInvalidID() *BusinessError {
	return &BusinessError{
		Code:    CodeInvalidID,
		Message: "Invalid ID format",
	}
}

func NewNotFound() *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: "Task not found",
	}
}

func NewRouteNotFound() *BusinessError {
	return &BusinessError{
		Code:    CodeRouteNotFound,
		Message: "Route not found",
	}
}

func NewInternal(err error) *BusinessError {
	return &BusinessError{
		Code:    CodeInternal,
		Message: "Server error",
		Err:     err,
	}
}
