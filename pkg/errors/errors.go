package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrIllegalTransition     = errors.New("illegal state transition")
	ErrConflict              = errors.New("conflict")
	ErrPreconditionFailed    = errors.New("precondition failed")
	ErrForbidden             = errors.New("forbidden")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrNoEligibleInstallment = errors.New("no eligible installments")
	ErrInsufficientPayment   = errors.New("insufficient payment")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeNotFound               = "NOT_FOUND"
	ErrCodeInvalidArgument        = "INVALID_ARGUMENT"
	ErrCodeIllegalTransition      = "ILLEGAL_TRANSITION"
	ErrCodeConflict               = "CONFLICT"
	ErrCodePreconditionFailed     = "PRECONDITION_FAILED"
	ErrCodeForbidden              = "FORBIDDEN"
	ErrCodeUnauthenticated        = "UNAUTHENTICATED"
	ErrCodeNoEligibleInstallments = "NO_ELIGIBLE_INSTALLMENTS"
	ErrCodeInsufficientPayment    = "INSUFFICIENT_PAYMENT"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
	ErrCodeStorageError           = "STORAGE_ERROR"
)

// CodeOf returns the business code carried by err, or an empty string when
// err is not a BusinessError.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// HasCode reports whether err is a BusinessError with the given code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}

func WrapNotFound(entity string, id any) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s with ID %v not found", entity, id),
		ErrNotFound,
	)
}

func WrapInvalidArgument(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidArgument, message, ErrInvalidArgument)
}

func WrapIllegalTransition(entity string, id any, from, to string) *BusinessError {
	return NewBusinessError(
		ErrCodeIllegalTransition,
		fmt.Sprintf("%s with ID %v cannot move from %s to %s", entity, id, from, to),
		ErrIllegalTransition,
	)
}

func WrapConflict(message string) *BusinessError {
	return NewBusinessError(ErrCodeConflict, message, ErrConflict)
}

func WrapPreconditionFailed(message string) *BusinessError {
	return NewBusinessError(ErrCodePreconditionFailed, message, ErrPreconditionFailed)
}

func WrapForbidden(action string) *BusinessError {
	return NewBusinessError(
		ErrCodeForbidden,
		fmt.Sprintf("role is not allowed to %s", action),
		ErrForbidden,
	)
}

func WrapUnauthenticated(message string) *BusinessError {
	return NewBusinessError(ErrCodeUnauthenticated, message, ErrUnauthenticated)
}

func WrapNoEligibleInstallments() *BusinessError {
	return NewBusinessError(
		ErrCodeNoEligibleInstallments,
		"No valid, pending installments found for the given IDs.",
		ErrNoEligibleInstallment,
	)
}

func WrapInsufficientPayment(expected, actual string) *BusinessError {
	return NewBusinessError(
		ErrCodeInsufficientPayment,
		fmt.Sprintf("Insufficient payment of %s. Please pay the full amount due (%s) for the selected installments.", actual, expected),
		ErrInsufficientPayment,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"document storage operation failed",
		err,
	)
}
