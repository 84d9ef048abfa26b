package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller may not touch the resource.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the request conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict")

// ErrInternal is returned when an unexpected failure should not leak details to the caller.
var ErrInternal = errors.New("internal error")

// Ledger specific kinds. The *NotFound kinds wrap ErrNotFound so callers can match either.
var (
	ErrPartyNotFound      = fmt.Errorf("party not found: %w", ErrNotFound)
	ErrBillNotFound       = fmt.Errorf("bill not found: %w", ErrNotFound)
	ErrProductNotFound    = fmt.Errorf("product not found: %w", ErrNotFound)
	ErrSettlementNotFound = fmt.Errorf("settlement not found: %w", ErrNotFound)

	// ErrInsufficientStock is returned when a sale line asks for more than the product holds.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNegativeStockGuard is returned when reversing a purchase would drive stock below zero.
	ErrNegativeStockGuard = errors.New("reversal would drive stock below zero")
	// ErrOverSettlement is returned when an allocation exceeds a bill's pending amount.
	ErrOverSettlement = errors.New("allocation exceeds pending amount")
	// ErrUnauthorizedModification is returned for cross-shop access.
	ErrUnauthorizedModification = fmt.Errorf("resource belongs to another shop: %w", ErrForbidden)
	// ErrConsistencyViolation is returned when an invariant check fails or a dependent record blocks the operation.
	ErrConsistencyViolation = errors.New("consistency violation")
	// ErrIntegrity marks a failed rollback. The store may hold partial writes.
	ErrIntegrity = errors.New("ledger integrity failure")
)

// AppError carries an HTTP-ish code and a message alongside the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}
