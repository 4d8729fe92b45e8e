package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrDependency = errors.New("dependency failure")
)

var (
	ErrEmptyCart              = fmt.Errorf("cart is empty: %w", ErrValidation)
	ErrNotAvailable           = fmt.Errorf("costume not available: %w", ErrValidation)
	ErrInvalidPrice           = fmt.Errorf("invalid price: %w", ErrValidation)
	ErrTotalCalculationFailed = fmt.Errorf("total calculation failed: %w", ErrValidation)
	ErrInvalidTotal           = fmt.Errorf("invalid cart total: %w", ErrValidation)
	ErrInsufficientStock      = fmt.Errorf("insufficient stock: %w", ErrConflict)
	ErrOverdue                = fmt.Errorf("rental is overdue: %w", ErrConflict)
)

// LineError reports which requested costume made a cart operation fail.
type LineError struct {
	CostumeID uint
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("costume %d: %v", e.CostumeID, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
