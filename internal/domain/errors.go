package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation")         // 422
	ErrNotFound          = errors.New("not found")          // 404
	ErrInsufficientStock = errors.New("insufficient stock") // 422
)

// InsufficientStockError reports how many units are left so callers can show
// it to the user. It matches ErrInsufficientStock with errors.Is.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ValidationError names the offending input. It matches ErrValidation with
// errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
