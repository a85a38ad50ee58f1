package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsufficientStockError_Matching(t *testing.T) {
	err := fmt.Errorf("update item 3: %w", &InsufficientStockError{ProductID: 1, Requested: 11, Available: 10})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.False(t, errors.Is(err, ErrNotFound))

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 10, stockErr.Available)
	assert.Contains(t, err.Error(), "requested 11, available 10")
}

func TestValidationError_Matching(t *testing.T) {
	err := fmt.Errorf("create product: %w", Invalid("price", "must not be negative"))

	assert.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "price", verr.Field)
	assert.Equal(t, "create product: price must not be negative", err.Error())
}
