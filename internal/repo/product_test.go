package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cart_shop/internal/dbtest"
)

func TestProducts_NewestFirst(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		dbtest.CreateProduct(t, r.DB, fmt.Sprintf("p%02d", i), "1.00", i)
	}

	total, page, err := r.Products(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	require.Len(t, page, 10)
	assert.Equal(t, "p12", page[0].Name)

	_, last, err := r.Products(ctx, 10, 10)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "p01", last[1].Name)
}

func TestProduct_NotFound(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.Product(context.Background(), 99)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDecrementStock(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := dbtest.CreateProduct(t, r.DB, "mug", "5.00", 3)

	got, ok, err := r.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, got.StockQuantity)
	assert.Equal(t, "mug", got.Name)

	got, ok, err = r.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok, "must not go below zero")
	assert.Equal(t, 1, got.StockQuantity)

	stored, err := r.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.StockQuantity)
}

func TestDecrementStock_MissingProduct(t *testing.T) {
	r := newTestRepo(t)

	_, _, err := r.DecrementStock(context.Background(), 99, 1)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestProductsByIDs_KeepsOrder(t *testing.T) {
	r := newTestRepo(t)
	a := dbtest.CreateProduct(t, r.DB, "a", "1.00", 1)
	b := dbtest.CreateProduct(t, r.DB, "b", "1.00", 1)

	got, err := r.ProductsByIDs(context.Background(), []uint{b.ID, 999, a.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Name)
	assert.Equal(t, "a", got[1].Name)

	empty, err := r.ProductsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
