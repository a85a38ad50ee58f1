package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/cart_shop/internal/dbtest"
	"github.com/Skotchmaster/cart_shop/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: dbtest.Open(t)}
}

func TestUserCart_Idempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.UserCart(ctx, 1)
	require.NoError(t, err)
	second, err := r.UserCart(ctx, 1)
	require.NoError(t, err)
	other, err := r.UserCart(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, first.ID, other.ID)

	var count int64
	require.NoError(t, r.DB.Model(&models.Cart{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestAddItem_NoDuplicates(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	product := dbtest.CreateProduct(t, r.DB, "mug", "5.00", 10)

	cart, err := r.UserCart(ctx, 1)
	require.NoError(t, err)

	first, err := r.AddItem(ctx, cart, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	require.NoError(t, r.UpdateItem(ctx, first, 4))

	second, err := r.AddItem(ctx, cart, product.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Quantity)

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateItem_Overwrites(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	product := dbtest.CreateProduct(t, r.DB, "mug", "5.00", 10)

	cart, err := r.UserCart(ctx, 1)
	require.NoError(t, err)
	item, err := r.AddItem(ctx, cart, product.ID)
	require.NoError(t, err)

	require.NoError(t, r.UpdateItem(ctx, item, 7))

	stored, err := r.CartItem(ctx, cart.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Quantity)
	require.NotNil(t, stored.Product)
	assert.Equal(t, "mug", stored.Product.Name)
}

func TestRemoveItem_ThenNotFound(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	product := dbtest.CreateProduct(t, r.DB, "mug", "5.00", 10)

	cart, err := r.UserCart(ctx, 1)
	require.NoError(t, err)
	item, err := r.AddItem(ctx, cart, product.ID)
	require.NoError(t, err)

	require.NoError(t, r.RemoveItem(ctx, item))

	_, err = r.CartItem(ctx, cart.ID, item.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = r.RemoveItem(ctx, item)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCartItem_ScopedToCart(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	product := dbtest.CreateProduct(t, r.DB, "mug", "5.00", 10)

	mine, err := r.UserCart(ctx, 1)
	require.NoError(t, err)
	theirs, err := r.UserCart(ctx, 2)
	require.NoError(t, err)
	item, err := r.AddItem(ctx, theirs, product.ID)
	require.NoError(t, err)

	_, err = r.CartItem(ctx, mine.ID, item.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCartWithItems_PreloadsProducts(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	mug := dbtest.CreateProduct(t, r.DB, "mug", "5.00", 10)
	tea := dbtest.CreateProduct(t, r.DB, "tea", "2.50", 10)

	cart, err := r.UserCart(ctx, 1)
	require.NoError(t, err)
	_, err = r.AddItem(ctx, cart, mug.ID)
	require.NoError(t, err)
	_, err = r.AddItem(ctx, cart, tea.ID)
	require.NoError(t, err)

	full, err := r.CartWithItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, full.Items, 2)
	assert.Equal(t, "mug", full.Items[0].Product.Name)
	assert.Equal(t, "tea", full.Items[1].Product.Name)
	assert.Equal(t, "7.50", full.Total().StringFixed(2))
}

// insertFirst makes another writer insert a conflicting row right before the
// next INSERT into table runs.
func insertFirst(t *testing.T, r *GormRepo, table, query string, args ...any) {
	t.Helper()
	fired := false
	err := r.DB.Callback().Create().Before("gorm:create").Register("test:insert_first_"+table, func(db *gorm.DB) {
		if fired || db.Statement.Table != table {
			return
		}
		fired = true
		if _, err := db.Statement.ConnPool.ExecContext(db.Statement.Context, query, args...); err != nil {
			db.AddError(err)
		}
	})
	require.NoError(t, err)
}

func TestUserCart_LosesInsertRace(t *testing.T) {
	r := newTestRepo(t)
	insertFirst(t, r, "carts",
		"INSERT INTO carts (user_id, created_at) VALUES (?, ?)", 1, time.Now().UTC())

	cart, err := r.UserCart(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cart.UserID)

	var count int64
	require.NoError(t, r.DB.Model(&models.Cart{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItem_LosesInsertRace(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	product := dbtest.CreateProduct(t, r.DB, "mug", "5.00", 10)
	cart, err := r.UserCart(ctx, 1)
	require.NoError(t, err)

	now := time.Now().UTC()
	insertFirst(t, r, "cart_items",
		"INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		cart.ID, product.ID, 3, now, now)

	item, err := r.AddItem(ctx, cart, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
