package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/cart_shop/internal/models"
)

// UserCart returns the cart of the user, creating an empty one on first access.
// A concurrent first access that wins the insert is read back instead of
// failing on the unique user_id index.
func (r *GormRepo) UserCart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart := models.Cart{}
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Cart{UserID: userID}).Error; err != nil {
		return nil, err
	}

	cart = models.Cart{}
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// CartWithItems is UserCart with items and their products preloaded.
func (r *GormRepo) CartWithItems(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := r.UserCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0)
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cart.ID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	cart.Items = items
	return cart, nil
}

// AddItem returns the item for (cart, product), creating it with quantity 1
// when absent. An existing item is returned untouched, including one a
// concurrent request inserted first.
func (r *GormRepo) AddItem(ctx context.Context, cart *models.Cart, productID uint) (*models.CartItem, error) {
	item := models.CartItem{}
	err := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		First(&item).Error
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: 1}).Error; err != nil {
		return nil, err
	}

	item = models.CartItem{}
	if err := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CartItem loads an item of the given cart with its product.
func (r *GormRepo) CartItem(ctx context.Context, cartID, itemID uint) (*models.CartItem, error) {
	item := models.CartItem{}
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) UpdateItem(ctx context.Context, item *models.CartItem, quantity int) error {
	res := r.DB.WithContext(ctx).Model(item).Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) RemoveItem(ctx context.Context, item *models.CartItem) error {
	res := r.DB.WithContext(ctx).Delete(&models.CartItem{}, item.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
