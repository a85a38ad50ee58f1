package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/cart_shop/internal/models"
)

// DailySales groups cart items created in [from, to) by product name.
func (r *GormRepo) DailySales(ctx context.Context, from, to time.Time) ([]models.DailySale, error) {
	sales := make([]models.DailySale, 0)
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select(
			"products.name AS name, " +
				"SUM(cart_items.quantity) AS total_quantity, " +
				"SUM(cart_items.quantity * products.price) AS total_amount",
		).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.created_at >= ? AND cart_items.created_at < ?", from.UTC(), to.UTC()).
		Group("products.name").
		Order("products.name ASC").
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}
