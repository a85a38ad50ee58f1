package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/cart_shop/internal/models"
)

func (r *GormRepo) Product(ctx context.Context, id uint) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Products returns one page of products, newest first, and the total count.
func (r *GormRepo) Products(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

// DecrementStock subtracts quantity only when enough stock is left and
// returns the product as this transaction left it. The row is locked for the
// read and the write, so the returned stock never includes a concurrent
// decrement. The bool reports whether stock was taken.
func (r *GormRepo) DecrementStock(ctx context.Context, productID uint, quantity int) (*models.Product, bool, error) {
	var product models.Product
	decremented := false

	if err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, productID).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock_quantity >= ?", productID, quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		decremented = true

		product = models.Product{}
		return tx.First(&product, productID).Error
	}); err != nil {
		return nil, false, err
	}
	return &product, decremented, nil
}

// ProductsByIDs loads the given products in the order of ids. Unknown ids are
// skipped.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	found := make([]models.Product, 0, len(ids))
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
