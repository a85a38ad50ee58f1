package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"                  json:"id"`
	Name          string          `gorm:"not null"                                  json:"name"`
	Description   string          `gorm:"not null;default:''"                       json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null"               json:"price"`
	StockQuantity int             `gorm:"not null;default:0;check:stock_quantity>=0" json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null"      json:"user_id"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                  json:"id"`
	CartID    uint      `gorm:"uniqueIndex:idx_cart_product;not null"     json:"cart_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_product;not null"     json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `gorm:"not null;default:1;check:quantity>0"       json:"quantity"`
	CreatedAt time.Time `gorm:"index"                                     json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal is quantity times the unit price of the preloaded product.
func (i CartItem) Subtotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums the subtotals of all preloaded items.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// DailySale is one grouped row of the daily sales report.
type DailySale struct {
	Name          string          `json:"name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}
