package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cart_shop/internal/models"
)

type AddToCartRequest struct {
	ProductID uint `json:"product_id" form:"product_id" validate:"required"`
}

type UpdateCartRequest struct {
	ItemID   uint `json:"item_id"  form:"item_id"  validate:"required"`
	Quantity int  `json:"quantity" form:"quantity" validate:"required,min=1"`
}

type RemoveFromCartRequest struct {
	ItemID uint `json:"item_id" form:"item_id" validate:"required"`
}

type CreateProductRequest struct {
	Name          string          `json:"name"           validate:"required,max=255"`
	Description   string          `json:"description"    validate:"max=2000"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
}

type DecrementStockRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type SuccessResponse struct {
	Success bool             `json:"success"`
	Item    *models.CartItem `json:"item,omitempty"`
}

type StockErrorResponse struct {
	Error     string `json:"error"`
	Available int    `json:"available"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type Paginated struct {
	Data        []models.Product `json:"data"`
	CurrentPage int              `json:"current_page"`
	PerPage     int              `json:"per_page"`
	Total       int64            `json:"total"`
	LastPage    int              `json:"last_page"`
}

type ProductsResponse struct {
	Products Paginated `json:"products"`
}

var (
	TaxRate  = decimal.RequireFromString("0.05")
	Shipping = decimal.RequireFromString("10.00")
)

type CartSummary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

type CartResponse struct {
	Cart    *models.Cart `json:"cart"`
	Summary CartSummary  `json:"summary"`
}

// Summarize prices the cart the way the storefront shows it: 5% tax and a
// flat shipping fee on top of the item subtotal.
func Summarize(cart *models.Cart) CartSummary {
	subtotal := cart.Total().Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)
	return CartSummary{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: Shipping,
		Total:    subtotal.Add(tax).Add(Shipping),
	}
}
