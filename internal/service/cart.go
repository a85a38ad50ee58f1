package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/cart_shop/internal/domain"
	"github.com/Skotchmaster/cart_shop/internal/models"
)

type CartRepo interface {
	UserCart(ctx context.Context, userID uint) (*models.Cart, error)
	CartWithItems(ctx context.Context, userID uint) (*models.Cart, error)
	AddItem(ctx context.Context, cart *models.Cart, productID uint) (*models.CartItem, error)
	CartItem(ctx context.Context, cartID, itemID uint) (*models.CartItem, error)
	UpdateItem(ctx context.Context, item *models.CartItem, quantity int) error
	RemoveItem(ctx context.Context, item *models.CartItem) error
	Product(ctx context.Context, id uint) (*models.Product, error)
}

type CartService struct {
	Repo CartRepo
}

func NewCartService(repo CartRepo) *CartService {
	return &CartService{Repo: repo}
}

func (s *CartService) Cart(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := s.Repo.CartWithItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

// Add puts one unit of the product into the user's cart. A product that is
// already in the cart is left as it is.
func (s *CartService) Add(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	if productID == 0 {
		return nil, domain.Invalid("product_id", "is required")
	}

	product, err := s.Repo.Product(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product %d", productID)
	}

	cart, err := s.Repo.UserCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	item, err := s.Repo.AddItem(ctx, cart, product.ID)
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}
	item.Product = product
	return item, nil
}

// Update sets the quantity of an item in the user's cart. It fails with
// *domain.InsufficientStockError when quantity exceeds the product's stock,
// leaving the item untouched.
func (s *CartService) Update(ctx context.Context, userID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, domain.Invalid("quantity", "must be at least 1")
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if item.Product == nil {
		return nil, fmt.Errorf("product of item %d: %w", itemID, domain.ErrNotFound)
	}
	if quantity > item.Product.StockQuantity {
		return nil, &domain.InsufficientStockError{
			ProductID: item.ProductID,
			Requested: quantity,
			Available: item.Product.StockQuantity,
		}
	}

	if err := s.Repo.UpdateItem(ctx, item, quantity); err != nil {
		return nil, notFound(err, "item %d", itemID)
	}
	item.Quantity = quantity
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uint) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if err := s.Repo.RemoveItem(ctx, item); err != nil {
		return notFound(err, "item %d", itemID)
	}
	return nil
}

func (s *CartService) ownedItem(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	if itemID == 0 {
		return nil, domain.Invalid("item_id", "is required")
	}

	cart, err := s.Repo.UserCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	item, err := s.Repo.CartItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, notFound(err, "item %d", itemID)
	}
	return item, nil
}

// notFound maps gorm.ErrRecordNotFound to domain.ErrNotFound and wraps
// anything else unchanged.
func notFound(err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
