package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cart_shop/internal/domain"
	"github.com/Skotchmaster/cart_shop/internal/models"
	"github.com/Skotchmaster/cart_shop/internal/search"
	"github.com/Skotchmaster/cart_shop/internal/util"
	"github.com/Skotchmaster/cart_shop/pkg/logging"
)

type CatalogRepo interface {
	Product(ctx context.Context, id uint) (*models.Product, error)
	Products(ctx context.Context, offset, limit int) (int64, []models.Product, error)
	ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	CreateProduct(ctx context.Context, prod *models.Product) error
}

type StockLedger interface {
	Decrement(ctx context.Context, productID uint, quantity int) (*models.Product, error)
}

type Indexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo   CatalogRepo
	Ledger StockLedger
	// Search may be nil; search requests then fail with search.ErrSearchDisabled.
	Search Indexer
}

type PageMeta struct {
	Page     int   `json:"current_page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

type ProductPage struct {
	Items []models.Product `json:"data"`
	Meta  PageMeta         `json:"meta"`
}

type NewProduct struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
}

func (s *CatalogService) Products(ctx context.Context, page, size int) (*ProductPage, error) {
	from, limit := util.Calculate(page, size)
	total, items, err := s.Repo.Products(ctx, from, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ProductPage{Items: items, Meta: meta(page, limit, total)}, nil
}

func (s *CatalogService) Product(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.Product(ctx, id)
	if err != nil {
		return nil, notFound(err, "product %d", id)
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in NewProduct) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "is required")
	}
	if in.Price.IsNegative() {
		return nil, domain.Invalid("price", "must not be negative")
	}
	if in.StockQuantity < 0 {
		return nil, domain.Invalid("stock_quantity", "must not be negative")
	}

	p := &models.Product{
		Name:          name,
		Description:   in.Description,
		Price:         in.Price.Round(2),
		StockQuantity: in.StockQuantity,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.reindex(ctx, p)
	return p, nil
}

// DecrementStock takes units out of stock through the ledger, which raises
// the low-stock alert when needed.
func (s *CatalogService) DecrementStock(ctx context.Context, id uint, quantity int) (*models.Product, error) {
	p, err := s.Ledger.Decrement(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, p)
	return p, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, page, size int) (*ProductPage, error) {
	if s.Search == nil {
		return nil, search.ErrSearchDisabled
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.Invalid("q", "is required")
	}

	from, limit := util.Calculate(page, size)
	total, ids, err := s.Search.Search(ctx, query, from, limit)
	if err != nil {
		return nil, err
	}

	items, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load search hits: %w", err)
	}
	return &ProductPage{Items: items, Meta: meta(page, limit, total)}, nil
}

func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, p); err != nil && !errors.Is(err, search.ErrSearchDisabled) {
		logging.FromContext(ctx).Warn("product_index_failed", "product_id", p.ID, "error", err)
	}
}

func meta(page, size int, total int64) PageMeta {
	if page < 1 {
		page = 1
	}
	return PageMeta{
		Page:     page,
		PerPage:  size,
		Total:    total,
		LastPage: util.LastPage(total, size),
	}
}
