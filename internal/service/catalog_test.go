package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cart_shop/internal/dbtest"
	"github.com/Skotchmaster/cart_shop/internal/domain"
	"github.com/Skotchmaster/cart_shop/internal/jobs"
	"github.com/Skotchmaster/cart_shop/internal/models"
	"github.com/Skotchmaster/cart_shop/internal/repo"
	"github.com/Skotchmaster/cart_shop/internal/search"
	"github.com/Skotchmaster/cart_shop/internal/stock"
)

type fakeIndex struct {
	indexed []uint
	hits    []uint
	err     error
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []uint, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

func newCatalog(t *testing.T, idx Indexer) (*CatalogService, *repo.GormRepo, *jobs.ChanQueue) {
	t.Helper()
	r := &repo.GormRepo{DB: dbtest.Open(t)}
	q := jobs.NewChanQueue(8)
	return &CatalogService{Repo: r, Ledger: stock.NewLedger(r, q), Search: idx}, r, q
}

func TestProducts_Paginates(t *testing.T) {
	svc, r, _ := newCatalog(t, nil)
	for i := 1; i <= 23; i++ {
		dbtest.CreateProduct(t, r.DB, fmt.Sprintf("p%02d", i), "1.00", 1)
	}

	page, err := svc.Products(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, PageMeta{Page: 3, PerPage: 10, Total: 23, LastPage: 3}, page.Meta)
	assert.Equal(t, "p03", page.Items[0].Name)
}

func TestCreateProduct(t *testing.T) {
	idx := &fakeIndex{}
	svc, _, _ := newCatalog(t, idx)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, NewProduct{Name: "  mug ", Price: decimal.RequireFromString("4.999"), StockQuantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "mug", p.Name)
	assert.Equal(t, "5.00", p.Price.StringFixed(2))
	assert.Equal(t, []uint{p.ID}, idx.indexed)

	invalid := []NewProduct{
		{Name: "", Price: decimal.NewFromInt(1)},
		{Name: "x", Price: decimal.NewFromInt(-1)},
		{Name: "x", Price: decimal.NewFromInt(1), StockQuantity: -1},
	}
	for _, in := range invalid {
		_, err := svc.CreateProduct(ctx, in)
		assert.True(t, errors.Is(err, domain.ErrValidation), "%+v", in)
	}
}

func TestCreateProduct_IndexFailureIgnored(t *testing.T) {
	svc, _, _ := newCatalog(t, &fakeIndex{err: errors.New("es down")})

	_, err := svc.CreateProduct(context.Background(), NewProduct{Name: "mug", Price: decimal.NewFromInt(1)})
	assert.NoError(t, err)
}

func TestDecrementStock_ThroughLedger(t *testing.T) {
	idx := &fakeIndex{}
	svc, r, q := newCatalog(t, idx)
	p := dbtest.CreateProduct(t, r.DB, "mug", "5.00", 6)

	got, err := svc.DecrementStock(context.Background(), p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, []uint{p.ID}, idx.indexed)

	_, err = svc.DecrementStock(context.Background(), p.ID, 6)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestSearchProducts(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc, _, _ := newCatalog(t, nil)
		_, err := svc.SearchProducts(context.Background(), "mug", 1, 10)
		assert.ErrorIs(t, err, search.ErrSearchDisabled)
	})

	t.Run("hits in rank order", func(t *testing.T) {
		idx := &fakeIndex{}
		svc, r, _ := newCatalog(t, idx)
		a := dbtest.CreateProduct(t, r.DB, "mug", "5.00", 1)
		b := dbtest.CreateProduct(t, r.DB, "big mug", "7.00", 1)
		idx.hits = []uint{b.ID, a.ID}

		page, err := svc.SearchProducts(context.Background(), "mug", 1, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "big mug", page.Items[0].Name)
		assert.EqualValues(t, 2, page.Meta.Total)
	})

	t.Run("empty query", func(t *testing.T) {
		svc, _, _ := newCatalog(t, &fakeIndex{})
		_, err := svc.SearchProducts(context.Background(), "  ", 1, 10)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}
