package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cart_shop/internal/dbtest"
)

func TestGetProducts(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 12; i++ {
		dbtest.CreateProduct(t, env.Repo.DB, fmt.Sprintf("product %02d", i), "2.50", i)
	}

	t.Run("json second page", func(t *testing.T) {
		c, rec := env.context(jsonRequest(http.MethodGet, "/products?page=2", ""), 0)
		require.NoError(t, env.Catalog.GetProducts(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		products := decode(t, rec)["products"].(map[string]any)
		assert.EqualValues(t, 2, products["current_page"])
		assert.EqualValues(t, 10, products["per_page"])
		assert.EqualValues(t, 12, products["total"])
		assert.EqualValues(t, 2, products["last_page"])
		assert.Len(t, products["data"], 2)
	})

	t.Run("html first page", func(t *testing.T) {
		c, rec := env.context(formRequest(http.MethodGet, "/products", url.Values{}), 0)
		require.NoError(t, env.Catalog.GetProducts(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		html := rec.Body.String()
		assert.Contains(t, html, "product 12")
		assert.NotContains(t, html, "product 01")
		assert.Contains(t, html, "Page 1 of 2")
		assert.Contains(t, html, `href="/products?page=2"`)
	})
}

func TestSearchProducts_Disabled(t *testing.T) {
	env := newTestEnv(t)
	c, rec := env.context(jsonRequest(http.MethodGet, "/products/search?q=mug", ""), 0)
	require.NoError(t, env.Catalog.SearchProducts(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
