package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cart_shop/internal/service"
	"github.com/Skotchmaster/cart_shop/internal/transport"
	"github.com/Skotchmaster/cart_shop/internal/util"
	"github.com/Skotchmaster/cart_shop/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

type productsView struct {
	*service.ProductPage
	PrevPage int
	NextPage int
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	result, err := h.Svc.Products(ctx, page, util.DefaultPageSize)
	if err != nil {
		return fail(c, l, "get_products_error", "page", err)
	}

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, transport.ProductsResponse{Products: paginated(result)})
	}
	return renderPage(c, http.StatusOK, "products.html", "Products", productsView{
		ProductPage: result,
		PrevPage:    result.Meta.Page - 1,
		NextPage:    result.Meta.Page + 1,
	})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	result, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(c, l, "search_products_error", "q", err)
	}
	return c.JSON(http.StatusOK, transport.ProductsResponse{Products: paginated(result)})
}

func paginated(p *service.ProductPage) transport.Paginated {
	return transport.Paginated{
		Data:        p.Items,
		CurrentPage: p.Meta.Page,
		PerPage:     p.Meta.PerPage,
		Total:       p.Meta.Total,
		LastPage:    p.Meta.LastPage,
	}
}
