package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cart_shop/internal/service"
	"github.com/Skotchmaster/cart_shop/internal/transport"
	"github.com/Skotchmaster/cart_shop/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	uid, ok := userID(c)
	if !ok {
		l.Warn("get_cart_error", "status", http.StatusUnauthorized)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.Svc.Cart(ctx, uid)
	if err != nil {
		return fail(c, l, "get_cart_error", "cart", err)
	}

	resp := transport.CartResponse{Cart: cart, Summary: transport.Summarize(cart)}
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, resp)
	}
	return renderPage(c, http.StatusOK, "cart.html", "Cart", resp)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	uid, ok := userID(c)
	if !ok {
		l.Warn("add_to_cart_error", "status", http.StatusUnauthorized)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddToCartRequest
	if handled, err := bindAndValidate(c, l, "add_to_cart_error", &req); handled {
		return err
	}

	item, err := h.Svc.Add(ctx, uid, req.ProductID)
	if err != nil {
		return fail(c, l, "add_to_cart_error", "product_id", err)
	}

	l.Info("item_added", "item_id", item.ID, "product_id", item.ProductID)
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true, Item: item})
	}
	return redirectBack(c, Flash{})
}

func (h *CartHTTP) UpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart")

	uid, ok := userID(c)
	if !ok {
		l.Warn("update_cart_error", "status", http.StatusUnauthorized)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.UpdateCartRequest
	if handled, err := bindAndValidate(c, l, "update_cart_error", &req); handled {
		return err
	}

	item, err := h.Svc.Update(ctx, uid, req.ItemID, req.Quantity)
	if err != nil {
		return fail(c, l, "update_cart_error", "item_id", err)
	}

	l.Info("cart_updated", "item_id", item.ID, "quantity", item.Quantity)
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
	}
	return redirectBack(c, Flash{Success: "Cart updated successfully!"})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.cart")

	uid, ok := userID(c)
	if !ok {
		l.Warn("remove_from_cart_error", "status", http.StatusUnauthorized)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.RemoveFromCartRequest
	if handled, err := bindAndValidate(c, l, "remove_from_cart_error", &req); handled {
		return err
	}

	if err := h.Svc.Remove(ctx, uid, req.ItemID); err != nil {
		return fail(c, l, "remove_from_cart_error", "item_id", err)
	}

	l.Info("item_removed", "item_id", req.ItemID)
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
	}
	return redirectBack(c, Flash{})
}
