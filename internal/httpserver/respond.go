package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/cart_shop/internal/domain"
	"github.com/Skotchmaster/cart_shop/internal/search"
	"github.com/Skotchmaster/cart_shop/internal/transport"
)

const (
	msgInvalid       = "The given data was invalid."
	msgStockExceeded = "Requested quantity exceeds available stock."
)

func userID(c echo.Context) (uint, bool) {
	id, ok := c.Get("user_id").(uint)
	return id, ok && id != 0
}

// bindAndValidate fills req from the body and runs the struct validator.
// On failure it writes the response itself and returns handled=true.
func bindAndValidate(c echo.Context, l *slog.Logger, event string, req any) (handled bool, err error) {
	if err := c.Bind(req); err != nil {
		l.Warn(event, "status", http.StatusUnprocessableEntity, "reason", "bind", "error", err)
		return true, invalid(c, map[string]string{"body": "The request body is malformed."})
	}
	if err := c.Validate(req); err != nil {
		fields := FieldErrors(err)
		if fields == nil {
			l.Error(event, "status", http.StatusInternalServerError, "error", err)
			return true, echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		l.Warn(event, "status", http.StatusUnprocessableEntity, "reason", "validation", "fields", fields)
		return true, invalid(c, fields)
	}
	return false, nil
}

func invalid(c echo.Context, fields map[string]string) error {
	if wantsJSON(c) {
		return c.JSON(http.StatusUnprocessableEntity, transport.ErrorResponse{Error: msgInvalid, Fields: fields})
	}
	return redirectBack(c, Flash{Errors: fields})
}

// fail maps a service error to a response. field names the input a not-found
// error is attached to when the browser is redirected back.
func fail(c echo.Context, l *slog.Logger, event, field string, err error) error {
	var (
		stockErr *domain.InsufficientStockError
		verr     *domain.ValidationError
	)
	switch {
	case errors.As(err, &stockErr):
		l.Warn(event, "status", http.StatusUnprocessableEntity, "reason", "insufficient_stock",
			"product_id", stockErr.ProductID, "requested", stockErr.Requested, "available", stockErr.Available)
		if wantsJSON(c) {
			return c.JSON(http.StatusUnprocessableEntity, transport.StockErrorResponse{
				Error:     msgStockExceeded,
				Available: stockErr.Available,
			})
		}
		return redirectBack(c, Flash{Errors: map[string]string{"quantity": msgStockExceeded}})

	case errors.As(err, &verr):
		l.Warn(event, "status", http.StatusUnprocessableEntity, "reason", "validation", "error", err)
		return invalid(c, map[string]string{verr.Field: verr.Error()})

	case errors.Is(err, domain.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "reason", "not_found", "error", err)
		if wantsJSON(c) {
			return c.JSON(http.StatusNotFound, transport.ErrorResponse{Error: "not found"})
		}
		name := strings.ReplaceAll(field, "_", " ")
		return redirectBack(c, Flash{Errors: map[string]string{field: "The selected " + name + " is invalid."}})

	case errors.Is(err, search.ErrSearchDisabled):
		l.Warn(event, "status", http.StatusServiceUnavailable, "reason", "search_disabled")
		return c.JSON(http.StatusServiceUnavailable, transport.ErrorResponse{Error: "search is not available"})

	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
