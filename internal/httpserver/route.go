package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/cart_shop/pkg/authclient"
	authmw "github.com/Skotchmaster/cart_shop/pkg/middleware/auth"
)

const csrfContextKey = "csrf"

type Deps struct {
	CartHandler    *CartHTTP
	CatalogHandler *CatalogHTTP
	AdminHandler   *AdminHTTP
	JWTSecret      []byte
	AuthClient     *authclient.Client
	// Ready reports whether backing services are reachable. Nil means always ready.
	Ready func() error
}

// Setup installs the validator, renderer and the form method override that
// every route relies on.
func Setup(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Renderer = NewTemplates()
	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	}))
}

// CSRF protects the browser facing routes. Tokens come from a form field or
// the X-CSRF-Token header.
func CSRF() echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:" + echo.HeaderXCSRFToken + ",form:csrf_token",
		ContextKey:     csrfContextKey,
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := authmw.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)
	csrf := CSRF()

	products := e.Group("/products", csrf)
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)

	cart := e.Group("/cart", authMW.RequireAuth, csrf)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/add", d.CartHandler.AddToCart)
	cart.PATCH("/update", d.CartHandler.UpdateCart)
	cart.DELETE("/remove", d.CartHandler.RemoveFromCart)

	admin := e.Group("/admin", authMW.RequireAdmin)
	admin.POST("/products", d.AdminHandler.CreateProduct)
	admin.POST("/products/:id/decrement", d.AdminHandler.DecrementStock)
	admin.POST("/reports/daily", d.AdminHandler.EnqueueDailyReport)
}
