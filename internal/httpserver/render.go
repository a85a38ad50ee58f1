package httpserver

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates renders the HTML pages served to browsers.
type Templates struct {
	t *template.Template
}

func NewTemplates() *Templates {
	t := template.Must(
		template.New("pages").
			Funcs(template.FuncMap{
				"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
			}).
			ParseFS(templateFS, "templates/*.html"),
	)
	return &Templates{t: t}
}

func (t *Templates) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return t.t.ExecuteTemplate(w, name, data)
}

type page struct {
	Title string
	Flash Flash
	CSRF  string
	Data  any
}

func renderPage(c echo.Context, status int, name, title string, data any) error {
	csrf, _ := c.Get(csrfContextKey).(string)
	return c.Render(status, name, page{
		Title: title,
		Flash: takeFlash(c),
		CSRF:  csrf,
		Data:  data,
	})
}
