package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	flashCookie   = "flash"
	flashLifetime = time.Minute
	defaultBack   = "/cart"
)

// wantsJSON mirrors the usual browser/XHR split: anything that asks for a
// JSON media type gets JSON, everything else gets HTML and redirects.
func wantsJSON(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, "/json") || strings.Contains(accept, "+json")
}

type Flash struct {
	Success string            `json:"success,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (f Flash) Empty() bool {
	return f.Success == "" && len(f.Errors) == 0
}

func setFlash(c echo.Context, f Flash) {
	if f.Empty() {
		return
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		Expires:  time.Now().Add(flashLifetime),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads the pending flash, if any, and clears the cookie.
func takeFlash(c echo.Context) Flash {
	var f Flash
	ck, err := c.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return f
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return Flash{}
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return Flash{}
	}
	return f
}

// redirectBack sends the browser to the page it came from. Referers pointing
// at another host are ignored.
func redirectBack(c echo.Context, f Flash) error {
	setFlash(c, f)
	return c.Redirect(http.StatusSeeOther, backURL(c))
}

func backURL(c echo.Context) string {
	ref := c.Request().Referer()
	if ref == "" {
		return defaultBack
	}
	u, err := url.Parse(ref)
	if err != nil {
		return defaultBack
	}
	if u.Host != "" && u.Host != c.Request().Host {
		return defaultBack
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return defaultBack
	}
	back := u.Path
	if u.RawQuery != "" {
		back += "?" + u.RawQuery
	}
	return back
}
