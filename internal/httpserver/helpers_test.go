package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cart_shop/internal/dbtest"
	"github.com/Skotchmaster/cart_shop/internal/jobs"
	"github.com/Skotchmaster/cart_shop/internal/repo"
	"github.com/Skotchmaster/cart_shop/internal/service"
	"github.com/Skotchmaster/cart_shop/internal/stock"
)

type testEnv struct {
	E       *echo.Echo
	Repo    *repo.GormRepo
	Queue   *jobs.ChanQueue
	Cart    *CartHTTP
	Catalog *CatalogHTTP
	Admin   *AdminHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	e := echo.New()
	Setup(e)

	r := &repo.GormRepo{DB: dbtest.Open(t)}
	q := jobs.NewChanQueue(16)
	catalog := &service.CatalogService{Repo: r, Ledger: stock.NewLedger(r, q)}

	return &testEnv{
		E:       e,
		Repo:    r,
		Queue:   q,
		Cart:    &CartHTTP{Svc: service.NewCartService(r)},
		Catalog: &CatalogHTTP{Svc: catalog},
		Admin:   &AdminHTTP{Catalog: catalog, Queue: q},
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	return req
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set(echo.HeaderAccept, "text/html")
	return req
}

func (env *testEnv) context(req *http.Request, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if userID != 0 {
		c.Set("user_id", userID)
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func flashFrom(t *testing.T, rec *httptest.ResponseRecorder) Flash {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name != flashCookie || ck.Value == "" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
		require.NoError(t, err)
		var f Flash
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	}
	return Flash{}
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	return he.Code
}

func setFlashOn(t *testing.T, req *http.Request, f Flash) {
	t.Helper()
	raw, err := json.Marshal(f)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: base64.RawURLEncoding.EncodeToString(raw)})
}
