package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-commandes/confirm"
	"github.com/diewo77/go-commandes/internal/backend/backendtest"
	"github.com/diewo77/go-commandes/internal/db"
	"github.com/diewo77/go-commandes/internal/middleware"
	"github.com/diewo77/go-commandes/internal/services"
	"github.com/diewo77/go-commandes/view"
	"github.com/rs/zerolog"
)

func init() {
	view.SetLangResolver(middleware.LangFrom)
	view.SetFlashResolver(middleware.PopFlash)
}

type testEnv struct {
	t    *testing.T
	api  *backendtest.Server
	deps Deps
	mux  *http.ServeMux
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	api := backendtest.New(t)
	conn, err := db.Connect(db.Options{DSN: "file:" + t.Name() + "?mode=memory&cache=shared"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	return &testEnv{
		t:   t,
		api: api,
		deps: Deps{
			API:     api.API(),
			Audit:   services.NewAuditService(conn, nil, zerolog.Nop()),
			Confirm: confirm.New("test-secret", time.Minute),
			Log:     zerolog.Nop(),
		},
		mux: http.NewServeMux(),
	}
}

func (e *testEnv) route(pattern string, h http.HandlerFunc) {
	e.mux.HandleFunc(pattern, h)
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	middleware.Prefs(e.mux).ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	middleware.Prefs(e.mux).ServeHTTP(rec, req)
	return rec
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

// flash returns the decoded flash cookie set by the response.
func flash(rec *httptest.ResponseRecorder) string {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" {
			v, _ := url.QueryUnescape(c.Value)
			return v
		}
	}
	return ""
}
