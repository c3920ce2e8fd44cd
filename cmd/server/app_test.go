package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-commandes/confirm"
	"github.com/diewo77/go-commandes/internal/backend/backendtest"
	"github.com/diewo77/go-commandes/internal/db"
	"github.com/diewo77/go-commandes/internal/handlers"
	"github.com/diewo77/go-commandes/internal/models"
	"github.com/diewo77/go-commandes/internal/services"
	"github.com/rs/zerolog"
)

func setupApp(t *testing.T) (*App, *backendtest.Server) {
	t.Helper()
	api := backendtest.New(t)
	conn, err := db.Connect(db.Options{DSN: "file:" + t.Name() + "?mode=memory&cache=shared"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	deps := handlers.Deps{
		API:     api.API(),
		Audit:   services.NewAuditService(conn, nil, zerolog.Nop()),
		Confirm: confirm.New("app-test", time.Minute),
		Log:     zerolog.Nop(),
	}
	return NewApp(deps, conn), api
}

func do(app http.Handler, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	app, api := setupApp(t)
	rec := do(app, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "ok" || got["database"] != "ok" || got["backend"] != api.URL() {
		t.Fatalf("health = %v", got)
	}
}

func TestRootRedirectsToDashboard(t *testing.T) {
	app, _ := setupApp(t)
	rec := do(app, http.MethodGet, "/", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id header missing")
	}
	if do(app, http.MethodGet, "/inconnu", nil).Code != http.StatusNotFound {
		t.Fatalf("unknown path should 404")
	}
}

func TestRequestIDIsReused(t *testing.T) {
	app, _ := setupApp(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}

// One full pass through the router: change the status of a validated order,
// follow the redirect and read the flash and the journal.
func TestOrderStatusChangeEndToEnd(t *testing.T) {
	app, api := setupApp(t)
	c := api.AddClient(models.Client{Nom: "Dupont", Email: "d@x.fr", Adresse: "Lyon"})
	o := api.AddOrder(models.Order{Client: &c, Statut: models.OrderValidated, MontantTotal: 30})
	path := fmt.Sprintf("/commandes/%d", o.ID)

	page := do(app, http.MethodGet, path, nil).Body.String()
	if !strings.Contains(page, `<option value="EXPEDIEE">`) || strings.Contains(page, `<option value="EN_ATTENTE">`) {
		t.Fatalf("status choices wrong: %s", page)
	}

	rec := do(app, http.MethodPost, path+"/statut", url.Values{"statut": {"EXPEDIEE"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != path {
		t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	page = do(app, http.MethodGet, path, nil, rec.Result().Cookies()...).Body.String()
	if !strings.Contains(page, "Statut mis à jour") || !strings.Contains(page, "badge-EXPEDIEE") {
		t.Fatalf("flash or badge missing: %s", page)
	}

	journal := do(app, http.MethodGet, fmt.Sprintf("/journal?entite=commande&id=%d", o.ID), nil).Body.String()
	if !strings.Contains(journal, "VALIDEE") || !strings.Contains(journal, "EXPEDIEE") {
		t.Fatalf("journal entry missing: %s", journal)
	}
}

func TestDeleteMethodNotRouted(t *testing.T) {
	app, _ := setupApp(t)
	// DELETE is never routed; destructive actions go through POST .../supprimer.
	if code := do(app, http.MethodDelete, "/clients/1", nil).Code; code != http.StatusMethodNotAllowed {
		t.Fatalf("DELETE status = %d", code)
	}
}
