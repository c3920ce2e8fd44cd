package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/go-commandes/internal/services"
	"github.com/diewo77/go-commandes/validation"
)

func useLang(t *testing.T, lang string) {
	prev := langResolver
	SetLangResolver(func(*http.Request) string { return lang })
	t.Cleanup(func() { langResolver = prev })
}

func TestMoney(t *testing.T) {
	if got := Money("fr", 12.5); got != "12,50 €" {
		t.Fatalf("fr money = %q", got)
	}
	if got := Money("en", 12.5); got != "12.50 €" {
		t.Fatalf("en money = %q", got)
	}
	var missing *float64
	if got := Money("fr", missing); got != "-" {
		t.Fatalf("nil money = %q", got)
	}
}

func TestRenderComposerInEnglish(t *testing.T) {
	useLang(t, "en")
	cart := services.Evaluate(nil, []services.CartLine{{ProductID: 1, Nom: "Clavier", Quantite: 2, PrixUnitaire: 10}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/commandes/new", nil)
	err := RenderStatus(rec, req, http.StatusUnprocessableEntity, "commandes/new.html", map[string]any{
		"Cart":      cart,
		"CanSubmit": false,
		"ClientID":  int64(0),
		"Notes":     "",
		"Errors":    validation.Violations{"quantite": "invalid_number"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<th>Product</th>", "<th>Unit price</th>", "<th>Subtotal</th>", "20.00 €", "Invalid number", `lang="en"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Quantité") {
		t.Fatalf("french header in english page")
	}
}

func TestRenderErrorLeavesNothingWritten(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := Render(rec, req, "absent.html", nil); err == nil {
		t.Fatalf("expected an error for an unknown page")
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("partial output written: %q", rec.Body.String())
	}
}

func TestTemplateCacheReset(t *testing.T) {
	t.Setenv("DEV", "")
	ResetForTests()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := Render(httptest.NewRecorder(), req, "confirm.html", map[string]any{"Message": "ok"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	tplCache.RLock()
	_, cached := tplCache.m["confirm.html"]
	tplCache.RUnlock()
	if !cached {
		t.Fatalf("page not cached")
	}
	ResetForTests()
	tplCache.RLock()
	n := len(tplCache.m)
	tplCache.RUnlock()
	if n != 0 {
		t.Fatalf("cache holds %d pages after reset", n)
	}
}
