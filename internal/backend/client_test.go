package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-commandes/internal/models"
)

// stub answers every request with the given status and body and records the last request.
func stub(t *testing.T, status int, body string) (*Client, *http.Request) {
	t.Helper()
	var last http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last = *r.Clone(context.Background())
		if status == http.StatusNoContent {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api"), &last
}

func TestErrorMessagePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", 400, `{"message":"Stock insuffisant","error":"Bad Request"}`, "Stock insuffisant"},
		{"errors list of strings", 422, `{"errors":["nom requis","prix invalide"]}`, "nom requis; prix invalide"},
		{"errors list of objects", 400, `{"error":"Bad Request","errors":[{"field":"email","defaultMessage":"format invalide"}]}`, "email: format invalide"},
		{"error only", 500, `{"error":"Internal Server Error"}`, "Internal Server Error"},
		{"non JSON body", 502, `<html>bad gateway</html>`, "Bad Gateway"},
		{"empty body", 404, ``, "Not Found"},
		{"blank message falls through", 409, `{"message":"  ","error":"Conflict"}`, "Conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := stub(t, tt.status, tt.body)
			_, err := c.Clients.Get(context.Background(), 1)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T %v", err, err)
			}
			if apiErr.Status != tt.status {
				t.Fatalf("status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.want {
				t.Fatalf("message = %q, want %q", apiErr.Message, tt.want)
			}
			if Message(err) != tt.want {
				t.Fatalf("Message(err) = %q", Message(err))
			}
		})
	}
}

func TestNoContentIsSuccess(t *testing.T) {
	c, last := stub(t, http.StatusNoContent, "")
	if err := c.Products.Delete(context.Background(), 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if last.Method != http.MethodDelete || last.URL.Path != "/api/produits/7" {
		t.Fatalf("unexpected request %s %s", last.Method, last.URL.Path)
	}
}

func TestEmptyBodyOnSuccess(t *testing.T) {
	c, _ := stub(t, http.StatusOK, "")
	o, err := c.Orders.UpdateStatus(context.Background(), 3, models.OrderShipped)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if o == nil || o.ID != 0 {
		t.Fatalf("expected empty order, got %+v", o)
	}
}

func TestInvalidJSONOnSuccess(t *testing.T) {
	c, _ := stub(t, http.StatusOK, "{not json")
	_, err := c.Clients.List(context.Background())
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := New(url + "/api")
	_, err := c.Orders.List(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if Message(err) != ErrUnavailable.Error() {
		t.Fatalf("Message(err) = %q", Message(err))
	}
}

func TestStatusPatchQuery(t *testing.T) {
	c, last := stub(t, http.StatusOK, `{"id":9,"statut":"EXPEDIEE"}`)
	o, err := c.Orders.UpdateStatus(context.Background(), 9, models.OrderShipped)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if last.Method != http.MethodPatch || last.URL.Path != "/api/commandes/9/statut" || last.URL.Query().Get("statut") != "EXPEDIEE" {
		t.Fatalf("unexpected request %s %s?%s", last.Method, last.URL.Path, last.URL.RawQuery)
	}
	if o.Statut != models.OrderShipped {
		t.Fatalf("statut = %s", o.Statut)
	}
}

func TestCreateSendsJSON(t *testing.T) {
	var gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":12,"statut":"EN_ATTENTE","montantTotal":20}`)
	}))
	defer srv.Close()
	c := New(srv.URL + "/api/")
	o, err := c.Orders.Create(context.Background(), models.OrderRequest{
		Client: models.Ref{ID: 1},
		Lignes: []models.OrderLineRequest{{Produit: models.Ref{ID: 2}, Quantite: 2, PrixUnitaire: 10}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID != 12 || o.MontantTotal != 20 {
		t.Fatalf("unexpected order %+v", o)
	}
	if gotType != "application/json" {
		t.Fatalf("content type = %q", gotType)
	}
	if !strings.Contains(gotBody, `"lignesCommande":[{"produit":{"id":2},"quantite":2,"prixUnitaire":10}]`) {
		t.Fatalf("body = %s", gotBody)
	}
	if strings.Contains(gotBody, "montantTotal") || strings.Contains(gotBody, `"date"`) {
		t.Fatalf("payload must not carry date or total: %s", gotBody)
	}
}

func TestCreateOrderRejectsIncompletePayload(t *testing.T) {
	c, last := stub(t, http.StatusCreated, `{}`)
	if _, err := c.Orders.Create(context.Background(), models.OrderRequest{Client: models.Ref{ID: 1}}); err == nil {
		t.Fatalf("expected error without lines")
	}
	if last.Method != "" {
		t.Fatalf("no request expected, got %s %s", last.Method, last.URL.Path)
	}
}

func TestSupplierRateBounds(t *testing.T) {
	c, last := stub(t, http.StatusOK, `{"id":3,"nom":"ACME","note":4.5}`)
	if _, err := c.Suppliers.Rate(context.Background(), 3, 6); err == nil {
		t.Fatalf("expected error for note 6")
	}
	s, err := c.Suppliers.Rate(context.Background(), 3, 4.5)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if last.URL.Path != "/api/fournisseurs/3/note" || last.URL.Query().Get("note") != "4.5" {
		t.Fatalf("unexpected request %s?%s", last.URL.Path, last.URL.RawQuery)
	}
	if s.Note == nil || *s.Note != 4.5 {
		t.Fatalf("note not decoded: %+v", s)
	}
}

func TestSearchUsesNomParam(t *testing.T) {
	c, last := stub(t, http.StatusOK, `[{"id":1,"nom":"Vis"}]`)
	out, err := c.Products.Search(context.Background(), "vis à bois")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 result, got %d", len(out))
	}
	if last.URL.Path != "/api/produits/search" || last.URL.Query().Get("nom") != "vis à bois" {
		t.Fatalf("unexpected request %s?%s", last.URL.Path, last.URL.RawQuery)
	}
}

func TestIsNotFound(t *testing.T) {
	c, _ := stub(t, http.StatusNotFound, `{"message":"Commande introuvable"}`)
	_, err := c.Orders.Get(context.Background(), 99)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestByDateRangeQueries(t *testing.T) {
	c, last := stub(t, http.StatusOK, `[]`)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.Local)
	const query = "end=2024-03-31T23%3A59%3A59&start=2024-03-01T00%3A00%3A00"
	ctx := context.Background()

	calls := []struct {
		path string
		call func() error
	}{
		{"/api/commandes/by-date-range", func() error { _, err := c.Orders.ByDateRange(ctx, start, end); return err }},
		{"/api/livraisons/by-date-range", func() error { _, err := c.Deliveries.ByDateRange(ctx, start, end); return err }},
		{"/api/paiements/by-date-range", func() error { _, err := c.Payments.ByDateRange(ctx, start, end); return err }},
	}
	for _, tc := range calls {
		if err := tc.call(); err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		if last.URL.Path != tc.path || last.URL.RawQuery != query {
			t.Fatalf("request = %s?%s, want %s?%s", last.URL.Path, last.URL.RawQuery, tc.path, query)
		}
	}
}
