package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/diewo77/go-commandes/internal/backend"
	"github.com/diewo77/go-commandes/internal/models"
	"github.com/diewo77/go-commandes/validation"
)

type ProductHandler struct {
	base
}

func NewProductHandler(d Deps) *ProductHandler {
	return &ProductHandler{base{d}}
}

// List searches through the backend (?q= → /produits/search?nom=).
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	var (
		products []models.Product
		err      error
	)
	if query != "" {
		products, err = h.API.Products.Search(r.Context(), query)
	} else {
		products, err = h.API.Products.List(r.Context())
	}
	data := listing(query, len(products), len(products))
	data["Products"] = products
	if err != nil {
		data["Error"] = backend.Message(err)
	}
	h.render(w, r, "produits/list.html", data)
}

func (h *ProductHandler) New(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "produits/form.html", map[string]any{"Product": models.Product{}})
}

func productFromForm(r *http.Request) (models.Product, validation.Violations) {
	v := validation.Violations{}
	p := models.Product{
		Nom:         strings.TrimSpace(r.FormValue("nom")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	validation.Required("nom", p.Nom, v)
	p.Prix = validation.Float("prix", r.FormValue("prix"), v)
	validation.PositiveFloat("prix", p.Prix, v)
	p.Stock = validation.Int("stock", r.FormValue("stock"), v)
	validation.PositiveInt("stock", p.Stock, v)
	return p, v
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, v := productFromForm(r)
	if !v.Empty() {
		h.render(w, r, "produits/form.html", map[string]any{"Product": p, "Errors": v})
		return
	}
	created, err := h.API.Products.Create(r.Context(), p)
	if err != nil {
		h.render(w, r, "produits/form.html", map[string]any{"Product": p, "Error": backend.Message(err)})
		return
	}
	h.record(r, "produit", created.ID, "create", "", "", created.Nom)
	redirect(w, r, "/produits", "flash.created")
}

func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	p, err := h.API.Products.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "produits/form.html", map[string]any{"Product": p})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	p, v := productFromForm(r)
	p.ID = id
	if !v.Empty() {
		h.render(w, r, "produits/form.html", map[string]any{"Product": p, "Errors": v})
		return
	}
	if _, err := h.API.Products.Update(r.Context(), id, p); err != nil {
		h.render(w, r, "produits/form.html", map[string]any{"Product": p, "Error": backend.Message(err)})
		return
	}
	h.record(r, "produit", id, "update", "", "", fmt.Sprintf("%s prix=%.2f stock=%d", p.Nom, p.Prix, p.Stock))
	redirect(w, r, "/produits", "flash.updated")
}

func (h *ProductHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	h.confirmPage(w, r, "delete", "produits", id, "confirm.delete", "/produits")
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if !h.confirmed(w, r, "delete", "produits", id, "/produits") {
		return
	}
	if err := h.API.Products.Delete(r.Context(), id); err != nil {
		redirectError(w, r, "/produits", err)
		return
	}
	h.record(r, "produit", id, "delete", "", "", "")
	redirect(w, r, "/produits", "flash.deleted")
}
