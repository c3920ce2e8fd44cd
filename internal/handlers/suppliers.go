package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-commandes/internal/backend"
	"github.com/diewo77/go-commandes/internal/models"
	"github.com/diewo77/go-commandes/validation"
)

type SupplierHandler struct {
	base
}

func NewSupplierHandler(d Deps) *SupplierHandler {
	return &SupplierHandler{base{d}}
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	var (
		suppliers []models.Supplier
		err       error
	)
	if query != "" {
		suppliers, err = h.API.Suppliers.Search(r.Context(), query)
	} else {
		suppliers, err = h.API.Suppliers.List(r.Context())
	}
	data := listing(query, len(suppliers), len(suppliers))
	data["Suppliers"] = suppliers
	if err != nil {
		data["Error"] = backend.Message(err)
	}
	h.render(w, r, "fournisseurs/list.html", data)
}

func (h *SupplierHandler) New(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "fournisseurs/form.html", map[string]any{"Supplier": models.Supplier{}})
}

func supplierFromForm(r *http.Request) (models.Supplier, validation.Violations) {
	s := models.Supplier{
		Nom:       strings.TrimSpace(r.FormValue("nom")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Telephone: strings.TrimSpace(r.FormValue("telephone")),
		Adresse:   strings.TrimSpace(r.FormValue("adresse")),
	}
	v := validation.Violations{}
	validation.Required("nom", s.Nom, v)
	validation.Required("email", s.Email, v)
	validation.Email("email", s.Email, v)
	validation.Required("telephone", s.Telephone, v)
	validation.Phone("telephone", s.Telephone, v)
	s.Note = validation.Rating("note", r.FormValue("note"), v)
	return s, v
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, v := supplierFromForm(r)
	if !v.Empty() {
		h.render(w, r, "fournisseurs/form.html", map[string]any{"Supplier": s, "Errors": v})
		return
	}
	created, err := h.API.Suppliers.Create(r.Context(), s)
	if err != nil {
		h.render(w, r, "fournisseurs/form.html", map[string]any{"Supplier": s, "Error": backend.Message(err)})
		return
	}
	h.record(r, "fournisseur", created.ID, "create", "", "", created.Nom)
	redirect(w, r, "/fournisseurs", "flash.created")
}

// View shows the supplier, its orders (optionally restricted to
// ?debut=&fin=) and the rating form.
func (h *SupplierHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	s, err := h.API.Suppliers.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data := map[string]any{"Supplier": s}
	debut, fin := r.URL.Query().Get("debut"), r.URL.Query().Get("fin")
	data["Debut"], data["Fin"] = debut, fin

	var orders []models.Order
	if d, f, ok := period(debut, fin); ok {
		orders, err = h.API.Suppliers.OrdersBetween(r.Context(), id, d, f)
	} else {
		orders, err = h.API.Suppliers.Orders(r.Context(), id)
	}
	data["Orders"] = orders
	if err != nil {
		data["Error"] = backend.Message(err)
	}
	h.render(w, r, "fournisseurs/view.html", data)
}

// period parses a yyyy-mm-dd range; fin is inclusive.
func period(debut, fin string) (time.Time, time.Time, bool) {
	if debut == "" || fin == "" {
		return time.Time{}, time.Time{}, false
	}
	d, err1 := models.ParseDateTime(debut)
	f, err2 := models.ParseDateTime(fin)
	if err1 != nil || err2 != nil || f.Before(d.Time) {
		return time.Time{}, time.Time{}, false
	}
	return d.Time, f.Add(24*time.Hour - time.Second), true
}

// Rate updates the note: PATCH /fournisseurs/{id}/note.
func (h *SupplierHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	back := fmt.Sprintf("/fournisseurs/%d", id)
	v := validation.Violations{}
	validation.Required("note", r.FormValue("note"), v)
	note := validation.Rating("note", r.FormValue("note"), v)
	if !v.Empty() || note == nil {
		redirect(w, r, back, "out_of_range")
		return
	}
	if _, err := h.API.Suppliers.Rate(r.Context(), id, *note); err != nil {
		redirectError(w, r, back, err)
		return
	}
	h.record(r, "fournisseur", id, "note", "note", "", fmt.Sprint(*note))
	redirect(w, r, back, "flash.rated")
}

func (h *SupplierHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	s, err := h.API.Suppliers.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "fournisseurs/form.html", map[string]any{"Supplier": s})
}

func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	s, v := supplierFromForm(r)
	s.ID = id
	if !v.Empty() {
		h.render(w, r, "fournisseurs/form.html", map[string]any{"Supplier": s, "Errors": v})
		return
	}
	if _, err := h.API.Suppliers.Update(r.Context(), id, s); err != nil {
		h.render(w, r, "fournisseurs/form.html", map[string]any{"Supplier": s, "Error": backend.Message(err)})
		return
	}
	h.record(r, "fournisseur", id, "update", "", "", s.Nom)
	redirect(w, r, fmt.Sprintf("/fournisseurs/%d", id), "flash.updated")
}

func (h *SupplierHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	h.confirmPage(w, r, "delete", "fournisseurs", id, "confirm.delete", "/fournisseurs")
}

func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if !h.confirmed(w, r, "delete", "fournisseurs", id, "/fournisseurs") {
		return
	}
	if err := h.API.Suppliers.Delete(r.Context(), id); err != nil {
		redirectError(w, r, "/fournisseurs", err)
		return
	}
	h.record(r, "fournisseur", id, "delete", "", "", "")
	redirect(w, r, "/fournisseurs", "flash.deleted")
}
