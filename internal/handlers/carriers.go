package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/diewo77/go-commandes/internal/backend"
	"github.com/diewo77/go-commandes/internal/models"
	"github.com/diewo77/go-commandes/validation"
)

type CarrierHandler struct {
	base
}

func NewCarrierHandler(d Deps) *CarrierHandler {
	return &CarrierHandler{base{d}}
}

func (h *CarrierHandler) List(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	var (
		carriers []models.Carrier
		err      error
	)
	if query != "" {
		carriers, err = h.API.Carriers.Search(r.Context(), query)
	} else {
		carriers, err = h.API.Carriers.List(r.Context())
	}
	data := listing(query, len(carriers), len(carriers))
	data["Carriers"] = carriers
	if err != nil {
		data["Error"] = backend.Message(err)
	}
	h.render(w, r, "transporteurs/list.html", data)
}

func (h *CarrierHandler) New(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "transporteurs/form.html", map[string]any{"Carrier": models.Carrier{}})
}

// carrierFromForm sends an empty telephone as null.
func carrierFromForm(r *http.Request) (models.Carrier, validation.Violations) {
	c := models.Carrier{Nom: strings.TrimSpace(r.FormValue("nom"))}
	v := validation.Violations{}
	validation.Required("nom", c.Nom, v)
	if tel := strings.TrimSpace(r.FormValue("telephone")); tel != "" {
		validation.Phone("telephone", tel, v)
		c.Telephone = &tel
	}
	c.Note = validation.Rating("note", r.FormValue("note"), v)
	return c, v
}

func (h *CarrierHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, v := carrierFromForm(r)
	if !v.Empty() {
		h.render(w, r, "transporteurs/form.html", map[string]any{"Carrier": c, "Errors": v})
		return
	}
	created, err := h.API.Carriers.Create(r.Context(), c)
	if err != nil {
		h.render(w, r, "transporteurs/form.html", map[string]any{"Carrier": c, "Error": backend.Message(err)})
		return
	}
	h.record(r, "transporteur", created.ID, "create", "", "", created.Nom)
	redirect(w, r, "/transporteurs", "flash.created")
}

// View shows the carrier and the deliveries assigned to it.
func (h *CarrierHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	c, err := h.API.Carriers.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data := map[string]any{"Carrier": c}
	deliveries, err := h.API.Deliveries.ByCarrier(r.Context(), id)
	data["Deliveries"] = deliveries
	if err != nil {
		data["Error"] = backend.Message(err)
	}
	h.render(w, r, "transporteurs/view.html", data)
}

func (h *CarrierHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	c, err := h.API.Carriers.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "transporteurs/form.html", map[string]any{"Carrier": c})
}

func (h *CarrierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	c, v := carrierFromForm(r)
	c.ID = id
	if !v.Empty() {
		h.render(w, r, "transporteurs/form.html", map[string]any{"Carrier": c, "Errors": v})
		return
	}
	if _, err := h.API.Carriers.Update(r.Context(), id, c); err != nil {
		h.render(w, r, "transporteurs/form.html", map[string]any{"Carrier": c, "Error": backend.Message(err)})
		return
	}
	h.record(r, "transporteur", id, "update", "", "", c.Nom)
	redirect(w, r, fmt.Sprintf("/transporteurs/%d", id), "flash.updated")
}

func (h *CarrierHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	h.confirmPage(w, r, "delete", "transporteurs", id, "confirm.delete", "/transporteurs")
}

func (h *CarrierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if !h.confirmed(w, r, "delete", "transporteurs", id, "/transporteurs") {
		return
	}
	if err := h.API.Carriers.Delete(r.Context(), id); err != nil {
		redirectError(w, r, "/transporteurs", err)
		return
	}
	h.record(r, "transporteur", id, "delete", "", "", "")
	redirect(w, r, "/transporteurs", "flash.deleted")
}
