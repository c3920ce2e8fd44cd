package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-commandes/internal/backend"
	"github.com/diewo77/go-commandes/internal/models"
	"github.com/diewo77/go-commandes/internal/services"
	"github.com/diewo77/go-commandes/validation"
)

type ClientHandler struct {
	base
}

func NewClientHandler(d Deps) *ClientHandler {
	return &ClientHandler{base{d}}
}

// List fetches all clients and filters locally on name, email and address.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	clients, err := h.API.Clients.List(r.Context())
	shown := services.FilterClients(clients, query)
	data := listing(query, len(shown), len(clients))
	data["Clients"] = shown
	if err != nil {
		data["Error"] = backend.Message(err)
	}
	h.render(w, r, "clients/list.html", data)
}

func (h *ClientHandler) New(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "clients/form.html", map[string]any{"Client": models.Client{}})
}

func clientFromForm(r *http.Request) (models.Client, validation.Violations) {
	c := models.Client{
		Nom:     strings.TrimSpace(r.FormValue("nom")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Adresse: strings.TrimSpace(r.FormValue("adresse")),
	}
	v := validation.Violations{}
	validation.Required("nom", c.Nom, v)
	validation.Required("email", c.Email, v)
	validation.Email("email", c.Email, v)
	validation.Required("adresse", c.Adresse, v)
	return c, v
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, v := clientFromForm(r)
	if !v.Empty() {
		h.render(w, r, "clients/form.html", map[string]any{"Client": c, "Errors": v})
		return
	}
	created, err := h.API.Clients.Create(r.Context(), c)
	if err != nil {
		h.render(w, r, "clients/form.html", map[string]any{"Client": c, "Error": backend.Message(err)})
		return
	}
	h.record(r, "client", created.ID, "create", "", "", created.Nom)
	redirect(w, r, "/clients", "flash.created")
}

// View shows the client with its order history.
func (h *ClientHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	c, err := h.API.Clients.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data := map[string]any{"Client": c}
	orders, err := h.API.Orders.ByClient(r.Context(), id)
	data["Orders"] = orders
	if err != nil {
		data["Error"] = backend.Message(err)
	}
	h.render(w, r, "clients/view.html", data)
}

func (h *ClientHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	c, err := h.API.Clients.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "clients/form.html", map[string]any{"Client": c})
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	c, v := clientFromForm(r)
	c.ID = id
	if !v.Empty() {
		h.render(w, r, "clients/form.html", map[string]any{"Client": c, "Errors": v})
		return
	}
	if _, err := h.API.Clients.Update(r.Context(), id, c); err != nil {
		h.render(w, r, "clients/form.html", map[string]any{"Client": c, "Error": backend.Message(err)})
		return
	}
	h.record(r, "client", id, "update", "", "", c.Nom)
	redirect(w, r, "/clients/"+r.PathValue("id"), "flash.updated")
}

func (h *ClientHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	h.confirmPage(w, r, "delete", "clients", id, "confirm.delete", "/clients")
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if !h.confirmed(w, r, "delete", "clients", id, "/clients") {
		return
	}
	if err := h.API.Clients.Delete(r.Context(), id); err != nil {
		redirectError(w, r, "/clients", err)
		return
	}
	h.record(r, "client", id, "delete", "", "", "")
	redirect(w, r, "/clients", "flash.deleted")
}
