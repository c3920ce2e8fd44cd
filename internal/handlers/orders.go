package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-commandes/i18n"
	"github.com/diewo77/go-commandes/internal/backend"
	"github.com/diewo77/go-commandes/internal/middleware"
	"github.com/diewo77/go-commandes/internal/models"
	"github.com/diewo77/go-commandes/internal/services"
	"github.com/diewo77/go-commandes/validation"
)

type OrderHandler struct {
	base
}

func NewOrderHandler(d Deps) *OrderHandler {
	return &OrderHandler{base{d}}
}

// List shows all orders, or only those of ?statut=, filtered by ?q=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	var (
		orders []models.Order
		err    error
	)
	statut, perr := models.ParseOrderStatus(r.URL.Query().Get("statut"))
	if perr == nil {
		orders, err = h.API.Orders.ByStatus(r.Context(), statut)
	} else {
		orders, err = h.API.Orders.List(r.Context())
	}
	shown := services.FilterOrders(orders, query)
	data := listing(query, len(shown), len(orders))
	data["Orders"] = shown
	data["Statut"] = statut
	data["Statuses"] = models.OrderStatuses
	if err != nil {
		data["Error"] = backend.Message(err)
	}
	h.render(w, r, "commandes/list.html", data)
}

// cartFromForm rebuilds the staged lines from the hidden ligne_* fields.
func cartFromForm(r *http.Request) services.Cart {
	var c services.Cart
	ids := r.PostForm["ligne_produit"]
	qtys := r.PostForm["ligne_quantite"]
	prices := r.PostForm["ligne_prix"]
	names := r.PostForm["ligne_nom"]
	for i, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 || i >= len(qtys) || i >= len(prices) {
			continue
		}
		qty, err := strconv.Atoi(qtys[i])
		if err != nil || qty < 1 {
			continue
		}
		price, err := validation.ParseFloat(prices[i])
		if err != nil {
			continue
		}
		line := services.CartLine{ProductID: id, Quantite: qty, PrixUnitaire: price}
		if i < len(names) {
			line.Nom = names[i]
		}
		c.Restore(line)
	}
	return c
}

// composer holds everything the composition screen needs.
type composer struct {
	clients  []models.Client
	products []models.Product
	err      error
}

// catalogue re-fetches clients and products; the product list is the stock
// every add is checked against.
func (h *OrderHandler) catalogue(r *http.Request) composer {
	var c composer
	var err error
	if c.clients, err = h.API.Clients.List(r.Context()); err != nil {
		c.err = err
	}
	if c.products, err = h.API.Products.List(r.Context()); err != nil {
		c.err = err
	}
	return c
}

func (h *OrderHandler) renderComposer(w http.ResponseWriter, r *http.Request, status int, c composer, cart services.Cart, extra map[string]any) {
	data := map[string]any{
		"Clients":  c.clients,
		"Products": c.products,
		"Cart":     services.Evaluate(c.products, cart.Lines),
		"ClientID": queryID(r, "client"),
		"Notes":    "",
	}
	if c.err != nil {
		data["Error"] = backend.Message(c.err)
	}
	for k, v := range extra {
		data[k] = v
	}
	clientID, _ := data["ClientID"].(int64)
	data["CanSubmit"] = cart.CanSubmit(clientID)
	h.renderStatus(w, r, status, "commandes/new.html", data)
}

func (h *OrderHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderComposer(w, r, http.StatusOK, h.catalogue(r), services.Cart{}, nil)
}

// Compose handles the composition form. action is "add", "submit" or
// "remove:<productID>".
func (h *OrderHandler) Compose(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cart := cartFromForm(r)
	clientID, _ := strconv.ParseInt(r.PostFormValue("client"), 10, 64)
	notes := strings.TrimSpace(r.PostFormValue("notes"))
	extra := map[string]any{"ClientID": clientID, "Notes": notes}
	action := r.PostFormValue("action")
	lang := middleware.LangFrom(r)

	if idRaw, ok := strings.CutPrefix(action, "remove:"); ok {
		id, _ := strconv.ParseInt(idRaw, 10, 64)
		cart.Remove(id)
		h.renderComposer(w, r, http.StatusOK, h.catalogue(r), cart, extra)
		return
	}

	switch action {
	case "add":
		cat := h.catalogue(r)
		v := validation.Violations{}
		productID := validation.ID("produit", r.PostFormValue("produit"), v)
		qty := validation.Int("quantite", r.PostFormValue("quantite"), v)
		if !v.Empty() {
			extra["Errors"] = v
			h.renderComposer(w, r, http.StatusUnprocessableEntity, cat, cart, extra)
			return
		}
		product, found := findProduct(cat.products, productID)
		if !found {
			extra["CartError"] = i18n.T(lang, "error.unknown_product")
			h.renderComposer(w, r, http.StatusUnprocessableEntity, cat, cart, extra)
			return
		}
		if err := cart.Add(product, qty); err != nil {
			extra["CartError"] = err.Error()
			h.renderComposer(w, r, http.StatusUnprocessableEntity, cat, cart, extra)
			return
		}
		h.renderComposer(w, r, http.StatusOK, cat, cart, extra)
	case "submit":
		cat := h.catalogue(r)
		payload, err := cart.Payload(clientID, notes)
		if err != nil {
			extra["CartError"] = err.Error()
			h.renderComposer(w, r, http.StatusUnprocessableEntity, cat, cart, extra)
			return
		}
		if cat.err == nil && !services.Evaluate(cat.products, cart.Lines).Valid() {
			extra["CartError"] = i18n.T(lang, "error.stock")
			h.renderComposer(w, r, http.StatusUnprocessableEntity, cat, cart, extra)
			return
		}
		created, err := h.API.Orders.Create(r.Context(), payload)
		if err != nil {
			extra["CartError"] = backend.Message(err)
			h.renderComposer(w, r, http.StatusBadGateway, h.catalogue(r), cart, extra)
			return
		}
		h.record(r, "commande", created.ID, "create", "", "", cart.Total().StringFixed(2))
		redirect(w, r, fmt.Sprintf("/commandes/%d", created.ID), "flash.created")
	default:
		h.renderComposer(w, r, http.StatusOK, h.catalogue(r), cart, extra)
	}
}

func findProduct(products []models.Product, id int64) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// detail gathers the order page: the order itself, its deliveries and
// payments, and the actions its status allows.
func (h *OrderHandler) detail(r *http.Request, o *models.Order) map[string]any {
	data := map[string]any{
		"Order":     o,
		"Next":      o.Statut.NextStatuses(),
		"CanCancel": o.Statut.CanCancel(),
	}
	var errs []string
	deliveries, err := h.API.Deliveries.ByOrder(r.Context(), o.ID)
	if err != nil {
		errs = append(errs, backend.Message(err))
	}
	payments, err := h.API.Payments.ByOrder(r.Context(), o.ID)
	if err != nil {
		errs = append(errs, backend.Message(err))
	}
	data["Deliveries"] = deliveries
	data["Payments"] = payments
	if len(errs) > 0 {
		data["Error"] = strings.Join(errs, "; ")
	}
	return data
}

func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	o, err := h.API.Orders.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "commandes/view.html", h.detail(r, o))
}

// UpdateStatus applies the generic editor. The target must be one the
// current status offers; cancellation goes through Cancel.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	o, err := h.API.Orders.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	target := models.OrderStatus(r.PostFormValue("statut"))
	if !o.Statut.CanTransitionTo(target) {
		data := h.detail(r, o)
		data["Error"] = i18n.T(middleware.LangFrom(r), "error.transition")
		h.renderStatus(w, r, http.StatusUnprocessableEntity, "commandes/view.html", data)
		return
	}
	if _, err := h.API.Orders.UpdateStatus(r.Context(), id, target); err != nil {
		data := h.detail(r, o)
		data["Error"] = backend.Message(err)
		h.renderStatus(w, r, http.StatusBadGateway, "commandes/view.html", data)
		return
	}
	h.record(r, "commande", id, "status", "statut", string(o.Statut), string(target))
	redirect(w, r, fmt.Sprintf("/commandes/%d", id), "flash.status_updated")
}

// UpdateNotes saves the free-text notes through PUT /commandes/{id}.
func (h *OrderHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	back := fmt.Sprintf("/commandes/%d", id)
	notes := strings.TrimSpace(r.PostFormValue("notes"))
	if _, err := h.API.Orders.Update(r.Context(), id, models.OrderUpdate{Notes: &notes}); err != nil {
		redirectError(w, r, back, err)
		return
	}
	h.record(r, "commande", id, "update", "notes", "", notes)
	redirect(w, r, back, "flash.updated")
}

func (h *OrderHandler) ConfirmCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	h.confirmPage(w, r, "cancel", "commandes", id, "confirm.cancel_order", fmt.Sprintf("/commandes/%d", id))
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	back := fmt.Sprintf("/commandes/%d", id)
	if !h.confirmed(w, r, "cancel", "commandes", id, back) {
		return
	}
	o, err := h.API.Orders.Get(r.Context(), id)
	if err != nil {
		redirectError(w, r, back, err)
		return
	}
	if !o.Statut.CanCancel() {
		redirect(w, r, back, "error.transition")
		return
	}
	if _, err := h.API.Orders.Cancel(r.Context(), id); err != nil {
		redirectError(w, r, back, err)
		return
	}
	h.record(r, "commande", id, "cancel", "statut", string(o.Statut), string(models.OrderCancelled))
	redirect(w, r, back, "flash.cancelled")
}

func (h *OrderHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	h.confirmPage(w, r, "delete", "commandes", id, "confirm.delete", fmt.Sprintf("/commandes/%d", id))
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if !h.confirmed(w, r, "delete", "commandes", id, fmt.Sprintf("/commandes/%d", id)) {
		return
	}
	if err := h.API.Orders.Delete(r.Context(), id); err != nil {
		if backend.IsNotFound(err) {
			redirect(w, r, "/commandes", "error.not_found")
			return
		}
		redirectError(w, r, "/commandes", err)
		return
	}
	h.record(r, "commande", id, "delete", "", "", "")
	redirect(w, r, "/commandes", "flash.deleted")
}
