package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-commandes/internal/backend"
	"github.com/diewo77/go-commandes/internal/models"
	"github.com/diewo77/go-commandes/internal/services"
	"github.com/diewo77/go-commandes/validation"
)

type PaymentHandler struct {
	base
}

func NewPaymentHandler(d Deps) *PaymentHandler {
	return &PaymentHandler{base{d}}
}

// List accepts ?statut= or ?mode= (statut wins) and filters with ?q=.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	var (
		payments []models.Payment
		err      error
	)
	statut, serr := models.ParsePaymentStatus(q.Get("statut"))
	mode, merr := models.ParsePaymentMode(q.Get("mode"))
	switch {
	case serr == nil:
		payments, err = h.API.Payments.ByStatus(r.Context(), statut)
	case merr == nil:
		payments, err = h.API.Payments.ByMode(r.Context(), mode)
	default:
		payments, err = h.API.Payments.List(r.Context())
	}
	shown := services.FilterPayments(payments, query)
	data := listing(query, len(shown), len(payments))
	data["Payments"] = shown
	data["Statut"] = statut
	data["Mode"] = mode
	data["Statuses"] = models.PaymentStatuses
	data["Modes"] = models.PaymentModes
	if err != nil {
		data["Error"] = backend.Message(err)
	}
	h.render(w, r, "paiements/list.html", data)
}

type paymentForm struct {
	ID         int64
	CommandeID int64
	Mode       models.PaymentMode
	Montant    string
}

func (h *PaymentHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, f paymentForm, extra map[string]any) {
	data := map[string]any{"Form": f, "Modes": models.PaymentModes}
	if f.ID == 0 {
		orders, err := h.API.Orders.List(r.Context())
		data["Orders"] = orders
		if err != nil {
			data["Error"] = backend.Message(err)
		}
	}
	for k, v := range extra {
		data[k] = v
	}
	h.renderStatus(w, r, status, "paiements/form.html", data)
}

func parseMode(r *http.Request, v validation.Violations) models.PaymentMode {
	raw := strings.TrimSpace(r.FormValue("mode"))
	validation.Required("mode", raw, v)
	m, err := models.ParsePaymentMode(raw)
	if raw != "" && err != nil {
		v["mode"] = "invalid_choice"
	}
	return m
}

func (h *PaymentHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, paymentForm{CommandeID: queryID(r, "commande"), Mode: models.ModeCard}, nil)
}

// Create registers a payment; the backend sets the amount from the order total.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	f := paymentForm{
		CommandeID: validation.ID("commande", r.FormValue("commande"), v),
		Mode:       parseMode(r, v),
	}
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, f, map[string]any{"Errors": v})
		return
	}
	created, err := h.API.Payments.Create(r.Context(), models.PaymentRequest{
		Commande: models.Ref{ID: f.CommandeID},
		Mode:     f.Mode,
	})
	if err != nil {
		h.renderForm(w, r, http.StatusBadGateway, f, map[string]any{"Error": backend.Message(err)})
		return
	}
	h.record(r, "paiement", created.ID, "create", "", "", string(created.Mode))
	redirect(w, r, fmt.Sprintf("/paiements/%d", created.ID), "flash.created")
}

func (h *PaymentHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	p, err := h.API.Payments.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "paiements/view.html", map[string]any{
		"Payment":    p,
		"CanProcess": p.Statut.CanProcess(),
		"Shortcuts":  p.Statut.Shortcuts(),
	})
}

func (h *PaymentHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	p, err := h.API.Payments.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, paymentForm{
		ID:         p.ID,
		CommandeID: p.OrderID(),
		Mode:       p.Mode,
		Montant:    strconv.FormatFloat(p.MontantPaye, 'f', 2, 64),
	}, nil)
}

// Update changes the mode and optionally the paid amount.
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	v := validation.Violations{}
	f := paymentForm{ID: id, Mode: parseMode(r, v), Montant: strings.TrimSpace(r.FormValue("montant"))}
	upd := models.PaymentUpdate{Mode: f.Mode}
	if f.Montant != "" {
		m := validation.Float("montant", f.Montant, v)
		validation.PositiveFloat("montant", m, v)
		upd.MontantPaye = &m
	}
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, f, map[string]any{"Errors": v})
		return
	}
	if _, err := h.API.Payments.Update(r.Context(), id, upd); err != nil {
		h.renderForm(w, r, http.StatusBadGateway, f, map[string]any{"Error": backend.Message(err)})
		return
	}
	h.record(r, "paiement", id, "update", "mode", "", string(f.Mode))
	redirect(w, r, fmt.Sprintf("/paiements/%d", id), "flash.updated")
}

// Process runs POST /paiements/{id}/process, offered only while EN_ATTENTE.
func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	back := fmt.Sprintf("/paiements/%d", id)
	p, err := h.API.Payments.Get(r.Context(), id)
	if err != nil {
		redirectError(w, r, back, err)
		return
	}
	if !p.Statut.CanProcess() {
		redirect(w, r, back, "flash.locked")
		return
	}
	done, err := h.API.Payments.Process(r.Context(), id)
	if err != nil {
		redirectError(w, r, back, err)
		return
	}
	h.record(r, "paiement", id, "process", "statut", string(p.Statut), string(done.Statut))
	redirect(w, r, back, "flash.processed")
}

// UpdateStatus applies a "mark as" shortcut.
func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	back := fmt.Sprintf("/paiements/%d", id)
	p, err := h.API.Payments.Get(r.Context(), id)
	if err != nil {
		redirectError(w, r, back, err)
		return
	}
	target := models.PaymentStatus(r.PostFormValue("statut"))
	if !p.Statut.CanTransitionTo(target) {
		redirect(w, r, back, "error.transition")
		return
	}
	if _, err := h.API.Payments.UpdateStatus(r.Context(), id, target); err != nil {
		redirectError(w, r, back, err)
		return
	}
	h.record(r, "paiement", id, "status", "statut", string(p.Statut), string(target))
	redirect(w, r, back, "flash.status_updated")
}

func (h *PaymentHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	h.confirmPage(w, r, "delete", "paiements", id, "confirm.delete", fmt.Sprintf("/paiements/%d", id))
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if !h.confirmed(w, r, "delete", "paiements", id, fmt.Sprintf("/paiements/%d", id)) {
		return
	}
	if err := h.API.Payments.Delete(r.Context(), id); err != nil {
		redirectError(w, r, "/paiements", err)
		return
	}
	h.record(r, "paiement", id, "delete", "", "", "")
	redirect(w, r, "/paiements", "flash.deleted")
}
