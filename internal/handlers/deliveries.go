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

type DeliveryHandler struct {
	base
}

func NewDeliveryHandler(d Deps) *DeliveryHandler {
	return &DeliveryHandler{base{d}}
}

func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	var (
		deliveries []models.Delivery
		err        error
	)
	statut, perr := models.ParseDeliveryStatus(r.URL.Query().Get("statut"))
	if perr == nil {
		deliveries, err = h.API.Deliveries.ByStatus(r.Context(), statut)
	} else {
		deliveries, err = h.API.Deliveries.List(r.Context())
	}
	shown := services.FilterDeliveries(deliveries, query)
	data := listing(query, len(shown), len(deliveries))
	data["Deliveries"] = shown
	data["Statut"] = statut
	data["Statuses"] = models.DeliveryStatuses
	if err != nil {
		data["Error"] = backend.Message(err)
	}
	h.render(w, r, "livraisons/list.html", data)
}

// deliveryForm is the editable projection of a livraison.
type deliveryForm struct {
	ID             int64
	CommandeID     int64
	TransporteurID int64
	Date           string
	Adresse        string
	Cout           string
}

func formFromDelivery(d *models.Delivery) deliveryForm {
	f := deliveryForm{
		ID:         d.ID,
		CommandeID: d.OrderID(),
		Date:       d.DateLivraison.InputValue(),
		Adresse:    d.AdresseLivraison,
	}
	if d.Transporteur != nil {
		f.TransporteurID = d.Transporteur.ID
	}
	if d.Cout != nil {
		f.Cout = strconv.FormatFloat(*d.Cout, 'f', 2, 64)
	}
	return f
}

func deliveryFromForm(r *http.Request) (deliveryForm, models.DeliveryRequest, validation.Violations) {
	f := deliveryForm{
		Date:    strings.TrimSpace(r.FormValue("date_livraison")),
		Adresse: strings.TrimSpace(r.FormValue("adresse")),
		Cout:    strings.TrimSpace(r.FormValue("cout")),
	}
	v := validation.Violations{}
	f.CommandeID = validation.ID("commande", r.FormValue("commande"), v)
	f.TransporteurID, _ = strconv.ParseInt(r.FormValue("transporteur"), 10, 64)
	validation.Required("adresse", f.Adresse, v)

	req := models.DeliveryRequest{CommandeID: f.CommandeID, AdresseLivraison: f.Adresse}
	validation.Required("date_livraison", f.Date, v)
	if f.Date != "" {
		d, err := models.ParseDateTime(f.Date)
		if err != nil {
			v["date_livraison"] = "invalid_date"
		}
		req.DateLivraison = d
	}
	if f.TransporteurID > 0 {
		id := f.TransporteurID
		req.TransporteurID = &id
	}
	if f.Cout != "" {
		c := validation.Float("cout", f.Cout, v)
		validation.PositiveFloat("cout", c, v)
		req.Cout = &c
	}
	return f, req, v
}

// renderForm shows the form with the order and carrier choices.
func (h *DeliveryHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, f deliveryForm, extra map[string]any) {
	data := map[string]any{"Form": f}
	orders, err := h.API.Orders.List(r.Context())
	carriers, cerr := h.API.Carriers.List(r.Context())
	if err == nil {
		err = cerr
	}
	data["Orders"] = orders
	data["Carriers"] = carriers
	if err != nil {
		data["Error"] = backend.Message(err)
	}
	for k, v := range extra {
		data[k] = v
	}
	h.renderStatus(w, r, status, "livraisons/form.html", data)
}

// New pre-selects ?commande= and copies the client address when known.
func (h *DeliveryHandler) New(w http.ResponseWriter, r *http.Request) {
	f := deliveryForm{CommandeID: queryID(r, "commande")}
	if f.CommandeID > 0 {
		if o, err := h.API.Orders.Get(r.Context(), f.CommandeID); err == nil && o.Client != nil {
			f.Adresse = o.Client.Adresse
		}
	}
	h.renderForm(w, r, http.StatusOK, f, nil)
}

func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, req, v := deliveryFromForm(r)
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, f, map[string]any{"Errors": v})
		return
	}
	created, err := h.API.Deliveries.Create(r.Context(), req)
	if err != nil {
		h.renderForm(w, r, http.StatusBadGateway, f, map[string]any{"Error": backend.Message(err)})
		return
	}
	h.record(r, "livraison", created.ID, "create", "", "", f.Adresse)
	redirect(w, r, fmt.Sprintf("/livraisons/%d", created.ID), "flash.created")
}

func (h *DeliveryHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	d, err := h.API.Deliveries.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data := map[string]any{
		"Delivery":  d,
		"Next":      d.Statut.NextStatuses(),
		"CanModify": d.Statut.CanModify(),
	}
	if d.Statut.CanModify() {
		carriers, err := h.API.Carriers.List(r.Context())
		data["Carriers"] = carriers
		if err != nil {
			data["Error"] = backend.Message(err)
		}
	}
	h.render(w, r, "livraisons/view.html", data)
}

// loadModifiable fetches the delivery and refuses terminal ones.
func (h *DeliveryHandler) loadModifiable(w http.ResponseWriter, r *http.Request) (*models.Delivery, bool) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return nil, false
	}
	d, err := h.API.Deliveries.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if !d.Statut.CanModify() {
		redirect(w, r, fmt.Sprintf("/livraisons/%d", id), "flash.locked")
		return nil, false
	}
	return d, true
}

func (h *DeliveryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadModifiable(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, formFromDelivery(d), nil)
}

func (h *DeliveryHandler) Update(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadModifiable(w, r)
	if !ok {
		return
	}
	f, req, v := deliveryFromForm(r)
	f.ID = d.ID
	if !v.Empty() {
		h.renderForm(w, r, http.StatusUnprocessableEntity, f, map[string]any{"Errors": v})
		return
	}
	req.Statut = d.Statut
	if _, err := h.API.Deliveries.Update(r.Context(), d.ID, req); err != nil {
		h.renderForm(w, r, http.StatusBadGateway, f, map[string]any{"Error": backend.Message(err)})
		return
	}
	h.record(r, "livraison", d.ID, "update", "", "", f.Adresse)
	redirect(w, r, fmt.Sprintf("/livraisons/%d", d.ID), "flash.updated")
}

// StatusForm renders the dedicated status screen.
func (h *DeliveryHandler) StatusForm(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadModifiable(w, r)
	if !ok {
		return
	}
	h.render(w, r, "livraisons/status.html", map[string]any{"Delivery": d, "Next": d.Statut.NextStatuses()})
}

func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadModifiable(w, r)
	if !ok {
		return
	}
	target := models.DeliveryStatus(r.PostFormValue("statut"))
	if !d.Statut.CanTransitionTo(target) {
		h.renderStatus(w, r, http.StatusUnprocessableEntity, "livraisons/status.html", map[string]any{
			"Delivery": d,
			"Next":     d.Statut.NextStatuses(),
			"Error":    i18n.T(middleware.LangFrom(r), "error.transition"),
		})
		return
	}
	if _, err := h.API.Deliveries.UpdateStatus(r.Context(), d.ID, target); err != nil {
		h.renderStatus(w, r, http.StatusBadGateway, "livraisons/status.html", map[string]any{
			"Delivery": d,
			"Next":     d.Statut.NextStatuses(),
			"Error":    backend.Message(err),
		})
		return
	}
	h.record(r, "livraison", d.ID, "status", "statut", string(d.Statut), string(target))
	redirect(w, r, fmt.Sprintf("/livraisons/%d", d.ID), "flash.status_updated")
}

// AssignCarrier changes the transporteur of a non-terminal delivery.
func (h *DeliveryHandler) AssignCarrier(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadModifiable(w, r)
	if !ok {
		return
	}
	back := fmt.Sprintf("/livraisons/%d", d.ID)
	v := validation.Violations{}
	carrierID := validation.ID("transporteur", r.PostFormValue("transporteur"), v)
	if !v.Empty() {
		redirect(w, r, back, "required")
		return
	}
	updated, err := h.API.Deliveries.AssignCarrier(r.Context(), d.ID, carrierID)
	if err != nil {
		redirectError(w, r, back, err)
		return
	}
	h.record(r, "livraison", d.ID, "assign", "transporteur", d.CarrierName(), updated.CarrierName())
	redirect(w, r, back, "flash.assigned")
}

func (h *DeliveryHandler) ConfirmCancel(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadModifiable(w, r)
	if !ok {
		return
	}
	h.confirmPage(w, r, "cancel", "livraisons", d.ID, "confirm.cancel_delivery", fmt.Sprintf("/livraisons/%d", d.ID))
}

func (h *DeliveryHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	back := fmt.Sprintf("/livraisons/%d", id)
	if !h.confirmed(w, r, "cancel", "livraisons", id, back) {
		return
	}
	d, ok := h.loadModifiable(w, r)
	if !ok {
		return
	}
	if _, err := h.API.Deliveries.Cancel(r.Context(), id); err != nil {
		redirectError(w, r, back, err)
		return
	}
	h.record(r, "livraison", id, "cancel", "statut", string(d.Statut), string(models.DeliveryCancelled))
	redirect(w, r, back, "flash.cancelled")
}

func (h *DeliveryHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	d, ok := h.loadModifiable(w, r)
	if !ok {
		return
	}
	h.confirmPage(w, r, "delete", "livraisons", d.ID, "confirm.delete", fmt.Sprintf("/livraisons/%d", d.ID))
}

func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if !h.confirmed(w, r, "delete", "livraisons", id, fmt.Sprintf("/livraisons/%d", id)) {
		return
	}
	if _, ok := h.loadModifiable(w, r); !ok {
		return
	}
	if err := h.API.Deliveries.Delete(r.Context(), id); err != nil {
		redirectError(w, r, "/livraisons", err)
		return
	}
	h.record(r, "livraison", id, "delete", "", "", "")
	redirect(w, r, "/livraisons", "flash.deleted")
}
