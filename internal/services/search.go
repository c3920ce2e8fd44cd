package services

import (
	"strconv"
	"strings"

	"github.com/diewo77/go-commandes/internal/models"
)

// contains reports a case-insensitive substring match against any field.
func contains(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

// FilterOrders matches on id, client name, status and date (dd/mm/yyyy).
func FilterOrders(orders []models.Order, term string) []models.Order {
	return filter(orders, func(o models.Order) bool {
		return contains(term, id(o.ID), o.ClientName(), string(o.Statut), o.Date.Display())
	})
}

// FilterDeliveries matches on id, order id, carrier, address, status and date.
func FilterDeliveries(ds []models.Delivery, term string) []models.Delivery {
	return filter(ds, func(d models.Delivery) bool {
		return contains(term, id(d.ID), id(d.OrderID()), d.CarrierName(), d.AdresseLivraison, string(d.Statut), d.DateLivraison.Display())
	})
}

// FilterPayments matches on id, order id, client name, status and mode.
func FilterPayments(ps []models.Payment, term string) []models.Payment {
	return filter(ps, func(p models.Payment) bool {
		return contains(term, id(p.ID), id(p.OrderID()), p.ClientName(), string(p.Statut), string(p.Mode))
	})
}

// FilterClients matches on name, email and address.
func FilterClients(cs []models.Client, term string) []models.Client {
	return filter(cs, func(c models.Client) bool {
		return contains(term, c.Nom, c.Email, c.Adresse)
	})
}
