package services

import (
	"testing"
	"time"

	"github.com/diewo77/go-commandes/internal/models"
)

func TestFilterOrders(t *testing.T) {
	orders := []models.Order{
		{ID: 11, Client: &models.Client{Nom: "Dupont"}, Statut: models.OrderValidated, Date: models.NewDateTime(time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local))},
		{ID: 12, Client: &models.Client{Nom: "Martin"}, Statut: models.OrderShipped},
		{ID: 21, Statut: models.OrderPending},
	}
	tests := []struct {
		term string
		want []int64
	}{
		{"", []int64{11, 12, 21}},
		{"dup", []int64{11}},
		{"MARTIN", []int64{12}},
		{"expediee", []int64{12}},
		{"15/03/2024", []int64{11}},
		{"1", []int64{11, 12, 21}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := FilterOrders(orders, tt.term)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d orders, want %d", len(got), len(tt.want))
			}
			for i, o := range got {
				if o.ID != tt.want[i] {
					t.Fatalf("got id %d at %d, want %d", o.ID, i, tt.want[i])
				}
			}
		})
	}
}

func TestFilterPaymentsAndDeliveries(t *testing.T) {
	ps := []models.Payment{
		{ID: 1, Mode: models.ModePaypal, Statut: models.PaymentDone, Commande: &models.Order{ID: 30, Client: &models.Client{Nom: "Leroy"}}},
		{ID: 2, Mode: models.ModeCheque, Statut: models.PaymentPending},
	}
	if got := FilterPayments(ps, "paypal"); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("mode filter: %+v", got)
	}
	if got := FilterPayments(ps, "leroy"); len(got) != 1 {
		t.Fatalf("client filter: %+v", got)
	}
	ds := []models.Delivery{
		{ID: 5, Transporteur: &models.Carrier{Nom: "Chronopost"}, Statut: models.DeliveryDelayed},
		{ID: 6, AdresseLivraison: "3 rue du Port, Lyon"},
	}
	if got := FilterDeliveries(ds, "chrono"); len(got) != 1 || got[0].ID != 5 {
		t.Fatalf("carrier filter: %+v", got)
	}
	if got := FilterDeliveries(ds, "lyon"); len(got) != 1 || got[0].ID != 6 {
		t.Fatalf("address filter: %+v", got)
	}
}

func TestFilterClients(t *testing.T) {
	cs := []models.Client{
		{ID: 1, Nom: "Alice", Email: "alice@example.com", Adresse: "Paris"},
		{ID: 2, Nom: "Bob", Email: "bob@example.org", Adresse: "Nantes"},
	}
	if got := FilterClients(cs, "example.org"); len(got) != 1 || got[0].Nom != "Bob" {
		t.Fatalf("email filter: %+v", got)
	}
	if got := FilterClients(cs, "  "); len(got) != 2 {
		t.Fatalf("blank term should match everything")
	}
}
