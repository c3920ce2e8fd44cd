package services

import (
	"errors"
	"testing"

	"github.com/diewo77/go-commandes/internal/models"
)

func TestCartScenarioStockAndRemove(t *testing.T) {
	p := models.Product{ID: 1, Nom: "Clavier", Prix: 10, Stock: 5}
	var c Cart

	if err := c.Add(p, 3); err != nil {
		t.Fatalf("add 3: %v", err)
	}
	if got := c.Total().StringFixed(2); got != "30.00" {
		t.Fatalf("total = %s, want 30.00", got)
	}

	err := c.Add(p, 3)
	var se *StockError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StockError, got %v", err)
	}
	if se.Stock != 5 || se.Staged != 3 || se.Requested != 3 {
		t.Fatalf("unexpected stock error %+v", se)
	}
	if len(c.Lines) != 1 || c.Lines[0].Quantite != 3 {
		t.Fatalf("cart mutated by rejected add: %+v", c.Lines)
	}

	if !c.Remove(1) {
		t.Fatalf("remove reported no line")
	}
	if !c.Empty() {
		t.Fatalf("cart should be empty")
	}
	if got := c.Total().StringFixed(2); got != "0.00" {
		t.Fatalf("total = %s, want 0.00", got)
	}
}

func TestCartAddMergesSameProduct(t *testing.T) {
	p := models.Product{ID: 4, Nom: "Souris", Prix: 12.5, Stock: 10}
	var c Cart
	_ = c.Add(p, 2)
	if err := c.Add(p, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(c.Lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(c.Lines))
	}
	if c.Quantity(4) != 5 {
		t.Fatalf("quantity = %d, want 5", c.Quantity(4))
	}
	if got := c.Total().StringFixed(2); got != "62.50" {
		t.Fatalf("total = %s", got)
	}
}

func TestCartAddInvalidQuantity(t *testing.T) {
	var c Cart
	for _, q := range []int{0, -2} {
		if err := c.Add(models.Product{ID: 1, Stock: 10}, q); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("qty %d: expected ErrInvalidQuantity, got %v", q, err)
		}
	}
	if !c.Empty() {
		t.Fatalf("cart must stay empty")
	}
}

func TestCartRemoveExactlyOne(t *testing.T) {
	var c Cart
	_ = c.Add(models.Product{ID: 1, Nom: "A", Prix: 1, Stock: 9}, 1)
	_ = c.Add(models.Product{ID: 2, Nom: "B", Prix: 2, Stock: 9}, 2)
	_ = c.Add(models.Product{ID: 3, Nom: "C", Prix: 3, Stock: 9}, 3)

	if !c.Remove(2) {
		t.Fatalf("remove 2 failed")
	}
	if len(c.Lines) != 2 || c.Lines[0].ProductID != 1 || c.Lines[1].ProductID != 3 {
		t.Fatalf("unexpected lines %+v", c.Lines)
	}
	if c.Remove(42) {
		t.Fatalf("removing an absent product must report false")
	}
	if got := c.Total().StringFixed(2); got != "10.00" {
		t.Fatalf("total = %s, want 10.00", got)
	}
}

func TestCartTotalUsesDecimal(t *testing.T) {
	var c Cart
	_ = c.Add(models.Product{ID: 1, Prix: 0.1, Stock: 100}, 3)
	_ = c.Add(models.Product{ID: 2, Prix: 0.2, Stock: 100}, 1)
	if got := c.Total().StringFixed(2); got != "0.50" {
		t.Fatalf("total = %s, want 0.50", got)
	}
}

func TestCartPayload(t *testing.T) {
	var c Cart
	if _, err := c.Payload(3, ""); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	_ = c.Add(models.Product{ID: 9, Nom: "Écran", Prix: 150, Stock: 2}, 2)
	if _, err := c.Payload(0, ""); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
	if c.CanSubmit(0) || !c.CanSubmit(3) {
		t.Fatalf("CanSubmit gating wrong")
	}
	req, err := c.Payload(3, "livrer le matin")
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if req.Client.ID != 3 || req.Notes != "livrer le matin" {
		t.Fatalf("unexpected header %+v", req)
	}
	if len(req.Lignes) != 1 || req.Lignes[0].Produit.ID != 9 || req.Lignes[0].Quantite != 2 || req.Lignes[0].PrixUnitaire != 150 {
		t.Fatalf("unexpected lines %+v", req.Lignes)
	}
}

func TestEvaluate(t *testing.T) {
	catalog := []models.Product{
		{ID: 1, Nom: "A", Prix: 10, Stock: 5},
		{ID: 2, Nom: "B", Prix: 4, Stock: 1},
	}
	lines := []CartLine{
		{ProductID: 1, Quantite: 2, PrixUnitaire: 10},
		{ProductID: 2, Nom: "B", Quantite: 3, PrixUnitaire: 4},
		{ProductID: 7, Nom: "retiré", Quantite: 1, PrixUnitaire: 1},
	}
	sum := Evaluate(catalog, lines)
	if got := sum.Total.StringFixed(2); got != "33.00" {
		t.Fatalf("total = %s, want 33.00", got)
	}
	if sum.Violations != 2 || sum.Valid() {
		t.Fatalf("violations = %d", sum.Violations)
	}
	if sum.Lines[0].Nom != "A" || sum.Lines[0].Exceeds || !sum.Lines[0].Known {
		t.Fatalf("line 0 = %+v", sum.Lines[0])
	}
	if !sum.Lines[1].Exceeds || sum.Lines[1].Stock != 1 {
		t.Fatalf("line 1 = %+v", sum.Lines[1])
	}
	if sum.Lines[2].Known || sum.Lines[2].Stock != -1 {
		t.Fatalf("line 2 = %+v", sum.Lines[2])
	}
	if got := sum.Lines[1].Subtotal.StringFixed(2); got != "12.00" {
		t.Fatalf("subtotal = %s", got)
	}
	if Evaluate(catalog, nil).Valid() {
		t.Fatalf("an empty cart is not valid")
	}
}

func TestCartRestoreMergesProduct(t *testing.T) {
	var c Cart
	c.Restore(CartLine{ProductID: 1, Nom: "Clavier", Quantite: 3, PrixUnitaire: 10})
	c.Restore(CartLine{ProductID: 1, Nom: "Clavier", Quantite: 3, PrixUnitaire: 10})
	c.Restore(CartLine{ProductID: 2, Nom: "Souris", Quantite: 1, PrixUnitaire: 2})
	if len(c.Lines) != 2 || c.Quantity(1) != 6 {
		t.Fatalf("lines = %+v", c.Lines)
	}
	sum := Evaluate([]models.Product{{ID: 1, Stock: 5}, {ID: 2, Stock: 9}}, c.Lines)
	if sum.Valid() || sum.Violations != 1 {
		t.Fatalf("merged line over stock not flagged: %+v", sum)
	}
}
