package services

import (
	"errors"
	"fmt"

	"github.com/diewo77/go-commandes/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantité invalide")
	ErrNoClient        = errors.New("sélectionnez un client")
	ErrEmptyCart       = errors.New("ajoutez au moins un produit")
)

// StockError is returned when staging a quantity beyond the known stock.
type StockError struct {
	Product   string
	Stock     int
	Staged    int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("stock insuffisant pour %s: %d disponible(s), %d déjà dans la commande, %d demandé(s)",
		e.Product, e.Stock, e.Staged, e.Requested)
}

// CartLine is one staged order line.
type CartLine struct {
	ProductID    int64
	Nom          string
	Quantite     int
	PrixUnitaire float64
}

func (l CartLine) Total() decimal.Decimal {
	return decimal.NewFromFloat(l.PrixUnitaire).Mul(decimal.NewFromInt(int64(l.Quantite)))
}

// Cart stages lines before an order is created. At most one line per product.
type Cart struct {
	Lines []CartLine
}

func (c *Cart) index(productID int64) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Quantity returns the staged quantity of a product.
func (c *Cart) Quantity(productID int64) int {
	if i := c.index(productID); i >= 0 {
		return c.Lines[i].Quantite
	}
	return 0
}

// Add stages qty units of p at its current price. Staging an already present
// product increases its quantity. The cart is left untouched on error.
func (c *Cart) Add(p models.Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	staged := c.Quantity(p.ID)
	if staged+qty > p.Stock {
		return &StockError{Product: p.Nom, Stock: p.Stock, Staged: staged, Requested: qty}
	}
	if i := c.index(p.ID); i >= 0 {
		c.Lines[i].Quantite += qty
		return nil
	}
	c.Lines = append(c.Lines, CartLine{ProductID: p.ID, Nom: p.Nom, Quantite: qty, PrixUnitaire: p.Prix})
	return nil
}

// Restore puts back a line carried over from a previous screen. A product
// already staged has its quantity summed. Stock is not checked here;
// Evaluate flags the merged line.
func (c *Cart) Restore(l CartLine) {
	if i := c.index(l.ProductID); i >= 0 {
		c.Lines[i].Quantite += l.Quantite
		return
	}
	c.Lines = append(c.Lines, l)
}

// Remove drops the line of productID and reports whether one existed.
func (c *Cart) Remove(productID int64) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// Total is Σ quantite × prixUnitaire, recomputed on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// CanSubmit reports whether a client is chosen and at least one line is staged.
func (c *Cart) CanSubmit(clientID int64) bool { return clientID > 0 && !c.Empty() }

// Payload builds the creation request. Date and total are left to the backend.
func (c *Cart) Payload(clientID int64, notes string) (models.OrderRequest, error) {
	if clientID <= 0 {
		return models.OrderRequest{}, ErrNoClient
	}
	if c.Empty() {
		return models.OrderRequest{}, ErrEmptyCart
	}
	req := models.OrderRequest{Client: models.Ref{ID: clientID}, Notes: notes}
	for _, l := range c.Lines {
		req.Lignes = append(req.Lignes, models.OrderLineRequest{
			Produit:      models.Ref{ID: l.ProductID},
			Quantite:     l.Quantite,
			PrixUnitaire: l.PrixUnitaire,
		})
	}
	return req, nil
}

// LineReport is one evaluated cart line.
type LineReport struct {
	CartLine
	Subtotal decimal.Decimal
	// Stock is the catalogue stock, -1 when the product is unknown.
	Stock   int
	Known   bool
	Exceeds bool
}

type Summary struct {
	Lines      []LineReport
	Total      decimal.Decimal
	Violations int
}

// Valid reports a non-empty cart with every line known and within stock.
func (s Summary) Valid() bool { return len(s.Lines) > 0 && s.Violations == 0 }

// Evaluate checks lines against the last fetched catalogue and computes
// per-line subtotals and the total. Every cart screen renders from it.
func Evaluate(catalog []models.Product, lines []CartLine) Summary {
	byID := make(map[int64]models.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	sum := Summary{Total: decimal.Zero}
	for _, l := range lines {
		r := LineReport{CartLine: l, Subtotal: l.Total(), Stock: -1}
		if p, ok := byID[l.ProductID]; ok {
			r.Known = true
			r.Stock = p.Stock
			r.Exceeds = l.Quantite > p.Stock
			if r.Nom == "" {
				r.Nom = p.Nom
			}
		}
		if !r.Known || r.Exceeds {
			sum.Violations++
		}
		sum.Total = sum.Total.Add(r.Subtotal)
		sum.Lines = append(sum.Lines, r)
	}
	return sum
}
