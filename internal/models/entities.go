package models

import "github.com/shopspring/decimal"

type Client struct {
	ID      int64  `json:"id,omitempty"`
	Nom     string `json:"nom"`
	Email   string `json:"email"`
	Adresse string `json:"adresse"`
}

type Product struct {
	ID          int64   `json:"id,omitempty"`
	Nom         string  `json:"nom"`
	Description string  `json:"description"`
	Prix        float64 `json:"prix"`
	Stock       int     `json:"stock"`
}

// InStock reports whether at least qty units are available.
func (p Product) InStock(qty int) bool { return qty <= p.Stock }

// Supplier is a fournisseur. Note is a 0..5 rating.
type Supplier struct {
	ID        int64    `json:"id,omitempty"`
	Nom       string   `json:"nom"`
	Email     string   `json:"email"`
	Telephone string   `json:"telephone"`
	Adresse   string   `json:"adresse,omitempty"`
	Note      *float64 `json:"note,omitempty"`
}

// Carrier is a transporteur.
type Carrier struct {
	ID        int64    `json:"id,omitempty"`
	Nom       string   `json:"nom"`
	Telephone *string  `json:"telephone"`
	Note      *float64 `json:"note"`
}

// Phone returns the telephone or "" when unset.
func (c Carrier) Phone() string {
	if c.Telephone == nil {
		return ""
	}
	return *c.Telephone
}

type Order struct {
	ID           int64       `json:"id"`
	Client       *Client     `json:"client,omitempty"`
	Date         DateTime    `json:"date"`
	Statut       OrderStatus `json:"statut"`
	MontantTotal float64     `json:"montantTotal"`
	Lignes       []OrderLine `json:"lignesCommande,omitempty"`
	Notes        string      `json:"notes,omitempty"`
}

// ClientName is empty when the client was not embedded.
func (o Order) ClientName() string {
	if o.Client == nil {
		return ""
	}
	return o.Client.Nom
}

type OrderLine struct {
	ID           int64    `json:"id,omitempty"`
	Produit      *Product `json:"produit,omitempty"`
	Quantite     int      `json:"quantite"`
	PrixUnitaire float64  `json:"prixUnitaire"`
}

// Total is quantite × prixUnitaire; it is never sent to the backend.
func (l OrderLine) Total() decimal.Decimal {
	return decimal.NewFromFloat(l.PrixUnitaire).Mul(decimal.NewFromInt(int64(l.Quantite)))
}

func (l OrderLine) ProductName() string {
	if l.Produit == nil {
		return ""
	}
	return l.Produit.Nom
}

// Ref is the {"id": n} shape used for nested references in payloads.
type Ref struct {
	ID int64 `json:"id"`
}

// OrderRequest is the creation payload. Date and total are server-computed.
type OrderRequest struct {
	Client Ref                `json:"client"`
	Lignes []OrderLineRequest `json:"lignesCommande"`
	Notes  string             `json:"notes,omitempty"`
}

type OrderLineRequest struct {
	Produit      Ref     `json:"produit"`
	Quantite     int     `json:"quantite"`
	PrixUnitaire float64 `json:"prixUnitaire"`
}

// OrderUpdate carries the optional fields of a PUT /commandes/{id}.
type OrderUpdate struct {
	Statut OrderStatus        `json:"statut,omitempty"`
	Notes  *string            `json:"notes,omitempty"`
	Lignes []OrderLineRequest `json:"lignesCommande,omitempty"`
}

type Delivery struct {
	ID               int64          `json:"id"`
	Commande         *Order         `json:"commande,omitempty"`
	Transporteur     *Carrier       `json:"transporteur,omitempty"`
	DateLivraison    DateTime       `json:"dateLivraison"`
	AdresseLivraison string         `json:"adresseLivraison"`
	Cout             *float64       `json:"cout,omitempty"`
	Statut           DeliveryStatus `json:"statut"`
	DateCreation     DateTime       `json:"dateCreation"`
}

func (d Delivery) OrderID() int64 {
	if d.Commande == nil {
		return 0
	}
	return d.Commande.ID
}

func (d Delivery) CarrierName() string {
	if d.Transporteur == nil {
		return ""
	}
	return d.Transporteur.Nom
}

type DeliveryRequest struct {
	CommandeID       int64          `json:"commandeId"`
	TransporteurID   *int64         `json:"transporteurId"`
	DateLivraison    DateTime       `json:"dateLivraison"`
	AdresseLivraison string         `json:"adresseLivraison"`
	Cout             *float64       `json:"cout,omitempty"`
	Statut           DeliveryStatus `json:"statut,omitempty"`
}

type Payment struct {
	ID          int64         `json:"id"`
	Commande    *Order        `json:"commande,omitempty"`
	Date        DateTime      `json:"date"`
	MontantPaye float64       `json:"montantPaye"`
	Statut      PaymentStatus `json:"statut"`
	Mode        PaymentMode   `json:"mode"`
}

func (p Payment) OrderID() int64 {
	if p.Commande == nil {
		return 0
	}
	return p.Commande.ID
}

func (p Payment) ClientName() string {
	if p.Commande == nil {
		return ""
	}
	return p.Commande.ClientName()
}

type PaymentRequest struct {
	Commande Ref           `json:"commande"`
	Mode     PaymentMode   `json:"mode"`
	Statut   PaymentStatus `json:"statut,omitempty"`
}

type PaymentUpdate struct {
	Mode        PaymentMode   `json:"mode,omitempty"`
	Statut      PaymentStatus `json:"statut,omitempty"`
	MontantPaye *float64      `json:"montantPaye,omitempty"`
}
