package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/diewo77/go-commandes/internal/models"
)

type ClientService struct{ c *Client }

func (s *ClientService) r() crud[models.Client] { return crud[models.Client]{s.c, "clients"} }

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) { return s.r().list(ctx) }

func (s *ClientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	return s.r().getByID(ctx, id)
}

func (s *ClientService) Create(ctx context.Context, in models.Client) (*models.Client, error) {
	in.ID = 0
	return s.r().create(ctx, in)
}

func (s *ClientService) Update(ctx context.Context, id int64, in models.Client) (*models.Client, error) {
	in.ID = id
	return s.r().update(ctx, id, in)
}

func (s *ClientService) Delete(ctx context.Context, id int64) error { return s.r().remove(ctx, id) }

type ProductService struct{ c *Client }

func (s *ProductService) r() crud[models.Product] { return crud[models.Product]{s.c, "produits"} }

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) { return s.r().list(ctx) }

func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.r().getByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, in models.Product) (*models.Product, error) {
	in.ID = 0
	return s.r().create(ctx, in)
}

func (s *ProductService) Update(ctx context.Context, id int64, in models.Product) (*models.Product, error) {
	in.ID = id
	return s.r().update(ctx, id, in)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error { return s.r().remove(ctx, id) }

// Search matches products whose name contains nom.
func (s *ProductService) Search(ctx context.Context, nom string) ([]models.Product, error) {
	return s.r().search(ctx, nom)
}

type SupplierService struct{ c *Client }

func (s *SupplierService) r() crud[models.Supplier] {
	return crud[models.Supplier]{s.c, "fournisseurs"}
}

func (s *SupplierService) List(ctx context.Context) ([]models.Supplier, error) { return s.r().list(ctx) }

func (s *SupplierService) Get(ctx context.Context, id int64) (*models.Supplier, error) {
	return s.r().getByID(ctx, id)
}

func (s *SupplierService) Create(ctx context.Context, in models.Supplier) (*models.Supplier, error) {
	in.ID = 0
	return s.r().create(ctx, in)
}

func (s *SupplierService) Update(ctx context.Context, id int64, in models.Supplier) (*models.Supplier, error) {
	in.ID = id
	return s.r().update(ctx, id, in)
}

func (s *SupplierService) Delete(ctx context.Context, id int64) error { return s.r().remove(ctx, id) }

func (s *SupplierService) Search(ctx context.Context, nom string) ([]models.Supplier, error) {
	return s.r().search(ctx, nom)
}

// Rate sets the 0..5 rating: PATCH /fournisseurs/{id}/note?note=x.
func (s *SupplierService) Rate(ctx context.Context, id int64, note float64) (*models.Supplier, error) {
	if note < 0 || note > 5 {
		return nil, fmt.Errorf("note hors limites: %v", note)
	}
	return s.r().patch(ctx, id, "note", url.Values{"note": {strconv.FormatFloat(note, 'f', -1, 64)}})
}

// Orders returns the commandes placed with the supplier.
func (s *SupplierService) Orders(ctx context.Context, id int64) ([]models.Order, error) {
	return crud[models.Order]{c: s.c}.listAt(ctx, idPath("fournisseurs", id)+"/commandes", nil)
}

// OrdersBetween restricts Orders to [debut, fin].
func (s *SupplierService) OrdersBetween(ctx context.Context, id int64, debut, fin time.Time) ([]models.Order, error) {
	q := url.Values{"debut": {dateParam(debut)}, "fin": {dateParam(fin)}}
	return crud[models.Order]{c: s.c}.listAt(ctx, idPath("fournisseurs", id)+"/commandes/period", q)
}

type CarrierService struct{ c *Client }

func (s *CarrierService) r() crud[models.Carrier] {
	return crud[models.Carrier]{s.c, "transporteurs"}
}

func (s *CarrierService) List(ctx context.Context) ([]models.Carrier, error) { return s.r().list(ctx) }

func (s *CarrierService) Get(ctx context.Context, id int64) (*models.Carrier, error) {
	return s.r().getByID(ctx, id)
}

func (s *CarrierService) Create(ctx context.Context, in models.Carrier) (*models.Carrier, error) {
	in.ID = 0
	return s.r().create(ctx, in)
}

func (s *CarrierService) Update(ctx context.Context, id int64, in models.Carrier) (*models.Carrier, error) {
	in.ID = id
	return s.r().update(ctx, id, in)
}

func (s *CarrierService) Delete(ctx context.Context, id int64) error { return s.r().remove(ctx, id) }

func (s *CarrierService) Search(ctx context.Context, nom string) ([]models.Carrier, error) {
	return s.r().search(ctx, nom)
}
