package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/diewo77/go-commandes/internal/models"
)

type OrderService struct{ c *Client }

func (s *OrderService) r() crud[models.Order] { return crud[models.Order]{s.c, "commandes"} }

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) { return s.r().list(ctx) }

func (s *OrderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	return s.r().getByID(ctx, id)
}

// Create posts a new order. The backend computes date, status and total.
func (s *OrderService) Create(ctx context.Context, in models.OrderRequest) (*models.Order, error) {
	if in.Client.ID <= 0 || len(in.Lignes) == 0 {
		return nil, fmt.Errorf("commande incomplète: client et au moins une ligne requis")
	}
	return s.r().create(ctx, in)
}

func (s *OrderService) Update(ctx context.Context, id int64, in models.OrderUpdate) (*models.Order, error) {
	return s.r().update(ctx, id, in)
}

func (s *OrderService) Delete(ctx context.Context, id int64) error { return s.r().remove(ctx, id) }

// UpdateStatus issues PATCH /commandes/{id}/statut?statut=X.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, st models.OrderStatus) (*models.Order, error) {
	return s.r().patch(ctx, id, "statut", url.Values{"statut": {string(st)}})
}

// Cancel moves the order to ANNULEE.
func (s *OrderService) Cancel(ctx context.Context, id int64) (*models.Order, error) {
	return s.UpdateStatus(ctx, id, models.OrderCancelled)
}

func (s *OrderService) ByClient(ctx context.Context, clientID int64) ([]models.Order, error) {
	return s.r().listAt(ctx, fmt.Sprintf("/commandes/by-client/%d", clientID), nil)
}

func (s *OrderService) ByStatus(ctx context.Context, st models.OrderStatus) ([]models.Order, error) {
	return s.r().listAt(ctx, "/commandes/by-status", url.Values{"status": {string(st)}})
}

func (s *OrderService) ByDateRange(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	q := url.Values{"start": {dateParam(start)}, "end": {dateParam(end)}}
	return s.r().listAt(ctx, "/commandes/by-date-range", q)
}

// Recent lists orders placed since the given instant.
func (s *OrderService) Recent(ctx context.Context, since time.Time) ([]models.Order, error) {
	return s.r().listAt(ctx, "/commandes/recent", url.Values{"since": {dateParam(since)}})
}

type DeliveryService struct{ c *Client }

func (s *DeliveryService) r() crud[models.Delivery] {
	return crud[models.Delivery]{s.c, "livraisons"}
}

func (s *DeliveryService) List(ctx context.Context) ([]models.Delivery, error) { return s.r().list(ctx) }

func (s *DeliveryService) Get(ctx context.Context, id int64) (*models.Delivery, error) {
	return s.r().getByID(ctx, id)
}

func (s *DeliveryService) Create(ctx context.Context, in models.DeliveryRequest) (*models.Delivery, error) {
	return s.r().create(ctx, in)
}

func (s *DeliveryService) Update(ctx context.Context, id int64, in models.DeliveryRequest) (*models.Delivery, error) {
	return s.r().update(ctx, id, in)
}

func (s *DeliveryService) Delete(ctx context.Context, id int64) error { return s.r().remove(ctx, id) }

func (s *DeliveryService) UpdateStatus(ctx context.Context, id int64, st models.DeliveryStatus) (*models.Delivery, error) {
	return s.r().patch(ctx, id, "statut", url.Values{"statut": {string(st)}})
}

func (s *DeliveryService) Cancel(ctx context.Context, id int64) (*models.Delivery, error) {
	return s.UpdateStatus(ctx, id, models.DeliveryCancelled)
}

// AssignCarrier issues PATCH /livraisons/{id}/transporteur?transporteurId=N.
func (s *DeliveryService) AssignCarrier(ctx context.Context, id, carrierID int64) (*models.Delivery, error) {
	return s.r().patch(ctx, id, "transporteur", url.Values{"transporteurId": {fmt.Sprint(carrierID)}})
}

func (s *DeliveryService) ByOrder(ctx context.Context, orderID int64) ([]models.Delivery, error) {
	return s.r().listAt(ctx, fmt.Sprintf("/livraisons/by-commande/%d", orderID), nil)
}

func (s *DeliveryService) ByCarrier(ctx context.Context, carrierID int64) ([]models.Delivery, error) {
	return s.r().listAt(ctx, fmt.Sprintf("/livraisons/by-transporteur/%d", carrierID), nil)
}

func (s *DeliveryService) ByStatus(ctx context.Context, st models.DeliveryStatus) ([]models.Delivery, error) {
	return s.r().listAt(ctx, "/livraisons/by-statut", url.Values{"statut": {string(st)}})
}

func (s *DeliveryService) ByDateRange(ctx context.Context, start, end time.Time) ([]models.Delivery, error) {
	q := url.Values{"start": {dateParam(start)}, "end": {dateParam(end)}}
	return s.r().listAt(ctx, "/livraisons/by-date-range", q)
}

// Upcoming lists deliveries scheduled from the given instant on.
func (s *DeliveryService) Upcoming(ctx context.Context, from time.Time) ([]models.Delivery, error) {
	return s.r().listAt(ctx, "/livraisons/upcoming", url.Values{"from": {dateParam(from)}})
}

type PaymentService struct{ c *Client }

func (s *PaymentService) r() crud[models.Payment] { return crud[models.Payment]{s.c, "paiements"} }

func (s *PaymentService) List(ctx context.Context) ([]models.Payment, error) { return s.r().list(ctx) }

func (s *PaymentService) Get(ctx context.Context, id int64) (*models.Payment, error) {
	return s.r().getByID(ctx, id)
}

func (s *PaymentService) Create(ctx context.Context, in models.PaymentRequest) (*models.Payment, error) {
	return s.r().create(ctx, in)
}

func (s *PaymentService) Update(ctx context.Context, id int64, in models.PaymentUpdate) (*models.Payment, error) {
	return s.r().update(ctx, id, in)
}

func (s *PaymentService) Delete(ctx context.Context, id int64) error { return s.r().remove(ctx, id) }

func (s *PaymentService) UpdateStatus(ctx context.Context, id int64, st models.PaymentStatus) (*models.Payment, error) {
	return s.r().patch(ctx, id, "statut", url.Values{"statut": {string(st)}})
}

// Process asks the backend to run the payment: POST /paiements/{id}/process.
func (s *PaymentService) Process(ctx context.Context, id int64) (*models.Payment, error) {
	var out models.Payment
	if err := s.c.do(ctx, http.MethodPost, idPath("paiements", id)+"/process", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *PaymentService) ByOrder(ctx context.Context, orderID int64) ([]models.Payment, error) {
	return s.r().listAt(ctx, fmt.Sprintf("/paiements/by-commande/%d", orderID), nil)
}

func (s *PaymentService) ByMode(ctx context.Context, m models.PaymentMode) ([]models.Payment, error) {
	return s.r().listAt(ctx, "/paiements/by-mode", url.Values{"mode": {string(m)}})
}

func (s *PaymentService) ByStatus(ctx context.Context, st models.PaymentStatus) ([]models.Payment, error) {
	return s.r().listAt(ctx, "/paiements/by-statut", url.Values{"statut": {string(st)}})
}

func (s *PaymentService) ByDateRange(ctx context.Context, start, end time.Time) ([]models.Payment, error) {
	q := url.Values{"start": {dateParam(start)}, "end": {dateParam(end)}}
	return s.r().listAt(ctx, "/paiements/by-date-range", q)
}

func (s *PaymentService) Recent(ctx context.Context, since time.Time) ([]models.Payment, error) {
	return s.r().listAt(ctx, "/paiements/recent", url.Values{"since": {dateParam(since)}})
}
