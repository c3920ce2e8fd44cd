package handlers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/diewo77/go-commandes/internal/backend"
	"github.com/diewo77/go-commandes/internal/models"
)

// recentWindow bounds the "recent" sections of the dashboard.
const recentWindow = 7 * 24 * time.Hour

type DashboardHandler struct {
	base
}

func NewDashboardHandler(d Deps) *DashboardHandler {
	return &DashboardHandler{base{d}}
}

// section is one independently fetched block of the dashboard.
type section[T any] struct {
	Items []T
	Error string
}

func (s *section[T]) load(ctx context.Context, fetch func(context.Context) ([]T, error)) {
	items, err := fetch(ctx)
	if err != nil {
		s.Error = backend.Message(err)
		return
	}
	s.Items = items
}

// Show fetches every section concurrently. A failed section carries its own
// error and never hides the others.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	var (
		orders     section[models.Order]
		pending    section[models.Order]
		deliveries section[models.Delivery]
		payments   section[models.Payment]
		clients    section[models.Client]
		products   section[models.Product]
	)
	since := time.Now().Add(-recentWindow)
	// Loaders always return nil: a failure stays in its section and must not
	// cancel the others.
	var g errgroup.Group
	ctx := r.Context()
	g.Go(func() error {
		orders.load(ctx, func(ctx context.Context) ([]models.Order, error) { return h.API.Orders.Recent(ctx, since) })
		return nil
	})
	g.Go(func() error {
		pending.load(ctx, func(ctx context.Context) ([]models.Order, error) {
			return h.API.Orders.ByStatus(ctx, models.OrderPending)
		})
		return nil
	})
	g.Go(func() error {
		deliveries.load(ctx, func(ctx context.Context) ([]models.Delivery, error) {
			return h.API.Deliveries.Upcoming(ctx, time.Now())
		})
		return nil
	})
	g.Go(func() error {
		payments.load(ctx, func(ctx context.Context) ([]models.Payment, error) { return h.API.Payments.Recent(ctx, since) })
		return nil
	})
	g.Go(func() error {
		clients.load(ctx, h.API.Clients.List)
		return nil
	})
	g.Go(func() error {
		products.load(ctx, h.API.Products.List)
		return nil
	})
	_ = g.Wait()

	h.render(w, r, "dashboard.html", map[string]any{
		"RecentOrders":  orders,
		"PendingOrders": pending,
		"Upcoming":      deliveries,
		"Payments":      payments,
		"Clients":       clients,
		"Products":      products,
		"LowStock":      lowStock(products.Items, 5),
	})
}

// lowStock returns the products with at most threshold units left.
func lowStock(products []models.Product, threshold int) []models.Product {
	var out []models.Product
	for _, p := range products {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out
}
