package main

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-commandes/httpx"
	"github.com/diewo77/go-commandes/internal/handlers"
	"github.com/diewo77/go-commandes/internal/middleware"
	"github.com/diewo77/go-commandes/view"
	"gorm.io/gorm"
)

// routerConfig holds the configured handlers of the application.
type routerConfig struct {
	Dashboard *handlers.DashboardHandler
	Journal   *handlers.JournalHandler

	Clients    *handlers.ClientHandler
	Products   *handlers.ProductHandler
	Suppliers  *handlers.SupplierHandler
	Carriers   *handlers.CarrierHandler
	Orders     *handlers.OrderHandler
	Deliveries *handlers.DeliveryHandler
	Payments   *handlers.PaymentHandler
}

func newRouterConfig(d handlers.Deps) *routerConfig {
	return &routerConfig{
		Dashboard:  handlers.NewDashboardHandler(d),
		Journal:    handlers.NewJournalHandler(d),
		Clients:    handlers.NewClientHandler(d),
		Products:   handlers.NewProductHandler(d),
		Suppliers:  handlers.NewSupplierHandler(d),
		Carriers:   handlers.NewCarrierHandler(d),
		Orders:     handlers.NewOrderHandler(d),
		Deliveries: handlers.NewDeliveryHandler(d),
		Payments:   handlers.NewPaymentHandler(d),
	}
}

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	db      *gorm.DB
	deps    handlers.Deps
	handler http.Handler
}

// NewApp creates the application with all routes configured. db may be nil
// (no audit storage); the health check then only reports the backend.
func NewApp(deps handlers.Deps, db *gorm.DB) *App {
	a := &App{mux: http.NewServeMux(), db: db, deps: deps}
	view.SetLangResolver(middleware.LangFrom)
	view.SetFlashResolver(middleware.PopFlash)
	a.setupRoutes(newRouterConfig(deps))
	a.handler = middleware.Logger(deps.Log)(middleware.Recover(deps.Log)(middleware.Prefs(a.mux)))
	return a
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes(cfg *routerConfig) {
	a.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.HandleFunc("GET /healthz", a.health)
	a.mux.HandleFunc("GET /dashboard", cfg.Dashboard.Show)
	a.mux.HandleFunc("GET /journal", cfg.Journal.List)

	// Clients
	ch := cfg.Clients
	a.mux.HandleFunc("GET /clients", ch.List)
	a.mux.HandleFunc("GET /clients/new", ch.New)
	a.mux.HandleFunc("POST /clients", ch.Create)
	a.mux.HandleFunc("GET /clients/{id}", ch.View)
	a.mux.HandleFunc("GET /clients/{id}/edit", ch.Edit)
	a.mux.HandleFunc("POST /clients/{id}", ch.Update)
	a.mux.HandleFunc("GET /clients/{id}/supprimer", ch.ConfirmDelete)
	a.mux.HandleFunc("POST /clients/{id}/supprimer", ch.Delete)

	// Products
	ph := cfg.Products
	a.mux.HandleFunc("GET /produits", ph.List)
	a.mux.HandleFunc("GET /produits/new", ph.New)
	a.mux.HandleFunc("POST /produits", ph.Create)
	a.mux.HandleFunc("GET /produits/{id}/edit", ph.Edit)
	a.mux.HandleFunc("POST /produits/{id}", ph.Update)
	a.mux.HandleFunc("GET /produits/{id}/supprimer", ph.ConfirmDelete)
	a.mux.HandleFunc("POST /produits/{id}/supprimer", ph.Delete)

	// Suppliers
	sh := cfg.Suppliers
	a.mux.HandleFunc("GET /fournisseurs", sh.List)
	a.mux.HandleFunc("GET /fournisseurs/new", sh.New)
	a.mux.HandleFunc("POST /fournisseurs", sh.Create)
	a.mux.HandleFunc("GET /fournisseurs/{id}", sh.View)
	a.mux.HandleFunc("GET /fournisseurs/{id}/edit", sh.Edit)
	a.mux.HandleFunc("POST /fournisseurs/{id}", sh.Update)
	a.mux.HandleFunc("POST /fournisseurs/{id}/note", sh.Rate)
	a.mux.HandleFunc("GET /fournisseurs/{id}/supprimer", sh.ConfirmDelete)
	a.mux.HandleFunc("POST /fournisseurs/{id}/supprimer", sh.Delete)

	// Carriers
	th := cfg.Carriers
	a.mux.HandleFunc("GET /transporteurs", th.List)
	a.mux.HandleFunc("GET /transporteurs/new", th.New)
	a.mux.HandleFunc("POST /transporteurs", th.Create)
	a.mux.HandleFunc("GET /transporteurs/{id}", th.View)
	a.mux.HandleFunc("GET /transporteurs/{id}/edit", th.Edit)
	a.mux.HandleFunc("POST /transporteurs/{id}", th.Update)
	a.mux.HandleFunc("GET /transporteurs/{id}/supprimer", th.ConfirmDelete)
	a.mux.HandleFunc("POST /transporteurs/{id}/supprimer", th.Delete)

	// Orders
	oh := cfg.Orders
	a.mux.HandleFunc("GET /commandes", oh.List)
	a.mux.HandleFunc("GET /commandes/new", oh.New)
	a.mux.HandleFunc("POST /commandes/new", oh.Compose)
	a.mux.HandleFunc("GET /commandes/{id}", oh.View)
	a.mux.HandleFunc("POST /commandes/{id}/statut", oh.UpdateStatus)
	a.mux.HandleFunc("POST /commandes/{id}/notes", oh.UpdateNotes)
	a.mux.HandleFunc("GET /commandes/{id}/annuler", oh.ConfirmCancel)
	a.mux.HandleFunc("POST /commandes/{id}/annuler", oh.Cancel)
	a.mux.HandleFunc("GET /commandes/{id}/supprimer", oh.ConfirmDelete)
	a.mux.HandleFunc("POST /commandes/{id}/supprimer", oh.Delete)

	// Deliveries
	dh := cfg.Deliveries
	a.mux.HandleFunc("GET /livraisons", dh.List)
	a.mux.HandleFunc("GET /livraisons/new", dh.New)
	a.mux.HandleFunc("POST /livraisons", dh.Create)
	a.mux.HandleFunc("GET /livraisons/{id}", dh.View)
	a.mux.HandleFunc("GET /livraisons/{id}/edit", dh.Edit)
	a.mux.HandleFunc("POST /livraisons/{id}", dh.Update)
	a.mux.HandleFunc("GET /livraisons/{id}/statut", dh.StatusForm)
	a.mux.HandleFunc("POST /livraisons/{id}/statut", dh.UpdateStatus)
	a.mux.HandleFunc("POST /livraisons/{id}/transporteur", dh.AssignCarrier)
	a.mux.HandleFunc("GET /livraisons/{id}/annuler", dh.ConfirmCancel)
	a.mux.HandleFunc("POST /livraisons/{id}/annuler", dh.Cancel)
	a.mux.HandleFunc("GET /livraisons/{id}/supprimer", dh.ConfirmDelete)
	a.mux.HandleFunc("POST /livraisons/{id}/supprimer", dh.Delete)

	// Payments
	pay := cfg.Payments
	a.mux.HandleFunc("GET /paiements", pay.List)
	a.mux.HandleFunc("GET /paiements/new", pay.New)
	a.mux.HandleFunc("POST /paiements", pay.Create)
	a.mux.HandleFunc("GET /paiements/{id}", pay.View)
	a.mux.HandleFunc("GET /paiements/{id}/edit", pay.Edit)
	a.mux.HandleFunc("POST /paiements/{id}", pay.Update)
	a.mux.HandleFunc("POST /paiements/{id}/traiter", pay.Process)
	a.mux.HandleFunc("POST /paiements/{id}/statut", pay.UpdateStatus)
	a.mux.HandleFunc("GET /paiements/{id}/supprimer", pay.ConfirmDelete)
	a.mux.HandleFunc("POST /paiements/{id}/supprimer", pay.Delete)
}

// health reports the audit database and the configured backend.
func (a *App) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok", "backend": a.deps.API.BaseURL()}
	code := http.StatusOK
	if a.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		} else {
			status["database"] = "ok"
		}
	}
	httpx.JSON(w, code, status)
}
