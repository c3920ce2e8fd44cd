// Package backendtest provides an in-memory fake of the commerce REST API
// for tests. Every request is recorded so tests can assert which calls
// were (or were not) made.
package backendtest

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diewo77/go-commandes/internal/backend"
	"github.com/diewo77/go-commandes/internal/models"
)

// Request is one recorded call, path relative to /api.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type failure struct {
	status int
	body   string
}

type Server struct {
	srv *httptest.Server

	mu         sync.Mutex
	nextID     int64
	requests   []Request
	failures   map[string]failure
	clients    map[int64]*models.Client
	products   map[int64]*models.Product
	suppliers  map[int64]*models.Supplier
	carriers   map[int64]*models.Carrier
	orders     map[int64]*models.Order
	deliveries map[int64]*models.Delivery
	payments   map[int64]*models.Payment
	// supplierOrders links a supplier to order ids for /fournisseurs/{id}/commandes.
	supplierOrders map[int64][]int64
}

// New starts a fake backend closed at test cleanup.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		failures:       map[string]failure{},
		clients:        map[int64]*models.Client{},
		products:       map[int64]*models.Product{},
		suppliers:      map[int64]*models.Supplier{},
		carriers:       map[int64]*models.Carrier{},
		orders:         map[int64]*models.Order{},
		deliveries:     map[int64]*models.Delivery{},
		payments:       map[int64]*models.Payment{},
		supplierOrders: map[int64][]int64{},
	}
	s.srv = httptest.NewServer(http.StripPrefix("/api", s.routes()))
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API root, e.g. http://127.0.0.1:1234/api.
func (s *Server) URL() string { return s.srv.URL + "/api" }

// API returns a backend client pointed at the fake.
func (s *Server) API() *backend.Client { return backend.New(s.URL()) }

// Close stops the server early; later calls fail with a transport error.
func (s *Server) Close() { s.srv.Close() }

// Fail makes every "METHOD path" request answer status with body.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Requests returns a copy of the recorded calls.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Count returns how many recorded calls match method and path prefix.
func (s *Server) Count(method, pathPrefix string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			n++
		}
	}
	return n
}

// Mutations counts every non-GET call.
func (s *Server) Mutations() int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method != http.MethodGet {
			n++
		}
	}
	return n
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// Seeding helpers assign ids when zero and return the stored value.

func (s *Server) AddClient(c models.Client) models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.clients[c.ID] = &c
	return c
}

func (s *Server) AddProduct(p models.Product) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.products[p.ID] = &p
	return p
}

func (s *Server) AddSupplier(f models.Supplier, orderIDs ...int64) models.Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == 0 {
		f.ID = s.id()
	}
	s.suppliers[f.ID] = &f
	s.supplierOrders[f.ID] = orderIDs
	return f
}

func (s *Server) AddCarrier(c models.Carrier) models.Carrier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.carriers[c.ID] = &c
	return c
}

func (s *Server) AddOrder(o models.Order) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == 0 {
		o.ID = s.id()
	}
	if o.Statut == "" {
		o.Statut = models.OrderPending
	}
	s.orders[o.ID] = &o
	return o
}

func (s *Server) AddDelivery(d models.Delivery) models.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == 0 {
		d.ID = s.id()
	}
	if d.Statut == "" {
		d.Statut = models.DeliveryPending
	}
	s.deliveries[d.ID] = &d
	return d
}

func (s *Server) AddPayment(p models.Payment) models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	if p.Statut == "" {
		p.Statut = models.PaymentPending
	}
	s.payments[p.ID] = &p
	return p
}

// Order returns the stored order, for assertions.
func (s *Server) Order(id int64) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return models.Order{}, false
	}
	return *o, true
}

func (s *Server) Delivery(id int64) (models.Delivery, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deliveries[id]
	if !ok {
		return models.Delivery{}, false
	}
	return *d, true
}

func (s *Server) Payment(id int64) (models.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return models.Payment{}, false
	}
	return *p, true
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	resource(mux, s, "clients", func() map[int64]*models.Client { return s.clients },
		func(c *models.Client, id int64) { c.ID = id }, func(c *models.Client) string { return c.Nom })
	resource(mux, s, "produits", func() map[int64]*models.Product { return s.products },
		func(p *models.Product, id int64) { p.ID = id }, func(p *models.Product) string { return p.Nom })
	resource(mux, s, "fournisseurs", func() map[int64]*models.Supplier { return s.suppliers },
		func(f *models.Supplier, id int64) { f.ID = id }, func(f *models.Supplier) string { return f.Nom })
	resource(mux, s, "transporteurs", func() map[int64]*models.Carrier { return s.carriers },
		func(c *models.Carrier, id int64) { c.ID = id }, func(c *models.Carrier) string { return c.Nom })

	mux.HandleFunc("PATCH /fournisseurs/{id}/note", s.locked(func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.suppliers[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		n, err := strconv.ParseFloat(r.URL.Query().Get("note"), 64)
		if err != nil || n < 0 || n > 5 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "note invalide"})
			return
		}
		f.Note = &n
		writeJSON(w, http.StatusOK, f)
	}))
	supplierOrders := s.locked(func(w http.ResponseWriter, r *http.Request) {
		out := []models.Order{}
		for _, id := range s.supplierOrders[pathID(r)] {
			if o, ok := s.orders[id]; ok {
				out = append(out, *o)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("GET /fournisseurs/{id}/commandes", supplierOrders)
	mux.HandleFunc("GET /fournisseurs/{id}/commandes/period", supplierOrders)

	s.orderRoutes(mux)
	s.deliveryRoutes(mux)
	s.paymentRoutes(mux)
	return s.record(mux)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
		f, failing := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if failing {
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// locked runs h with the store mutex held.
func (s *Server) locked(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, r)
	}
}

func resource[T any](mux *http.ServeMux, s *Server, name string, table func() map[int64]*T, setID func(*T, int64), nameOf func(*T) string) {
	mux.HandleFunc("GET /"+name, s.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sorted(table()))
	}))
	mux.HandleFunc("GET /"+name+"/search", s.locked(func(w http.ResponseWriter, r *http.Request) {
		term := strings.ToLower(r.URL.Query().Get("nom"))
		out := []T{}
		for _, v := range sorted(table()) {
			if strings.Contains(strings.ToLower(nameOf(&v)), term) {
				out = append(out, v)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}))
	mux.HandleFunc("GET /"+name+"/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		v, ok := table()[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}))
	mux.HandleFunc("POST /"+name, s.locked(func(w http.ResponseWriter, r *http.Request) {
		var v T
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			badJSON(w, err)
			return
		}
		id := s.id()
		setID(&v, id)
		table()[id] = &v
		writeJSON(w, http.StatusCreated, v)
	}))
	mux.HandleFunc("PUT /"+name+"/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if _, ok := table()[id]; !ok {
			notFound(w)
			return
		}
		var v T
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			badJSON(w, err)
			return
		}
		setID(&v, id)
		table()[id] = &v
		writeJSON(w, http.StatusOK, v)
	}))
	mux.HandleFunc("DELETE /"+name+"/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if _, ok := table()[id]; !ok {
			notFound(w)
			return
		}
		delete(table(), id)
		w.WriteHeader(http.StatusNoContent)
	}))
}

func (s *Server) orderRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /commandes", s.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sorted(s.orders))
	}))
	mux.HandleFunc("GET /commandes/recent", s.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sorted(s.orders))
	}))
	mux.HandleFunc("GET /commandes/by-status", s.locked(func(w http.ResponseWriter, r *http.Request) {
		st := models.OrderStatus(r.URL.Query().Get("status"))
		writeJSON(w, http.StatusOK, filter(sorted(s.orders), func(o models.Order) bool { return o.Statut == st }))
	}))
	mux.HandleFunc("GET /commandes/by-date-range", s.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, filter(sorted(s.orders), func(o models.Order) bool { return within(r, o.Date) }))
	}))
	mux.HandleFunc("GET /commandes/by-client/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		writeJSON(w, http.StatusOK, filter(sorted(s.orders), func(o models.Order) bool { return o.Client != nil && o.Client.ID == id }))
	}))
	mux.HandleFunc("GET /commandes/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		o, ok := s.orders[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, o)
	}))
	mux.HandleFunc("POST /commandes", s.locked(func(w http.ResponseWriter, r *http.Request) {
		var in models.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			badJSON(w, err)
			return
		}
		c, ok := s.clients[in.Client.ID]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Client introuvable"})
			return
		}
		o := models.Order{ID: s.id(), Client: c, Date: models.NewDateTime(time.Now()), Statut: models.OrderPending, Notes: in.Notes}
		for _, l := range in.Lignes {
			p, ok := s.products[l.Produit.ID]
			if !ok {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": fmt.Sprintf("Produit %d introuvable", l.Produit.ID)})
				return
			}
			o.Lignes = append(o.Lignes, models.OrderLine{ID: s.id(), Produit: p, Quantite: l.Quantite, PrixUnitaire: l.PrixUnitaire})
			o.MontantTotal += float64(l.Quantite) * l.PrixUnitaire
		}
		s.orders[o.ID] = &o
		writeJSON(w, http.StatusCreated, o)
	}))
	mux.HandleFunc("PUT /commandes/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		o, ok := s.orders[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		var in models.OrderUpdate
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			badJSON(w, err)
			return
		}
		if in.Statut != "" {
			o.Statut = in.Statut
		}
		if in.Notes != nil {
			o.Notes = *in.Notes
		}
		writeJSON(w, http.StatusOK, o)
	}))
	mux.HandleFunc("DELETE /commandes/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if _, ok := s.orders[id]; !ok {
			notFound(w)
			return
		}
		delete(s.orders, id)
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("PATCH /commandes/{id}/statut", s.locked(func(w http.ResponseWriter, r *http.Request) {
		o, ok := s.orders[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		st, err := models.ParseOrderStatus(r.URL.Query().Get("statut"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		o.Statut = st
		writeJSON(w, http.StatusOK, o)
	}))
}

func (s *Server) deliveryRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /livraisons", s.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sorted(s.deliveries))
	}))
	mux.HandleFunc("GET /livraisons/upcoming", s.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, filter(sorted(s.deliveries), func(d models.Delivery) bool { return !d.Statut.IsTerminal() }))
	}))
	mux.HandleFunc("GET /livraisons/by-commande/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		writeJSON(w, http.StatusOK, filter(sorted(s.deliveries), func(d models.Delivery) bool { return d.OrderID() == id }))
	}))
	mux.HandleFunc("GET /livraisons/by-statut", s.locked(func(w http.ResponseWriter, r *http.Request) {
		st := models.DeliveryStatus(r.URL.Query().Get("statut"))
		writeJSON(w, http.StatusOK, filter(sorted(s.deliveries), func(d models.Delivery) bool { return d.Statut == st }))
	}))
	mux.HandleFunc("GET /livraisons/by-date-range", s.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, filter(sorted(s.deliveries), func(d models.Delivery) bool { return within(r, d.DateLivraison) }))
	}))
	mux.HandleFunc("GET /livraisons/by-transporteur/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		writeJSON(w, http.StatusOK, filter(sorted(s.deliveries), func(d models.Delivery) bool { return d.Transporteur != nil && d.Transporteur.ID == id }))
	}))
	mux.HandleFunc("GET /livraisons/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		d, ok := s.deliveries[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}))
	save := func(w http.ResponseWriter, r *http.Request, d *models.Delivery) bool {
		var in models.DeliveryRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			badJSON(w, err)
			return false
		}
		o, ok := s.orders[in.CommandeID]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Commande introuvable"})
			return false
		}
		d.Commande = o
		d.Transporteur = nil
		if in.TransporteurID != nil {
			c, ok := s.carriers[*in.TransporteurID]
			if !ok {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Transporteur introuvable"})
				return false
			}
			d.Transporteur = c
		}
		d.DateLivraison = in.DateLivraison
		d.AdresseLivraison = in.AdresseLivraison
		d.Cout = in.Cout
		if in.Statut != "" {
			d.Statut = in.Statut
		}
		return true
	}
	mux.HandleFunc("POST /livraisons", s.locked(func(w http.ResponseWriter, r *http.Request) {
		d := models.Delivery{ID: s.id(), Statut: models.DeliveryPending, DateCreation: models.NewDateTime(time.Now())}
		if !save(w, r, &d) {
			return
		}
		s.deliveries[d.ID] = &d
		writeJSON(w, http.StatusCreated, d)
	}))
	mux.HandleFunc("PUT /livraisons/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		d, ok := s.deliveries[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		next := *d
		if !save(w, r, &next) {
			return
		}
		*d = next
		writeJSON(w, http.StatusOK, d)
	}))
	mux.HandleFunc("DELETE /livraisons/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if _, ok := s.deliveries[id]; !ok {
			notFound(w)
			return
		}
		delete(s.deliveries, id)
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("PATCH /livraisons/{id}/statut", s.locked(func(w http.ResponseWriter, r *http.Request) {
		d, ok := s.deliveries[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		st, err := models.ParseDeliveryStatus(r.URL.Query().Get("statut"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		d.Statut = st
		writeJSON(w, http.StatusOK, d)
	}))
	mux.HandleFunc("PATCH /livraisons/{id}/transporteur", s.locked(func(w http.ResponseWriter, r *http.Request) {
		d, ok := s.deliveries[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		cid, _ := strconv.ParseInt(r.URL.Query().Get("transporteurId"), 10, 64)
		c, ok := s.carriers[cid]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Transporteur introuvable"})
			return
		}
		d.Transporteur = c
		writeJSON(w, http.StatusOK, d)
	}))
}

func (s *Server) paymentRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /paiements", s.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sorted(s.payments))
	}))
	mux.HandleFunc("GET /paiements/recent", s.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sorted(s.payments))
	}))
	mux.HandleFunc("GET /paiements/by-commande/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		writeJSON(w, http.StatusOK, filter(sorted(s.payments), func(p models.Payment) bool { return p.OrderID() == id }))
	}))
	mux.HandleFunc("GET /paiements/by-statut", s.locked(func(w http.ResponseWriter, r *http.Request) {
		st := models.PaymentStatus(r.URL.Query().Get("statut"))
		writeJSON(w, http.StatusOK, filter(sorted(s.payments), func(p models.Payment) bool { return p.Statut == st }))
	}))
	mux.HandleFunc("GET /paiements/by-date-range", s.locked(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, filter(sorted(s.payments), func(p models.Payment) bool { return within(r, p.Date) }))
	}))
	mux.HandleFunc("GET /paiements/by-mode", s.locked(func(w http.ResponseWriter, r *http.Request) {
		m := models.PaymentMode(r.URL.Query().Get("mode"))
		writeJSON(w, http.StatusOK, filter(sorted(s.payments), func(p models.Payment) bool { return p.Mode == m }))
	}))
	mux.HandleFunc("GET /paiements/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.payments[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}))
	mux.HandleFunc("POST /paiements", s.locked(func(w http.ResponseWriter, r *http.Request) {
		var in models.PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			badJSON(w, err)
			return
		}
		o, ok := s.orders[in.Commande.ID]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Commande introuvable"})
			return
		}
		p := models.Payment{ID: s.id(), Commande: o, Date: models.NewDateTime(time.Now()), MontantPaye: o.MontantTotal, Statut: models.PaymentPending, Mode: in.Mode}
		if in.Statut != "" {
			p.Statut = in.Statut
		}
		s.payments[p.ID] = &p
		writeJSON(w, http.StatusCreated, p)
	}))
	mux.HandleFunc("PUT /paiements/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.payments[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		var in models.PaymentUpdate
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			badJSON(w, err)
			return
		}
		if in.Mode != "" {
			p.Mode = in.Mode
		}
		if in.Statut != "" {
			p.Statut = in.Statut
		}
		if in.MontantPaye != nil {
			p.MontantPaye = *in.MontantPaye
		}
		writeJSON(w, http.StatusOK, p)
	}))
	mux.HandleFunc("DELETE /paiements/{id}", s.locked(func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if _, ok := s.payments[id]; !ok {
			notFound(w)
			return
		}
		delete(s.payments, id)
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("PATCH /paiements/{id}/statut", s.locked(func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.payments[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		st, err := models.ParsePaymentStatus(r.URL.Query().Get("statut"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		p.Statut = st
		writeJSON(w, http.StatusOK, p)
	}))
	mux.HandleFunc("POST /paiements/{id}/process", s.locked(func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.payments[pathID(r)]
		if !ok {
			notFound(w)
			return
		}
		if p.Statut != models.PaymentPending {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Paiement déjà traité"})
			return
		}
		p.Statut = models.PaymentDone
		writeJSON(w, http.StatusOK, p)
	}))
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func sorted[T any](m map[int64]*T) []T {
	out := make([]T, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, *m[k])
	}
	return out
}

const wireTime = "2006-01-02T15:04:05"

// within reports whether d falls in the ?start=&end= bounds, both inclusive.
func within(r *http.Request, d models.DateTime) bool {
	start, err := time.ParseInLocation(wireTime, r.URL.Query().Get("start"), time.Local)
	if err != nil {
		return false
	}
	end, err := time.ParseInLocation(wireTime, r.URL.Query().Get("end"), time.Local)
	if err != nil {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := []T{}
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Ressource introuvable"})
}

func badJSON(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Bad Request", "message": err.Error()})
}
