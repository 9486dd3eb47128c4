package httpx

import (
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop-orders/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(m *metrics.ServerMetrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	if m != nil {
		r.Use(Instrument(m))
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	return r
}

// Server mounts every API route under /api.
type Server struct {
	Orders   OrderService
	Catalog  Catalog
	Carts    Carts
	Accounts Accounts
	Metrics  *metrics.ServerMetrics
}

func (s *Server) Handler() http.Handler {
	r := NewRouter(s.Metrics)
	auth := Authenticate(s.Accounts)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		uh := &UsersHandler{Accounts: s.Accounts}
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", uh.register)
			r.Post("/login", uh.login)
			r.With(auth).Post("/logout", uh.logout)
		})
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", uh.register)
			r.Post("/login", uh.login)
			r.With(auth).Get("/profile/{id}", uh.profile)
		})

		ph := &ProductsHandler{Catalog: s.Catalog}
		r.Route("/products", ph.Register(auth))

		ch := &CartHandler{Carts: s.Carts}
		r.Route("/cart", func(r chi.Router) {
			r.Use(auth)
			ch.Register(r)
		})

		oh := &OrdersHandler{Orders: s.Orders, Catalog: s.Catalog}
		r.Route("/orders", func(r chi.Router) {
			r.Use(auth)
			oh.Register(r)
		})
	})
	return r
}
