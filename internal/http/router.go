package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Kobayashi19860206/NodeShop/internal/shop"
)

// NewRouter mounts the full JSON API plus the operational endpoints.
func NewRouter(s *shop.Shop, requestTimeout time.Duration) http.Handler {
	h := NewHandler(s)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(HeaderAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListCatalog)
			r.Post("/", h.CreateProduct)
			r.Get("/{productID}", h.GetProduct)
			r.Put("/{productID}", h.UpdateProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/items/{productID}", h.AddToCart)
			r.Delete("/items/{productID}", h.RemoveFromCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/checkout", h.Checkout)
			r.Post("/confirm", h.ConfirmOrder)
			r.Get("/{orderID}/invoice", h.GetInvoice)
		})
	})

	return otelhttp.NewHandler(r, "shop")
}
