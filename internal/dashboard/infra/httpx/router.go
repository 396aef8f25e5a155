package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/printhub/internal/dashboard/infra/httpx/middlewares"
)

// NewRouter mounts the dashboard and cart routes. metrics may be nil.
// timeout bounds every route except the status update, which is never cut
// short once issued.
func NewRouter(handler *Handler, metrics http.Handler, timeout time.Duration) http.Handler {
	bounded := func(r chi.Router) {
		if timeout > 0 {
			r.Use(middleware.Timeout(timeout))
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		bounded(r)
		r.Get("/health", handler.Health)
		if metrics != nil {
			r.Handle("/metrics", metrics)
		}
		r.Get("/products", handler.ListProducts)
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Patch("/users/{userID}/orders/{orderKey}/status", handler.UpdateStatus)

		r.Group(func(r chi.Router) {
			bounded(r)
			r.Post("/refresh", handler.Refresh)
			r.Get("/orders", handler.ListOrders)
			r.Post("/orders/more", handler.LoadMore)
			r.Get("/summary", handler.Summary)
			r.Get("/users/{userID}/orders/{orderKey}", handler.GetOrder)
			r.Get("/users/{userID}/orders/{orderKey}/history", handler.History)
		})
	})

	r.Route("/carts/{phone}", func(r chi.Router) {
		bounded(r)
		r.Get("/", handler.GetCart)
		r.Post("/items", handler.AddToCart)
		r.Patch("/items/{id}/quantity", handler.SetQuantity)
		r.Delete("/items/{id}", handler.RemoveItem)
		r.Post("/items/{id}/toggle", handler.ToggleSelect)
		r.Post("/select-all", handler.SelectAll)
		r.Post("/deselect-all", handler.DeselectAll)
		r.Post("/checkout", handler.Checkout)
	})
	return r
}
