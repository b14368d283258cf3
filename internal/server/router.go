package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sanoria/pricingservice/internal/auth"
)

// NewRouter builds the storefront API router. validator may be nil, in
// which case the admin routes reject every request.
func NewRouter(handler *Handler, validator *auth.TokenValidator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogging)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/quote", handler.Quote)
		r.Get("/shipping-options", handler.ShippingOptions)

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", handler.CreateCart)
			r.Get("/{sessionID}", handler.GetCart)
			r.Put("/{sessionID}", handler.SaveCart)
			r.Delete("/{sessionID}", handler.ClearCart)
		})

		r.Route("/admin/promotions", func(r chi.Router) {
			r.Use(AdminOnly(validator))
			r.Get("/", handler.ListPromotions)
			r.Post("/", handler.UpsertPromotion)
			r.Delete("/{code}", handler.DeletePromotion)
		})
	})

	return r
}
