// Package http exposes the session engine over a chi HTTP API.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront-session/internal/session"
	"github.com/utafrali/storefront-session/pkg/health"
	"github.com/utafrali/storefront-session/pkg/middleware"
)

// NewRouter creates a chi router with all session service routes registered.
// enableCORS mounts the permissive development CORS middleware and must stay
// off in production.
func NewRouter(
	manager *session.Manager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	enableCORS bool,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	if enableCORS {
		r.Use(CORS)
	}
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("session"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Session API endpoints
	sessionHandler := NewSessionHandler(manager, logger)

	r.Route("/api/v1/session", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", sessionHandler.GetSnapshot)

		r.Post("/login", sessionHandler.Login)
		r.Post("/logout", sessionHandler.Logout)

		r.Post("/wishlist/refresh", sessionHandler.RefreshWishlist)
		r.Post("/wishlist/{productID}/toggle", sessionHandler.ToggleLike)

		r.Post("/cart/items", sessionHandler.AddItem)
		r.Put("/cart/items/{productID}", sessionHandler.UpdateItemQuantity)
		r.Delete("/cart/items/{productID}", sessionHandler.RemoveItem)
		r.Delete("/cart", sessionHandler.ClearCart)

		r.Post("/checkout", sessionHandler.Checkout)
	})

	return r
}
