package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradex/exchange-service/internal/auth"
)

// RouterConfig carries the security settings of the HTTP surface.
type RouterConfig struct {
	AllowedOrigins []string
	InternalAPIKey string
	Authenticator  *auth.Authenticator
	Gate           *auth.Gate
}

// NewRouter creates the chi router for every exchange route.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Internal-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// The websocket stream is long-lived, so it sits outside the timeout group.
	r.With(SessionMiddleware).Get("/api/flash/stream", h.handleFlashStream(newUpgrader(cfg.AllowedOrigins)))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Route("/internal/events", func(r chi.Router) {
			r.Use(InternalAuthMiddleware(cfg.InternalAPIKey))
			r.Get("/bindings", h.handleListEventBindings)
			r.Post("/{kind}", h.handleDispatchEvent)
		})

		r.Route("/api/flash", func(r chi.Router) {
			r.Use(SessionMiddleware)
			r.Get("/", h.handleListFlash)
			r.With(limitBySession(h.pushLimiter)).Post("/", h.handlePushFlash)
			r.Delete("/", h.handleClearFlash)
			r.Delete("/{id}", h.handleRemoveFlash)
		})

		r.Get("/api/markets", h.handleListMarkets)

		r.Group(func(r chi.Router) {
			r.Use(cfg.Authenticator.Middleware)

			r.Get("/api/onboarding", h.handleGetOnboarding)
			r.Put("/api/onboarding", h.handleCompleteOnboarding)
			r.Delete("/api/onboarding", h.handleResetOnboarding)

			r.Route("/api/admin", func(r chi.Router) {
				r.With(cfg.Gate.Authorize(auth.AbilityViewWalletAddresses)).Get("/wallet-addresses", h.handleListWalletAddresses)
				r.With(cfg.Gate.Authorize(auth.AbilityImportWalletAddresses)).Post("/wallet-addresses/import", h.handleImportWalletAddresses)
				r.With(cfg.Gate.Authorize(auth.AbilityAdmin)).Get("/event-bindings", h.handleListEventBindings)
			})
		})
	})

	return r
}
