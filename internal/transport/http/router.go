package http

import (
	"net/http"

	"github.com/crypto-notifier/internal/config"
	"github.com/crypto-notifier/internal/metrics"
	"github.com/crypto-notifier/internal/transport/http/handler"
	appmiddleware "github.com/crypto-notifier/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	signupMw := func(next http.Handler) http.Handler { return next }
	if deps.SignupLimiter != nil {
		signupMw = deps.SignupLimiter.Limit
	}

	subH := handler.NewSubscriptionHandler(deps.Notifications)
	healthH := handler.NewHealthHandler(deps.Notifications)

	r.Get("/", subH.Index)
	r.With(signupMw).Post("/", subH.Request)
	r.Get("/confirm", subH.Confirm)
	r.Get("/cancel", subH.Cancel)

	r.Get("/health-check/{action}", healthH.Ping)
	r.Get("/health", healthH.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
