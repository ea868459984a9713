package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"dappvotes/internal/container"
	"dappvotes/internal/middleware"
)

// NewRouter builds the HTTP routes over the container's ledger
func NewRouter(c *container.Container, validator middleware.TokenValidator) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()

	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.CORSConfigFor(cfg.AllowedOrigins), log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	healthHandler := NewHealthHandler(c.GetLedger(), cfg.StoreDriver, log)
	pollHandler := NewPollHandler(c.GetLedger(), log)

	r.Get("/health", healthHandler.Check)

	r.Route("/api/v1", func(r chi.Router) {
		pollHandler.RegisterRoutes(r, middleware.Auth(validator, log))
	})

	return r
}
