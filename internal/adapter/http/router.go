package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/adk/bankledger/internal/adapter/http/handler"
	"github.com/adk/bankledger/internal/adapter/http/middleware"
	"github.com/adk/bankledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	LedgerHandler      *handler.LedgerHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	Logger             zerolog.Logger
	RateLimit          float64
	RateBurst          int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)

	if cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Post("/{id}/close", cfg.AccountHandler.Close)
			r.Get("/{id}/balance", cfg.LedgerHandler.GetBalance)
			r.Get("/{id}/ledger", cfg.LedgerHandler.ListEntries)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListByAccount)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/deposit", cfg.TransactionHandler.Deposit)
			r.Post("/withdraw", cfg.TransactionHandler.Withdraw)
			r.Post("/transfer", cfg.TransactionHandler.Transfer)
			r.Get("/{id}", cfg.TransactionHandler.Get)
		})
	})

	return r
}
