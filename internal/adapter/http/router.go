package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/feefines/internal/adapter/http/handler"
	"github.com/iho/feefines/internal/adapter/http/middleware"
	"github.com/iho/feefines/internal/domain"
	"github.com/iho/feefines/internal/infrastructure/metrics"
	"github.com/iho/feefines/internal/usecase"
)

// debitActions can be applied to one fee/fine or checked in advance.
var debitActions = []domain.ActionType{
	domain.ActionTypePay,
	domain.ActionTypeWaive,
	domain.ActionTypeTransfer,
}

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler        *handler.AccountHandler
	ActionHandler         *handler.ActionHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler

	Logger             zerolog.Logger
	Metrics            *metrics.Metrics
	Gatherer           prometheus.Gatherer
	RateLimiter        *middleware.RateLimiter
	TokenVerifier      middleware.TokenVerifier
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	CORSAllowedOrigins []string
}

// NewRouter creates a new HTTP router. Authentication is enforced only when a
// TokenVerifier is configured.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
			ExposedHeaders:   []string{middleware.IdempotencyReplayHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.TokenVerifier != nil {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))
		}
		if cfg.IdempotencyStore != nil {
			opts := []middleware.IdempotencyOption{
				middleware.WithIdempotencyTTL(cfg.IdempotencyTTL),
				middleware.WithIdempotencyLogger(cfg.Logger),
			}
			if cfg.Metrics != nil {
				opts = append(opts, middleware.WithReplayHook(cfg.Metrics.IdempotentHit.Inc))
			}
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, opts...).Wrap)
		}

		guard := func(t domain.ActionType) func(http.Handler) http.Handler {
			if cfg.TokenVerifier == nil {
				return func(next http.Handler) http.Handler { return next }
			}
			return middleware.RequireAction(t)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.With(guard(domain.ActionTypeCharge)).Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/actions", cfg.AccountHandler.ListActions)
			r.Get("/{id}/refund-targets", cfg.ActionHandler.RefundTargets)
			r.Get("/{id}/reconcile", cfg.ReconciliationHandler.ReconcileAccount)

			for _, t := range append(debitActions, domain.ActionTypeCancel, domain.ActionTypeRefund) {
				r.With(guard(t)).Post("/{id}/"+string(t), cfg.ActionHandler.Apply(t))
			}
			for _, t := range append(debitActions, domain.ActionTypeRefund) {
				r.Post("/{id}/check-"+string(t), cfg.ActionHandler.Check(t))
			}
		})

		r.Route("/accounts-bulk", func(r chi.Router) {
			for _, t := range append(debitActions, domain.ActionTypeRefund) {
				r.With(guard(t)).Post("/"+string(t), cfg.ActionHandler.ApplyBulk(t))
				r.Post("/check-"+string(t), cfg.ActionHandler.CheckBulk(t))
			}
		})

		r.Get("/reconciliation", cfg.ReconciliationHandler.Report)
	})

	return r
}
