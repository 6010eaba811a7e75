package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/feefines/internal/adapter/http"
	"github.com/iho/feefines/internal/adapter/http/handler"
	"github.com/iho/feefines/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/feefines/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/feefines/internal/adapter/repository/redis"
	"github.com/iho/feefines/internal/infrastructure/auth"
	"github.com/iho/feefines/internal/infrastructure/config"
	"github.com/iho/feefines/internal/infrastructure/eventpublisher"
	"github.com/iho/feefines/internal/infrastructure/logger"
	"github.com/iho/feefines/internal/infrastructure/metrics"
	"github.com/iho/feefines/internal/infrastructure/postgres"
	"github.com/iho/feefines/internal/infrastructure/rabbitmq"
	"github.com/iho/feefines/internal/infrastructure/redis"
	"github.com/iho/feefines/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "feefines",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	verifier, err := tokenVerifier(cfg)
	if err != nil {
		return err
	}

	// Migrations
	if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Event bus
	sink, closeSink, err := eventSink(cfg, log)
	if err != nil {
		return err
	}
	defer closeSink()

	dispatcher := eventpublisher.NewDispatcher(eventpublisher.Config{
		Sink:       sink,
		Recorder:   m,
		Logger:     log,
		BufferSize: cfg.EventBuffer,
	})
	dispatcherDone := make(chan error, 1)
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	go func() { dispatcherDone <- dispatcher.Run(dispatcherCtx) }()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	actionRepo := postgresRepo.NewActionRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(cfg.RetryMax).WithLogger(log)

	// Use cases
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, actionRepo, idGen)
	actionUC := usecase.NewActionUseCase(usecase.ActionUseCaseConfig{
		TxManager:   txManager,
		AccountRepo: accountRepo,
		ActionRepo:  actionRepo,
		IDGen:       idGen,
		Publisher:   dispatcher,
		Retrier:     retrier,
		Observer:    m,
		Logger:      &log,
	})
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, actionRepo)

	// Handlers
	healthHandler := handler.NewHealthHandler().
		AddCheck("postgres", pool.Ping).
		AddCheck("redis", func(ctx context.Context) error { return redis.Ping(ctx, redisClient) })

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:        handler.NewAccountHandler(accountUC),
		ActionHandler:         handler.NewActionHandler(actionUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         healthHandler,
		Logger:                log,
		Metrics:               m,
		Gatherer:              registry,
		IdempotencyStore:      redisRepo.NewIdempotencyStore(redisClient),
		IdempotencyTTL:        cfg.IdempotencyTTL,
		CORSAllowedOrigins:    cfg.CORSAllowedOrigins,
	}
	if verifier != nil {
		routerCfg.TokenVerifier = verifier
	}
	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).OnLimit(m.RateLimitHits.Inc)
		routerCfg.RateLimiter = limiter
		go cleanupLimiter(ctx, limiter, log)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Bool("auth", verifier != nil).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		stopDispatcher()
		<-dispatcherDone
		return err
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// In-flight requests are done; flush the events they queued.
	stopDispatcher()
	<-dispatcherDone

	log.Info().Msg("server stopped")
	return nil
}

// tokenVerifier returns nil when authentication is disabled.
func tokenVerifier(cfg *config.Config) (middleware.TokenVerifier, error) {
	if !cfg.AuthEnabled {
		return nil, nil
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("AUTH_ENABLED requires JWT_SECRET")
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration), nil
}

// eventSink returns the RabbitMQ publisher when AMQP_URL is set and a log sink otherwise.
func eventSink(cfg *config.Config, log zerolog.Logger) (eventpublisher.Sink, func(), error) {
	if cfg.AMQPURL == "" {
		log.Info().Msg("AMQP_URL not set, fee/fine events will be logged")
		return eventpublisher.NewLogPublisher(log), func() {}, nil
	}

	publisher, err := rabbitmq.Dial(cfg.AMQPURL, cfg.AMQPExchange, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close rabbitmq publisher")
		}
	}, nil
}

func cleanupLimiter(ctx context.Context, limiter *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := limiter.CleanupLimiters(time.Hour); removed > 0 {
				log.Debug().Int("removed", removed).Msg("dropped idle rate limiters")
			}
		}
	}
}
