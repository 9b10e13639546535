// Package app wires together all dependencies and runs the session service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront-session/internal/config"
	"github.com/utafrali/storefront-session/internal/event"
	"github.com/utafrali/storefront-session/internal/gateway"
	handler "github.com/utafrali/storefront-session/internal/handler/http"
	"github.com/utafrali/storefront-session/internal/session"
	"github.com/utafrali/storefront-session/internal/storage"
	"github.com/utafrali/storefront-session/internal/storage/memory"
	redisstore "github.com/utafrali/storefront-session/internal/storage/redis"
	"github.com/utafrali/storefront-session/pkg/health"
	"github.com/utafrali/storefront-session/pkg/httpclient"
	pkgkafka "github.com/utafrali/storefront-session/pkg/kafka"
)

var sessionMutations = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "session_mutations_total",
	Help: "Total number of applied session state mutations",
})

func init() {
	prometheus.MustRegister(sessionMutations)
}

// App holds the service's long-lived components.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	manager    *session.Manager
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Session store. An empty Redis address selects the in-memory store,
	// which loses all sessions on restart and is only meant for local
	// development.
	sessionTTL := time.Duration(cfg.SessionTTL) * time.Hour

	var store storage.Store
	var rdb *redis.Client
	if cfg.RedisAddr == "" {
		store = memory.NewStore()
		logger.Warn("no redis address configured, using in-memory session store")
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})

		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		store = redisstore.NewStore(rdb, sessionTTL)
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Storefront API gateway. No automatic retries: failures surface to the
	// session engine, which falls back to local state.
	gwTimeout := time.Duration(cfg.GatewayTimeoutSeconds) * time.Second
	baseClient := httpclient.New(httpclient.NoRetryConfig(gwTimeout))

	var doer gateway.HTTPDoer = baseClient
	if cfg.GatewayBreakerEnabled {
		doer = httpclient.NewCircuitBreakerClient(
			baseClient,
			httpclient.DefaultCircuitBreakerConfig("storefront-api"),
			logger,
		)
	}
	gw := gateway.NewClient(cfg.StorefrontAPIURL, doer, logger)

	// Build the dependency graph.
	sink := event.NewProducer(producer)
	manager := session.NewManager(store, gw, sink, logger)

	manager.OnChange(func(snap session.Snapshot) {
		sessionMutations.Inc()
		logger.Debug("session state changed",
			slog.String("session_id", snap.SessionID),
			slog.Bool("authenticated", snap.Identity.Authenticated),
			slog.Int("wishlist_size", len(snap.Wishlist)),
			slog.Int("cart_items", snap.Cart.ItemCount()),
		)
	})

	// Resident session gauge. Register may run more than once in tests.
	residentSessions := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "session_resident_total",
		Help: "Number of sessions currently resident in memory",
	}, func() float64 { return float64(manager.Count()) })
	if err := prometheus.Register(residentSessions); err != nil {
		logger.Warn("register session gauge failed", slog.String("error", err.Error()))
	}

	// Health checks.
	healthHandler := health.NewHandler()
	if rdb != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router. CORS is only for local development against a browser.
	router := handler.NewRouter(manager, healthHandler, logger, cfg.Environment == "development")

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		rdb:        rdb,
		producer:   producer,
		manager:    manager,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	// Close Redis client when one is in use.
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
