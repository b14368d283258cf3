package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sanoria/pricingservice/internal/auth"
	"github.com/sanoria/pricingservice/internal/cart"
	"github.com/sanoria/pricingservice/internal/config"
	"github.com/sanoria/pricingservice/internal/events"
	"github.com/sanoria/pricingservice/internal/log"
	"github.com/sanoria/pricingservice/internal/metrics"
	"github.com/sanoria/pricingservice/internal/pricing"
	"github.com/sanoria/pricingservice/internal/promotion"
	promopg "github.com/sanoria/pricingservice/internal/promotion/postgres"
	"github.com/sanoria/pricingservice/internal/server"
	"github.com/sanoria/pricingservice/internal/shipping"
	"github.com/sanoria/pricingservice/internal/tracing"
)

// App wires the pricing service together and manages its lifecycle
type App struct {
	cfg       *config.Config
	catalog   promotion.Catalog
	carts     *cart.RedisStore
	publisher events.Publisher
	apiServer *http.Server
	metricsrv *metrics.Server
	cleanup   []func()
}

// New builds the application from configuration. It connects to every
// configured dependency up front so a misconfigured deployment fails fast.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(tracing.Config{
			ServiceName:    cfg.AppName,
			ServiceVersion: "1.0.0",
			Environment:    "production",
			JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
			SamplingRatio:  cfg.Tracing.SamplingRatio,
		}, log.L(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		a.cleanup = append(a.cleanup, shutdown)
	}

	catalog, err := a.newCatalog(ctx)
	if err != nil {
		return nil, err
	}
	a.catalog = catalog

	carts, err := cart.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Cart.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cart store: %w", err)
	}
	a.carts = carts

	publisher, err := a.newPublisher(ctx)
	if err != nil {
		return nil, err
	}
	a.publisher = publisher

	var validator *auth.TokenValidator
	if cfg.Auth.AdminTokenSecret != "" {
		validator, err = auth.NewTokenValidator(cfg.Auth.AdminTokenSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to create admin token validator: %w", err)
		}
	} else {
		log.Warn(ctx, "admin token secret not configured; admin API is disabled")
	}

	engine := pricing.NewEngine(catalog)
	rates := shipping.NewDefaultRateTable()
	handler := server.NewHandler(engine, catalog, rates, carts, publisher)

	a.apiServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.NewRouter(handler, validator),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	a.metricsrv = metrics.NewServer(cfg.Metrics.Addr, carts.Ping, log.L(ctx))

	return a, nil
}

// Run starts the servers and blocks until shutdown completes
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		log.Info(ctx, "starting API server", zap.String("addr", a.apiServer.Addr))
		if err := a.apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server error: %w", err)
		}
	}()
	go func() {
		if err := a.metricsrv.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "failed to shut down API server", zap.Error(err))
	}
	if err := a.metricsrv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "failed to shut down metrics server", zap.Error(err))
	}
	a.Close()
	return nil
}

// Close releases every held resource
func (a *App) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			log.Error(context.Background(), "failed to close event publisher", zap.Error(err))
		}
	}
	if a.carts != nil {
		if err := a.carts.Close(); err != nil {
			log.Error(context.Background(), "failed to close cart store", zap.Error(err))
		}
	}
	if closer, ok := a.catalog.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error(context.Background(), "failed to close promotion store", zap.Error(err))
		}
	}
	for _, fn := range a.cleanup {
		fn()
	}
}

// newCatalog selects the promotion catalog backend. With no Postgres DSN
// the service runs on the seeded in-memory table.
func (a *App) newCatalog(ctx context.Context) (promotion.Catalog, error) {
	if a.cfg.Postgres.DSN == "" {
		log.Info(ctx, "postgres not configured; using seeded in-memory promotion catalog")
		return promotion.NewSeededCatalog(), nil
	}

	store, err := promopg.NewStore(ctx, a.cfg.Postgres.DSN, a.cfg.Postgres.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to promotion store: %w", err)
	}
	log.Info(ctx, "connected to promotion store")
	return store, nil
}

// newPublisher selects the event publisher backend
func (a *App) newPublisher(ctx context.Context) (events.Publisher, error) {
	if !a.cfg.KafkaEnabled() {
		log.Info(ctx, "kafka not configured; event publishing disabled")
		return events.NoopPublisher{}, nil
	}

	publisher, err := events.NewKafkaPublisher(a.cfg.Kafka.Brokers, a.cfg.Kafka.Topic, log.L(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}
	log.Info(ctx, "connected to Kafka",
		zap.Strings("brokers", a.cfg.Kafka.Brokers),
		zap.String("topic", a.cfg.Kafka.Topic))
	return publisher, nil
}
