package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelmondragon/gestor-pedidos/api/routes"
	"github.com/angelmondragon/gestor-pedidos/internal/auth"
	"github.com/angelmondragon/gestor-pedidos/internal/catalog"
	"github.com/angelmondragon/gestor-pedidos/internal/customers"
	"github.com/angelmondragon/gestor-pedidos/internal/dashboard"
	"github.com/angelmondragon/gestor-pedidos/internal/orders"
	"github.com/angelmondragon/gestor-pedidos/internal/products"
	"github.com/angelmondragon/gestor-pedidos/internal/reports"
	"github.com/angelmondragon/gestor-pedidos/internal/stock"
	"github.com/angelmondragon/gestor-pedidos/pkg/auth/session"
	"github.com/angelmondragon/gestor-pedidos/pkg/config"
	"github.com/angelmondragon/gestor-pedidos/pkg/db"
	"github.com/angelmondragon/gestor-pedidos/pkg/events"
	"github.com/angelmondragon/gestor-pedidos/pkg/instance"
	"github.com/angelmondragon/gestor-pedidos/pkg/logger"
	"github.com/angelmondragon/gestor-pedidos/pkg/metrics"
	"github.com/angelmondragon/gestor-pedidos/pkg/migrate"
	"github.com/angelmondragon/gestor-pedidos/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	orderMetrics := metrics.NewOrderMetrics(registry)

	deps := routes.Deps{
		DB:             dbClient,
		HTTPMetrics:    metrics.NewHTTPMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	var (
		sessions      *session.Manager
		criticalCache reports.CriticalCache
		stockCache    stock.Invalidator
	)
	if cfg.Redis.Enabled() {
		redisClient, redisErr := redis.New(ctx, cfg.Redis, logg)
		if redisErr != nil {
			return redisErr
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()

		sessions, err = session.NewManager(redisClient, cfg.JWT)
		if err != nil {
			return err
		}
		cache := reports.NewRedisCriticalCache(redisClient, cfg.Reports.CriticalCacheTTL, logg)
		criticalCache, stockCache = cache, cache

		deps.Redis = redisClient
		deps.Sessions = sessions
		deps.RateLimits = redisClient
		deps.Idempotency = redisClient
	} else {
		logg.Warn(ctx, "redis disabled: sessions, rate limits and idempotency are off")
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.Kafka.Enabled() {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka, logg)
		kafkaPublisher.Start(ctx)
		defer func() { err = multierr.Append(err, kafkaPublisher.Close()) }()
		publisher = kafkaPublisher
	}

	conn := dbClient.DB()

	stockService, err := stock.NewService(stock.ServiceParams{
		Repo:      stock.NewRepository(conn),
		Tx:        dbClient,
		Logger:    logg,
		Metrics:   orderMetrics,
		Publisher: publisher,
		Cache:     stockCache,
	})
	if err != nil {
		return err
	}
	deps.Stock = stockService

	deps.Orders, err = orders.NewService(orders.ServiceParams{
		Repo:             orders.NewRepository(conn),
		Tx:               dbClient,
		Stock:            stockService,
		Logger:           logg,
		Metrics:          orderMetrics,
		Publisher:        publisher,
		GuardedDecrement: cfg.FeatureFlags.GuardedStockDecrement,
	})
	if err != nil {
		return err
	}

	deps.Reports, err = reports.NewService(reports.ServiceParams{
		Repo:   reports.NewRepository(conn),
		Cache:  criticalCache,
		Logger: logg,
	})
	if err != nil {
		return err
	}

	deps.Products, err = products.NewService(products.ServiceParams{
		Repo:   products.NewRepository(conn),
		Tx:     dbClient,
		Logger: logg,
		Cache:  stockCache,
	})
	if err != nil {
		return err
	}

	deps.Customers, err = customers.NewService(customers.NewRepository(conn), logg)
	if err != nil {
		return err
	}

	authParams := auth.ServiceParams{
		Repo:      auth.NewRepository(conn),
		JWTConfig: cfg.JWT,
		Password:  cfg.Password,
		Logger:    logg,
	}
	if sessions != nil {
		authParams.Sessions = sessions
	}
	deps.Auth, err = auth.NewService(authParams)
	if err != nil {
		return err
	}

	if deps.Dashboard, err = dashboard.NewService(conn); err != nil {
		return err
	}
	if deps.Catalog, err = catalog.NewService(conn); err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.ID(),
		"driver":   dbClient.Dialect(),
		"version":  cfg.App.Version,
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(cfg, logg, deps),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
