package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"

	_ "github.com/Nageshwar-Bedge/backend-ecommerce-api/docs"
	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/config"
	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop"
	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop/catalog"
	shophttp "github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop/http"
	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop/messaging"
	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop/orders"
	"github.com/Nageshwar-Bedge/backend-ecommerce-api/internal/shop/store"
)

const (
	metricProductsCreated = "products_created_total"
	metricOrdersCreated   = "orders_created_total"
	migrateSourcePrefix   = "file://"
	postgresDriverName    = "postgres"
)

// @title        E-Commerce API
// @version      1.0
// @description  Product catalog and order management backend.
// @host         localhost:8080
// @BasePath     /
func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadAPI()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	st, cleanup, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("open store", "backend", string(cfg.StoreBackend), "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var publisher catalog.Publisher = messaging.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		rabbitConn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("connect rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitConn.Close()

		rabbitPub, err := messaging.NewRabbitPublisher(rabbitConn, shop.EventsQueue)
		if err != nil {
			logger.Error("init publisher", "error", err)
			os.Exit(1)
		}
		defer rabbitPub.Close()
		publisher = rabbitPub
	} else {
		logger.Info("RABBITMQ_URL not set, event publishing disabled")
	}

	productsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricProductsCreated,
		Help: "Total number of products created",
	})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricOrdersCreated,
		Help: "Total number of orders created",
	})
	prometheus.MustRegister(productsCreated, ordersCreated)

	catalogSvc := catalog.New(st, publisher, logger, productsCreated)
	orderSvc := orders.New(st, catalogSvc, publisher, logger, ordersCreated)
	handler := shophttp.NewHandler(catalogSvc, orderSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(shophttp.RequestIDMiddleware())
	router.Use(shophttp.AccessLogMiddleware(logger))
	shophttp.RegisterRoutes(router, handler, st)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api service started", "addr", cfg.HTTPAddr, "backend", string(cfg.StoreBackend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("http server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("api service stopped")
}

func openStore(cfg config.API, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemory(), func() {}, nil

	case config.BackendFile:
		st, err := store.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil

	case config.BackendPostgres:
		if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, nil, err
		}

		db, err := sql.Open(postgresDriverName, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
		db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

		pingCtx, cancel := context.WithTimeout(context.Background(), cfg.DBPingTimeout)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Error("close database", "error", err)
			}
		}
		return store.NewPostgres(db), cleanup, nil
	}
	return nil, nil, errors.New("unknown store backend")
}

func runMigrations(databaseURL, migrationsPath string) error {
	m, err := migrate.New(migrateSourcePrefix+migrationsPath, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
