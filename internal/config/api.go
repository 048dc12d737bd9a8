package config

import (
	"fmt"
	"os"
	"time"
)

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendPostgres Backend = "postgres"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultStoreBackend    = string(BackendMemory)
	defaultDataDir         = "data"
	defaultMigrationsPath  = "migrations/store"
	defaultShutdownTimeout = 10 * time.Second

	defaultDBMaxOpenConns    = 25
	defaultDBMaxIdleConns    = 5
	defaultDBConnMaxLifetime = 5 * time.Minute
	defaultDBPingTimeout     = 5 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
)

type API struct {
	HTTPAddr     string
	StoreBackend Backend

	// file backend
	DataDir string

	// postgres backend
	DatabaseURL       string
	MigrationsPath    string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBPingTimeout     time.Duration

	// empty disables event publishing
	RabbitMQURL string

	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

func LoadAPI() (API, error) {
	cfg := API{
		HTTPAddr:          getEnv("HTTP_ADDR", defaultHTTPAddr),
		StoreBackend:      Backend(getEnv("STORE_BACKEND", defaultStoreBackend)),
		DataDir:           getEnv("DATA_DIR", defaultDataDir),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", defaultMigrationsPath),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		ShutdownTimeout:   defaultShutdownTimeout,
		DBMaxOpenConns:    defaultDBMaxOpenConns,
		DBMaxIdleConns:    defaultDBMaxIdleConns,
		DBConnMaxLifetime: defaultDBConnMaxLifetime,
		DBPingTimeout:     defaultDBPingTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}

	switch cfg.StoreBackend {
	case BackendMemory, BackendFile:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return API{}, fmt.Errorf("DATABASE_URL is required for the postgres store backend")
		}
	default:
		return API{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
