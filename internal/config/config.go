package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	defaultEnv           = "development"
	defaultPort          = "8080"
	defaultDataDir       = "data"
	defaultDBPath        = "./catalog.db"
	defaultLogLevel      = "info"
	defaultLogFormat     = "json"
	defaultCompanyName   = "Akbarifar MRO"
	defaultCatalogSource = SourceCSV
)

// Catalog sources.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	Port          string
	DataDir       string
	CatalogSource string
	DBPath        string
	LogLevel      string
	LogFormat     string
	CompanyName   string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg := Config{
		Env:           getEnv("APP_ENV", defaultEnv),
		Port:          getEnv("PORT", defaultPort),
		DataDir:       getEnv("DATA_DIR", defaultDataDir),
		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", defaultCatalogSource)),
		DBPath:        getEnv("DB_PATH", defaultDBPath),
		LogLevel:      getEnv("LOG_LEVEL", defaultLogLevel),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat)),
		CompanyName:   getEnv("COMPANY_NAME", defaultCompanyName),
	}

	if os.Getenv("DATA_DIR") == "" && cfg.CatalogSource == SourceCSV {
		slog.Warn("DATA_DIR is not set, using default", "data_dir", cfg.DataDir)
	}

	return cfg
}

// IsDev reports whether the application runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == defaultEnv || c.Env == "dev"
}

// Validate checks values that have a closed set of options.
func (c Config) Validate() error {
	switch c.CatalogSource {
	case SourceCSV, SourceSQLite:
	default:
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q", SourceCSV, SourceSQLite, c.CatalogSource)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}

	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
