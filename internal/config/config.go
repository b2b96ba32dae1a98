package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Port     int
	Env      string
	LogLevel slog.Level
	GraphiQL bool
	Database Database
}

// Database holds connection and pool settings.
type Database struct {
	Driver          string
	Host            string
	Port            string
	Username        string
	Password        string
	Name            string
	Schema          string
	SSLMode         string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogSQL          bool
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real env vars win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := GetEnv("APP_ENV", "development")
	cfg := &Config{
		Env:      env,
		GraphiQL: GetBool("GRAPHIQL", env == "development"),
		Database: Database{
			Driver:       strings.ToLower(GetEnv("DB_DRIVER", DriverPostgres)),
			Host:         GetEnv("BLUEPRINT_DB_HOST", "localhost"),
			Port:         GetEnv("BLUEPRINT_DB_PORT", "5432"),
			Username:     GetEnv("BLUEPRINT_DB_USERNAME", ""),
			Password:     GetEnv("BLUEPRINT_DB_PASSWORD", ""),
			Name:         GetEnv("BLUEPRINT_DB_DATABASE", ""),
			Schema:       GetEnv("BLUEPRINT_DB_SCHEMA", ""),
			SSLMode:      GetEnv("BLUEPRINT_DB_SSLMODE", "disable"),
			SQLitePath:   GetEnv("SQLITE_PATH", "todos.db"),
			MaxIdleConns: 10,
			MaxOpenConns: 100,
			LogSQL:       GetBool("DB_LOG_SQL", false),
		},
	}

	var err error
	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.Database.MaxIdleConns, err = getInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns); err != nil {
		return nil, err
	}
	if cfg.Database.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns); err != nil {
		return nil, err
	}
	if cfg.Database.ConnMaxLifetime, err = time.ParseDuration(GetEnv("DB_CONN_MAX_LIFETIME", "1h")); err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(GetEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	switch cfg.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}

// DSN builds the Postgres connection string.
func (d Database) DSN() string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.Username, d.Password, d.Name, d.Port, d.SSLMode)
	if d.Schema != "" {
		dsn += " search_path=" + d.Schema
	}
	return dsn
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(GetEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
