package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Tomlord1122/gql-todo/internal/config"
	"github.com/Tomlord1122/gql-todo/internal/database"
	"github.com/Tomlord1122/gql-todo/internal/graph"
	"github.com/Tomlord1122/gql-todo/internal/server"
	"github.com/Tomlord1122/gql-todo/internal/storage"
)

func gracefulShutdown(logger *slog.Logger, apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the request it is currently handling
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if dbService != nil {
		logger.Info("closing database connection pool", "database", dbService.Name())
		if err := dbService.Close(); err != nil {
			logger.Error("closing database connection pool", "database", dbService.Name(), "error", err)
		} else {
			logger.Info("database connection pool closed")
		}
	}

	logger.Info("server exiting")
	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// 1. Storage
	var (
		dbService database.Service
		store     storage.Provider
	)
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("using in-memory storage, data is lost on exit")
		store = storage.NewMemoryStore()
	} else {
		dbService, err = database.New(cfg.Database)
		if err != nil {
			logger.Error("connecting to database", "driver", cfg.Database.Driver, "error", err)
			os.Exit(1)
		}

		logger.Info("running database auto-migration")
		if err := dbService.Migrate(); err != nil {
			logger.Error("auto-migrating database", "error", err)
			os.Exit(1)
		}
		store = storage.NewGormProvider(dbService.GetDB())
	}

	// 2. GraphQL schema
	schema, err := graph.NewSchema(logger)
	if err != nil {
		logger.Error("building graphql schema", "error", err)
		os.Exit(1)
	}

	// 3. HTTP server
	apiServer := server.NewServer(server.Options{
		Port:     cfg.Port,
		GraphiQL: cfg.GraphiQL,
		Logger:   logger,
	}, schema, store, dbService)

	done := make(chan bool, 1)
	go gracefulShutdown(logger, apiServer, dbService, done)

	logger.Info("starting server", "addr", apiServer.Addr, "env", cfg.Env, "driver", cfg.Database.Driver)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server stopped", "error", err)
		os.Exit(1)
	}

	<-done
	logger.Info("graceful shutdown complete")
}
