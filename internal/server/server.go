package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/Tomlord1122/gql-todo/internal/database"
	"github.com/Tomlord1122/gql-todo/internal/storage"
)

// Options configures the HTTP server.
type Options struct {
	Port     int
	GraphiQL bool
	Logger   *slog.Logger
}

type Server struct {
	port     int
	graphiql bool
	schema   graphql.Schema
	store    storage.Provider
	db       database.Service // nil when running on the in-memory store
	logger   *slog.Logger
}

// NewServer wires the GraphQL schema and storage into an *http.Server.
func NewServer(opts Options, schema graphql.Schema, store storage.Provider, dbService database.Service) *http.Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	port := opts.Port
	if port == 0 {
		port = 8080
	}

	appServer := &Server{
		port:     port,
		graphiql: opts.GraphiQL,
		schema:   schema,
		store:    store,
		db:       dbService,
		logger:   logger,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
