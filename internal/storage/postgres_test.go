package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"

	"github.com/Tomlord1122/gql-todo/internal/config"
	"github.com/Tomlord1122/gql-todo/internal/database"
	"github.com/Tomlord1122/gql-todo/internal/domain"
)

// startPostgres runs a throwaway Postgres container and returns a migrated service.
func startPostgres(t *testing.T) database.Service {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("todos"),
		tcpostgres.WithUsername("todo"),
		tcpostgres.WithPassword("todo"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	svc, err := database.Open(postgres.Open(dsn), "todos", config.Database{
		MaxIdleConns:    2,
		MaxOpenConns:    5,
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Migrate())
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestGormContext_Postgres(t *testing.T) {
	svc := startPostgres(t)

	// Each subtest gets a clean table on the shared container.
	runContextSuite(t, func(t *testing.T) Provider {
		require.NoError(t, svc.GetDB().Exec("TRUNCATE todos RESTART IDENTITY").Error)
		return NewGormProvider(svc.GetDB())
	})

	assert.Equal(t, "up", svc.Health()["status"])
}

func TestGormContext_PostgresColumnLimit(t *testing.T) {
	svc := startPostgres(t)
	ctx := context.Background()

	sc := NewGormProvider(svc.GetDB()).NewContext()
	sc.Add(&domain.Todo{UserID: 1, Title: "ok"})
	sc.Add(&domain.Todo{UserID: 1, Title: strings.Repeat("x", domain.MaxTitleLength+1)})

	err := sc.Flush(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.Equal(t, "22001", SQLState(err))

	all, err := NewGormProvider(svc.GetDB()).NewContext().All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
