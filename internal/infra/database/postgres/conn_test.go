package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
	"github.com/wonny/quantdiag/internal/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - set TEST_DATABASE_URL")
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Database.URL = url
	cfg.Logging.FileEnabled = false
	return cfg
}

func TestNewPool(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	assert.NoError(t, pool.Ping(ctx))
}

func TestPool_Health(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	health := pool.Health(ctx)
	assert.Equal(t, postgres.StatusHealthy, health.Status)
	assert.Greater(t, health.MaxConns, int32(0))
	assert.True(t, pool.IsHealthy(ctx))
}

func TestNewPool_BadURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.URL = "::not a url::"

	_, err := postgres.NewPool(context.Background(), cfg)
	assert.Error(t, err)
}
