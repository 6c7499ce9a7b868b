package migrations

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	body, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer body.Close()

	sql, err := io.ReadAll(body)
	require.NoError(t, err)
	for _, table := range []string{"daily_bars", "market_breadth", "short_interest", "investor_flow", "financial_snapshot"} {
		assert.Contains(t, string(sql), "data."+table)
	}
}

func TestRunner_UpDown(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - set TEST_DATABASE_URL")
	}

	r, err := New(url)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Up())
	v, dirty, err := r.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)

	// idempotent
	require.NoError(t, r.Up())
}
