package market_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/database/migrations"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
	"github.com/wonny/quantdiag/internal/infra/database/postgres/market"
	"github.com/wonny/quantdiag/internal/pkg/config"
)

// setupPool migrates TEST_DATABASE_URL and truncates the data tables.
func setupPool(t *testing.T) *postgres.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - set TEST_DATABASE_URL")
	}

	runner, err := migrations.New(url)
	require.NoError(t, err)
	require.NoError(t, runner.Up())
	require.NoError(t, runner.Close())

	cfg := &config.Config{}
	cfg.Database.URL = url
	cfg.Database.MaxConns = 4
	cfg.Database.MinConns = 1
	cfg.Database.MaxConnLifetime = time.Hour
	cfg.Database.MaxConnIdleTime = time.Minute

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE data.daily_bars, data.market_breadth, data.short_interest,
		data.investor_flow, data.financial_snapshot`)
	require.NoError(t, err)
	return pool
}

var day0 = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func TestBarRepository(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	repo := market.NewBarRepository(pool)

	bars := make([]domain.DailyBar, 5)
	for i := range bars {
		p := 100 + float64(i)
		bars[i] = domain.DailyBar{StockCode: "005930", Date: day0.AddDate(0, 0, i), Open: p, High: p + 1, Low: p - 1, Close: p, Volume: 1000}
	}
	n, err := repo.UpsertBatch(ctx, bars)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// re-upsert overwrites
	bars[4].Close = 200
	_, err = repo.UpsertBatch(ctx, bars[4:])
	require.NoError(t, err)

	got, err := repo.GetRecent(ctx, "005930", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Date.Before(got[2].Date))
	assert.Equal(t, 200.0, got[2].Close)

	_, err = repo.GetRecent(ctx, "000000", 3)
	assert.ErrorIs(t, err, domain.ErrBarsNotFound)
}

func TestBreadthRepository(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	repo := market.NewBreadthRepository(pool)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Upsert(ctx, &domain.MarketBreadth{
			Market:     domain.KOSPI,
			Date:       day0.AddDate(0, 0, i),
			Advancing:  500 + i,
			Declining:  400,
			IndexClose: domain.Float(2600),
		}))
	}

	got, err := repo.GetRecent(ctx, domain.KOSPI, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 502, got[1].Advancing)
	require.NotNil(t, got[1].IndexClose)
	assert.Nil(t, got[1].TradingValue)

	got, err = repo.GetRange(ctx, domain.KOSPI, day0, day0.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = repo.GetRecent(ctx, domain.KOSDAQ, 2)
	assert.True(t, domain.IsNotFoundError(err))
}

func TestShortAndFlowRepositories(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	shorts := market.NewShortInterestRepository(pool)
	flows := market.NewFlowRepository(pool)

	_, err := shorts.UpsertBatch(ctx, []domain.ShortInterestRecord{
		{StockCode: "005930", TradeDate: day0, LoanBalanceQuantity: 1000, ShortRatio: 2.5, ClosePrice: 70000},
		{StockCode: "000660", TradeDate: day0.AddDate(0, 0, 1), LoanBalanceQuantity: 500},
	})
	require.NoError(t, err)

	codes, err := shorts.ListStockCodes(ctx, day0)
	require.NoError(t, err)
	assert.Equal(t, []string{"000660", "005930"}, codes)

	recs, err := shorts.GetRecent(ctx, "005930", 20)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 2.5, recs[0].ShortRatio)

	_, err = flows.UpsertBatch(ctx, []domain.InvestorFlow{
		{StockCode: "005930", TradeDate: day0, ForeignNetQty: 10},
		{StockCode: "005930", TradeDate: day0.AddDate(0, 0, 1), ForeignNetQty: -5},
	})
	require.NoError(t, err)
	fl, err := flows.GetRecent(ctx, "005930", 5)
	require.NoError(t, err)
	require.Len(t, fl, 2)
	assert.Equal(t, int64(-5), fl[1].ForeignNetQty)
}

func TestFinancialRepository(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	repo := market.NewFinancialRepository(pool)

	for i, ni := range []int64{-50, 30, 45} {
		require.NoError(t, repo.Upsert(ctx, &domain.FinancialSnapshot{
			StockCode:  "005930",
			StockName:  "삼성전자",
			ReportDate: day0.AddDate(0, 3*i, 0),
			NetIncome:  decimal.NewFromInt(ni),
			MarketCap:  decimal.NewFromInt(4_000_000),
			PER:        domain.Float(12.5),
		}))
	}

	latest, err := repo.GetLatest(ctx, "005930")
	require.NoError(t, err)
	assert.True(t, latest.NetIncome.Equal(decimal.NewFromInt(45)))
	require.NotNil(t, latest.PER)
	assert.Nil(t, latest.ROE)

	recent, err := repo.ListRecentPerStock(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.True(t, recent[0].NetIncome.Equal(decimal.NewFromInt(30)))

	_, err = repo.GetLatest(ctx, "000000")
	assert.ErrorIs(t, err, domain.ErrFinancialNotFound)
}
