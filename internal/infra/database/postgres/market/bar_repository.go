// Package market implements the market-data repositories on PostgreSQL (schema data).
package market

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	domain "github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
)

// BarRepository PostgreSQL 일봉 저장소 (data.daily_bars)
type BarRepository struct {
	pool *postgres.Pool
}

// NewBarRepository 저장소 생성
func NewBarRepository(pool *postgres.Pool) *BarRepository {
	return &BarRepository{pool: pool}
}

var _ domain.BarRepository = (*BarRepository)(nil)

const upsertBarSQL = `
	INSERT INTO data.daily_bars
		(stock_code, trade_date, open_price, high_price, low_price, close_price, volume)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (stock_code, trade_date) DO UPDATE SET
		open_price = EXCLUDED.open_price,
		high_price = EXCLUDED.high_price,
		low_price = EXCLUDED.low_price,
		close_price = EXCLUDED.close_price,
		volume = EXCLUDED.volume
`

// UpsertBatch 일봉 일괄 저장
func (r *BarRepository) UpsertBatch(ctx context.Context, bars []domain.DailyBar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(upsertBarSQL, b.StockCode, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
	}
	return execBatch(ctx, r.pool, batch, len(bars), "daily bars")
}

// GetRecent 최근 limit개 일봉 (오래된 순)
func (r *BarRepository) GetRecent(ctx context.Context, stockCode string, limit int) ([]domain.DailyBar, error) {
	query := `
		SELECT stock_code, trade_date, open_price, high_price, low_price, close_price, volume
		FROM data.daily_bars
		WHERE stock_code = $1
		ORDER BY trade_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, stockCode, limit)
	if err != nil {
		return nil, fmt.Errorf("query bars %s: %w", stockCode, err)
	}
	bars, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.DailyBar])
	if err != nil {
		return nil, fmt.Errorf("scan bars %s: %w", stockCode, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("bars %s: %w", stockCode, domain.ErrBarsNotFound)
	}

	slices.Reverse(bars)
	return bars, nil
}

// execBatch 배치 실행 후 성공 건수 반환
func execBatch(ctx context.Context, pool *postgres.Pool, batch *pgx.Batch, n int, what string) (int, error) {
	br := pool.SendBatch(ctx, batch)
	defer br.Close()

	count := 0
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return count, fmt.Errorf("batch upsert %s: %w", what, err)
		}
		count++
	}
	return count, nil
}
