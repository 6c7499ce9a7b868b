package market

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	domain "github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
)

// BreadthRepository PostgreSQL 시장 등락 저장소 (data.market_breadth)
type BreadthRepository struct {
	pool *postgres.Pool
}

// NewBreadthRepository 저장소 생성
func NewBreadthRepository(pool *postgres.Pool) *BreadthRepository {
	return &BreadthRepository{pool: pool}
}

var _ domain.BreadthRepository = (*BreadthRepository)(nil)

const breadthColumns = `market, trade_date, advancing_count, declining_count, unchanged_count,
	upper_limit_count, lower_limit_count, index_close, index_change_rate, trading_value`

// Upsert 일별 등락 종목 수 저장 (같은 날 재수집 시 덮어씀)
func (r *BreadthRepository) Upsert(ctx context.Context, b *domain.MarketBreadth) error {
	query := `
		INSERT INTO data.market_breadth (` + breadthColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (market, trade_date) DO UPDATE SET
			advancing_count = EXCLUDED.advancing_count,
			declining_count = EXCLUDED.declining_count,
			unchanged_count = EXCLUDED.unchanged_count,
			upper_limit_count = EXCLUDED.upper_limit_count,
			lower_limit_count = EXCLUDED.lower_limit_count,
			index_close = EXCLUDED.index_close,
			index_change_rate = EXCLUDED.index_change_rate,
			trading_value = EXCLUDED.trading_value
	`

	_, err := r.pool.Exec(ctx, query,
		b.Market, b.Date,
		b.Advancing, b.Declining, b.Unchanged, b.UpperLimit, b.LowerLimit,
		b.IndexClose, b.IndexChangeRate, b.TradingValue,
	)
	if err != nil {
		return fmt.Errorf("upsert breadth %s %s: %w", b.Market, b.Date.Format("2006-01-02"), err)
	}
	return nil
}

// GetRecent 최근 limit 거래일 (오래된 순)
func (r *BreadthRepository) GetRecent(ctx context.Context, m domain.Market, limit int) ([]domain.MarketBreadth, error) {
	query := `
		SELECT ` + breadthColumns + `
		FROM data.market_breadth
		WHERE market = $1
		ORDER BY trade_date DESC
		LIMIT $2
	`

	records, err := r.collect(ctx, m, query, m, limit)
	if err != nil {
		return nil, err
	}
	slices.Reverse(records)
	return records, nil
}

// GetRange 기간 조회 (오래된 순)
func (r *BreadthRepository) GetRange(ctx context.Context, m domain.Market, from, to time.Time) ([]domain.MarketBreadth, error) {
	query := `
		SELECT ` + breadthColumns + `
		FROM data.market_breadth
		WHERE market = $1 AND trade_date >= $2 AND trade_date <= $3
		ORDER BY trade_date ASC
	`
	return r.collect(ctx, m, query, m, from, to)
}

func (r *BreadthRepository) collect(ctx context.Context, m domain.Market, query string, args ...any) ([]domain.MarketBreadth, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query breadth %s: %w", m, err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.MarketBreadth])
	if err != nil {
		return nil, fmt.Errorf("scan breadth %s: %w", m, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("breadth %s: %w", m, domain.ErrBreadthNotFound)
	}
	return records, nil
}
