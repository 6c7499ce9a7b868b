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

// ShortInterestRepository PostgreSQL 공매도/대차잔고 저장소 (data.short_interest)
type ShortInterestRepository struct {
	pool *postgres.Pool
}

// NewShortInterestRepository 저장소 생성
func NewShortInterestRepository(pool *postgres.Pool) *ShortInterestRepository {
	return &ShortInterestRepository{pool: pool}
}

var _ domain.ShortInterestRepository = (*ShortInterestRepository)(nil)

const shortColumns = `stock_code, trade_date, short_volume, short_ratio, short_balance_quantity,
	short_balance_ratio, loan_balance_quantity, loan_balance_ratio, close_price, change_rate`

// UpsertBatch 일괄 저장
func (r *ShortInterestRepository) UpsertBatch(ctx context.Context, records []domain.ShortInterestRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO data.short_interest (` + shortColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (stock_code, trade_date) DO UPDATE SET
			short_volume = EXCLUDED.short_volume,
			short_ratio = EXCLUDED.short_ratio,
			short_balance_quantity = EXCLUDED.short_balance_quantity,
			short_balance_ratio = EXCLUDED.short_balance_ratio,
			loan_balance_quantity = EXCLUDED.loan_balance_quantity,
			loan_balance_ratio = EXCLUDED.loan_balance_ratio,
			close_price = EXCLUDED.close_price,
			change_rate = EXCLUDED.change_rate
	`

	batch := &pgx.Batch{}
	for _, s := range records {
		batch.Queue(query,
			s.StockCode, s.TradeDate,
			s.ShortVolume, s.ShortRatio,
			s.ShortBalanceQuantity, s.ShortBalanceRatio,
			s.LoanBalanceQuantity, s.LoanBalanceRatio,
			s.ClosePrice, s.ChangeRate,
		)
	}
	return execBatch(ctx, r.pool, batch, len(records), "short interest")
}

// GetRecent 최근 limit개 (오래된 순)
func (r *ShortInterestRepository) GetRecent(ctx context.Context, stockCode string, limit int) ([]domain.ShortInterestRecord, error) {
	query := `
		SELECT ` + shortColumns + `
		FROM data.short_interest
		WHERE stock_code = $1
		ORDER BY trade_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, stockCode, limit)
	if err != nil {
		return nil, fmt.Errorf("query short interest %s: %w", stockCode, err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.ShortInterestRecord])
	if err != nil {
		return nil, fmt.Errorf("scan short interest %s: %w", stockCode, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("short interest %s: %w", stockCode, domain.ErrShortNotFound)
	}

	slices.Reverse(records)
	return records, nil
}

// ListStockCodes since 이후 기록이 있는 종목 (코드 순)
func (r *ShortInterestRepository) ListStockCodes(ctx context.Context, since time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT stock_code
		FROM data.short_interest
		WHERE trade_date >= $1
		ORDER BY stock_code
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("list short interest codes: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan short interest codes: %w", err)
	}
	return codes, nil
}
