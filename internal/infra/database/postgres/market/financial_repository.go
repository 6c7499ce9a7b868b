package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	domain "github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
)

// FinancialRepository PostgreSQL 재무 스냅샷 저장소 (data.financial_snapshot)
type FinancialRepository struct {
	pool *postgres.Pool
}

// NewFinancialRepository 저장소 생성
func NewFinancialRepository(pool *postgres.Pool) *FinancialRepository {
	return &FinancialRepository{pool: pool}
}

var _ domain.FinancialRepository = (*FinancialRepository)(nil)

const financialColumns = `stock_code, stock_name, report_date, operating_profit, net_income, market_cap,
	operating_margin, roe, debt_ratio, eps, eps_growth, per, pbr`

// Upsert 재무 스냅샷 저장
func (r *FinancialRepository) Upsert(ctx context.Context, s *domain.FinancialSnapshot) error {
	query := `
		INSERT INTO data.financial_snapshot (` + financialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (stock_code, report_date) DO UPDATE SET
			stock_name = EXCLUDED.stock_name,
			operating_profit = EXCLUDED.operating_profit,
			net_income = EXCLUDED.net_income,
			market_cap = EXCLUDED.market_cap,
			operating_margin = EXCLUDED.operating_margin,
			roe = EXCLUDED.roe,
			debt_ratio = EXCLUDED.debt_ratio,
			eps = EXCLUDED.eps,
			eps_growth = EXCLUDED.eps_growth,
			per = EXCLUDED.per,
			pbr = EXCLUDED.pbr
	`

	_, err := r.pool.Exec(ctx, query,
		s.StockCode, s.StockName, s.ReportDate,
		s.OperatingProfit, s.NetIncome, s.MarketCap,
		s.OperatingMargin, s.ROE, s.DebtRatio,
		s.EPS, s.EPSGrowth, s.PER, s.PBR,
	)
	if err != nil {
		return fmt.Errorf("upsert financial %s: %w", s.StockCode, err)
	}
	return nil
}

// GetLatest 최신 재무 스냅샷
func (r *FinancialRepository) GetLatest(ctx context.Context, stockCode string) (*domain.FinancialSnapshot, error) {
	query := `
		SELECT ` + financialColumns + `
		FROM data.financial_snapshot
		WHERE stock_code = $1
		ORDER BY report_date DESC
		LIMIT 1
	`

	rows, err := r.pool.Query(ctx, query, stockCode)
	if err != nil {
		return nil, fmt.Errorf("query financial %s: %w", stockCode, err)
	}
	snapshot, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[domain.FinancialSnapshot])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("financial %s: %w", stockCode, domain.ErrFinancialNotFound)
		}
		return nil, fmt.Errorf("scan financial %s: %w", stockCode, err)
	}
	return snapshot, nil
}

// ListRecentPerStock 종목별 최근 perStock개 스냅샷 (종목코드, 날짜 오름차순)
func (r *FinancialRepository) ListRecentPerStock(ctx context.Context, perStock int) ([]domain.FinancialSnapshot, error) {
	query := `
		SELECT ` + financialColumns + `
		FROM (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY stock_code ORDER BY report_date DESC) AS rn
			FROM data.financial_snapshot
		) ranked
		WHERE rn <= $1
		ORDER BY stock_code, report_date
	`

	rows, err := r.pool.Query(ctx, query, perStock)
	if err != nil {
		return nil, fmt.Errorf("query financial snapshots: %w", err)
	}
	snapshots, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.FinancialSnapshot])
	if err != nil {
		return nil, fmt.Errorf("scan financial snapshots: %w", err)
	}
	return snapshots, nil
}
