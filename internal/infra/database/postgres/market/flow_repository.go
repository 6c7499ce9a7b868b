package market

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	domain "github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
)

// FlowRepository PostgreSQL 수급 저장소 (data.investor_flow)
type FlowRepository struct {
	pool *postgres.Pool
}

// NewFlowRepository 저장소 생성
func NewFlowRepository(pool *postgres.Pool) *FlowRepository {
	return &FlowRepository{pool: pool}
}

var _ domain.FlowRepository = (*FlowRepository)(nil)

// UpsertBatch 수급 일괄 저장
func (r *FlowRepository) UpsertBatch(ctx context.Context, flows []domain.InvestorFlow) (int, error) {
	if len(flows) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO data.investor_flow
			(stock_code, trade_date, foreign_net_qty, foreign_net_value, inst_net_qty, inst_net_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (stock_code, trade_date) DO UPDATE SET
			foreign_net_qty = EXCLUDED.foreign_net_qty,
			foreign_net_value = EXCLUDED.foreign_net_value,
			inst_net_qty = EXCLUDED.inst_net_qty,
			inst_net_value = EXCLUDED.inst_net_value
	`

	batch := &pgx.Batch{}
	for _, f := range flows {
		batch.Queue(query,
			f.StockCode, f.TradeDate,
			f.ForeignNetQty, f.ForeignNetValue,
			f.InstNetQty, f.InstNetValue,
		)
	}
	return execBatch(ctx, r.pool, batch, len(flows), "investor flow")
}

// GetRecent 최근 limit 거래일 수급 (오래된 순)
func (r *FlowRepository) GetRecent(ctx context.Context, stockCode string, limit int) ([]domain.InvestorFlow, error) {
	query := `
		SELECT stock_code, trade_date, foreign_net_qty, foreign_net_value, inst_net_qty, inst_net_value
		FROM data.investor_flow
		WHERE stock_code = $1
		ORDER BY trade_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, stockCode, limit)
	if err != nil {
		return nil, fmt.Errorf("query flows %s: %w", stockCode, err)
	}
	flows, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.InvestorFlow])
	if err != nil {
		return nil, fmt.Errorf("scan flows %s: %w", stockCode, err)
	}
	if len(flows) == 0 {
		return nil, fmt.Errorf("flows %s: %w", stockCode, domain.ErrFlowNotFound)
	}

	slices.Reverse(flows)
	return flows, nil
}
