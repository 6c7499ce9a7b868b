package market

import (
	"context"
	"time"
)

// 모든 조회 메서드는 날짜 오름차순으로 반환한다.

// BarRepository 일봉 저장소
type BarRepository interface {
	UpsertBatch(ctx context.Context, bars []DailyBar) (int, error)
	// GetRecent 최근 limit개 일봉
	GetRecent(ctx context.Context, stockCode string, limit int) ([]DailyBar, error)
}

// BreadthRepository 시장 등락 저장소
type BreadthRepository interface {
	Upsert(ctx context.Context, breadth *MarketBreadth) error
	GetRecent(ctx context.Context, m Market, limit int) ([]MarketBreadth, error)
	GetRange(ctx context.Context, m Market, from, to time.Time) ([]MarketBreadth, error)
}

// ShortInterestRepository 공매도/대차잔고 저장소
type ShortInterestRepository interface {
	UpsertBatch(ctx context.Context, records []ShortInterestRecord) (int, error)
	GetRecent(ctx context.Context, stockCode string, limit int) ([]ShortInterestRecord, error)
	// ListStockCodes since 이후 기록이 있는 종목 코드
	ListStockCodes(ctx context.Context, since time.Time) ([]string, error)
}

// FlowRepository 투자자 수급 저장소
type FlowRepository interface {
	UpsertBatch(ctx context.Context, flows []InvestorFlow) (int, error)
	GetRecent(ctx context.Context, stockCode string, limit int) ([]InvestorFlow, error)
}

// FinancialRepository 재무 스냅샷 저장소
type FinancialRepository interface {
	Upsert(ctx context.Context, snapshot *FinancialSnapshot) error
	GetLatest(ctx context.Context, stockCode string) (*FinancialSnapshot, error)
	// ListRecentPerStock 종목별 최근 perStock개 스냅샷
	ListRecentPerStock(ctx context.Context, perStock int) ([]FinancialSnapshot, error)
}
