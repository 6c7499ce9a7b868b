package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// Market
// =============================================================================

// Market 시장 구분
type Market string

const (
	KOSPI  Market = "KOSPI"
	KOSDAQ Market = "KOSDAQ"
)

// Markets 수집 대상 시장 목록
var Markets = []Market{KOSPI, KOSDAQ}

// Sosok 네이버 금융 시장 구분 파라미터 (KOSPI=0, KOSDAQ=1)
func (m Market) Sosok() int {
	if m == KOSDAQ {
		return 1
	}
	return 0
}

// Valid 지원 시장 여부
func (m Market) Valid() bool {
	return m == KOSPI || m == KOSDAQ
}

// ParseMarket 문자열을 Market으로 변환
func ParseMarket(s string) (Market, error) {
	m := Market(s)
	if !m.Valid() {
		return "", ErrInvalidMarket
	}
	return m, nil
}

// =============================================================================
// Raw Inputs (durable)
// =============================================================================

// DailyBar 일봉 (data.daily_bars)
type DailyBar struct {
	StockCode string    `json:"stock_code" db:"stock_code"`
	Date      time.Time `json:"date" db:"trade_date"`
	Open      float64   `json:"open" db:"open_price"`
	High      float64   `json:"high" db:"high_price"`
	Low       float64   `json:"low" db:"low_price"`
	Close     float64   `json:"close" db:"close_price"`
	Volume    int64     `json:"volume" db:"volume"`
}

// MarketBreadth 시장 등락 종목 수 (data.market_breadth)
type MarketBreadth struct {
	Market          Market    `json:"market" db:"market"`
	Date            time.Time `json:"date" db:"trade_date"`
	Advancing       int       `json:"advancing" db:"advancing_count"`
	Declining       int       `json:"declining" db:"declining_count"`
	Unchanged       int       `json:"unchanged" db:"unchanged_count"`
	UpperLimit      int       `json:"upper_limit" db:"upper_limit_count"`
	LowerLimit      int       `json:"lower_limit" db:"lower_limit_count"`
	IndexClose      *float64  `json:"index_close,omitempty" db:"index_close"`
	IndexChangeRate *float64  `json:"index_change_rate,omitempty" db:"index_change_rate"`
	TradingValue    *int64    `json:"trading_value,omitempty" db:"trading_value"` // 억원
}

// ShortInterestRecord 공매도/대차잔고 (data.short_interest)
type ShortInterestRecord struct {
	StockCode            string    `json:"stock_code" db:"stock_code"`
	TradeDate            time.Time `json:"trade_date" db:"trade_date"`
	ShortVolume          int64     `json:"short_volume" db:"short_volume"`
	ShortRatio           float64   `json:"short_ratio" db:"short_ratio"`
	ShortBalanceQuantity int64     `json:"short_balance_quantity" db:"short_balance_quantity"`
	ShortBalanceRatio    float64   `json:"short_balance_ratio" db:"short_balance_ratio"`
	LoanBalanceQuantity  int64     `json:"loan_balance_quantity" db:"loan_balance_quantity"`
	LoanBalanceRatio     float64   `json:"loan_balance_ratio" db:"loan_balance_ratio"`
	ClosePrice           float64   `json:"close_price" db:"close_price"`
	ChangeRate           float64   `json:"change_rate" db:"change_rate"`
}

// InvestorFlow 투자자별 순매수 (data.investor_flow)
// Value 필드는 원 단위
type InvestorFlow struct {
	StockCode       string    `json:"stock_code" db:"stock_code"`
	TradeDate       time.Time `json:"trade_date" db:"trade_date"`
	ForeignNetQty   int64     `json:"foreign_net_qty" db:"foreign_net_qty"`
	ForeignNetValue int64     `json:"foreign_net_value" db:"foreign_net_value"`
	InstNetQty      int64     `json:"inst_net_qty" db:"inst_net_qty"`
	InstNetValue    int64     `json:"inst_net_value" db:"inst_net_value"`
}

// ForeignNet 외국인 순매수 방향 판단용 값 (금액 우선, 없으면 수량)
func (f InvestorFlow) ForeignNet() int64 {
	if f.ForeignNetValue != 0 {
		return f.ForeignNetValue
	}
	return f.ForeignNetQty
}

// InstNet 기관 순매수 방향 판단용 값 (금액 우선, 없으면 수량)
func (f InvestorFlow) InstNet() int64 {
	if f.InstNetValue != 0 {
		return f.InstNetValue
	}
	return f.InstNetQty
}

// FinancialSnapshot 재무 스냅샷 (data.financial_snapshots)
// 금액은 원 단위 decimal, 비율은 미공시 시 nil
type FinancialSnapshot struct {
	StockCode       string          `json:"stock_code" db:"stock_code"`
	StockName       string          `json:"stock_name" db:"stock_name"`
	ReportDate      time.Time       `json:"report_date" db:"report_date"`
	OperatingProfit decimal.Decimal `json:"operating_profit" db:"operating_profit"`
	NetIncome       decimal.Decimal `json:"net_income" db:"net_income"`
	MarketCap       decimal.Decimal `json:"market_cap" db:"market_cap"`
	OperatingMargin *float64        `json:"operating_margin" db:"operating_margin"`
	ROE             *float64        `json:"roe" db:"roe"`
	DebtRatio       *float64        `json:"debt_ratio" db:"debt_ratio"`
	EPS             *float64        `json:"eps" db:"eps"`
	EPSGrowth       *float64        `json:"eps_growth" db:"eps_growth"`
	PER             *float64        `json:"per" db:"per"`
	PBR             *float64        `json:"pbr" db:"pbr"`
}

// Float 포인터 헬퍼
func Float(v float64) *float64 {
	return &v
}
