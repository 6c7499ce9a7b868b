package diagnosis

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/quant/series"
)

// FinancialHealth 재무 건전성
type FinancialHealth struct {
	ReportDate             time.Time       `json:"report_date"`
	OperatingProfit        decimal.Decimal `json:"operating_profit"`
	NetIncome              decimal.Decimal `json:"net_income"`
	ProfitGapRatio         *float64        `json:"profit_gap_ratio"` // (순이익-영업이익)/|영업이익| %
	IsOneTimeGainSuspected bool            `json:"is_one_time_gain_suspected"`
	OperatingMargin        *float64        `json:"operating_margin"`
	ROE                    *float64        `json:"roe"`
	DebtRatio              *float64        `json:"debt_ratio"`
	Score                  int             `json:"score"`
}

// financialHealth 재무 점수 (스냅샷 없으면 nil)
func (a *Aggregator) financialHealth(s *market.FinancialSnapshot) *FinancialHealth {
	if s == nil {
		return nil
	}

	f := &FinancialHealth{
		ReportDate:      s.ReportDate,
		OperatingProfit: s.OperatingProfit,
		NetIncome:       s.NetIncome,
		OperatingMargin: s.OperatingMargin,
		ROE:             s.ROE,
		DebtRatio:       s.DebtRatio,
	}
	if !s.OperatingProfit.IsZero() {
		gap := s.NetIncome.Sub(s.OperatingProfit).
			Div(s.OperatingProfit.Abs()).
			Mul(decimal.NewFromInt(100)).
			InexactFloat64()
		f.ProfitGapRatio = &gap
		f.IsOneTimeGainSuspected = gap > a.cfg.OneTimeGainGap && s.OperatingProfit.IsPositive()
	}

	score := 50.0

	if m := s.OperatingMargin; m != nil {
		switch {
		case *m > 15:
			score += 20
		case *m > 10:
			score += 15
		case *m > 5:
			score += 10
		case *m > 0:
			score += 5
		default:
			score -= 10
		}
	}

	if r := s.ROE; r != nil {
		switch {
		case *r > 15:
			score += 15
		case *r > 10:
			score += 10
		case *r > 5:
			score += 5
		case *r < 0:
			score -= 15
		}
	}

	if d := s.DebtRatio; d != nil {
		switch {
		case *d < 50:
			score += 10
		case *d < 100:
			score += 5
		case *d > a.cfg.HighDebtRatio:
			score -= 15
		}
	}

	if f.IsOneTimeGainSuspected {
		score -= 20
	}

	f.Score = int(series.Clamp(math.Round(score), 0, 100))
	return f
}
