package regime

import (
	"fmt"
	"strings"
	"time"

	"github.com/wonny/quantdiag/internal/domain/market"
)

// MarketStatus 시장별 당일 현황 + ADR
type MarketStatus struct {
	Market          market.Market   `json:"market"`
	Date            time.Time       `json:"date"`
	Advancing       int             `json:"advancing"`
	Declining       int             `json:"declining"`
	Unchanged       int             `json:"unchanged"`
	UpperLimit      int             `json:"upper_limit"`
	LowerLimit      int             `json:"lower_limit"`
	IndexClose      *float64        `json:"index_close,omitempty"`
	IndexChangeRate *float64        `json:"index_change_rate,omitempty"`
	DailyRatio      *float64        `json:"daily_ratio"`
	ADR20           *float64        `json:"adr20"`
	Condition       MarketCondition `json:"condition,omitempty"`
}

// Timing 시장 타이밍 분석 결과
type Timing struct {
	AnalysisDate     time.Time       `json:"analysis_date"`
	KOSPI            *MarketStatus   `json:"kospi,omitempty"`
	KOSDAQ           *MarketStatus   `json:"kosdaq,omitempty"`
	CombinedADR      *float64        `json:"combined_adr"`
	OverallCondition MarketCondition `json:"overall_condition,omitempty"`
	ConditionText    string          `json:"condition_text,omitempty"`
	Diagnosis        string          `json:"diagnosis"`
	Strategy         string          `json:"strategy"`
}

// HistoryPoint 차트용 ADR 이력
type HistoryPoint struct {
	Date        time.Time `json:"date"`
	KOSPIADR    *float64  `json:"kospi_adr"`
	KOSDAQADR   *float64  `json:"kosdaq_adr"`
	CombinedADR *float64  `json:"combined_adr"`
}

// Assess 코스피/코스닥 이력으로 시장 타이밍 분석
func (c *Classifier) Assess(kospi, kosdaq []market.MarketBreadth) (*Timing, error) {
	combined, err := c.CombinedADR(kospi, kosdaq)
	if err != nil {
		return nil, fmt.Errorf("assess market timing: %w", err)
	}

	t := &Timing{
		AnalysisDate: combined.Date,
		CombinedADR:  combined.ADR20,
	}
	if len(kospi) > 0 {
		if t.KOSPI, err = c.status(kospi); err != nil {
			return nil, err
		}
	}
	if len(kosdaq) > 0 {
		if t.KOSDAQ, err = c.status(kosdaq); err != nil {
			return nil, err
		}
	}

	if combined.ADR20 != nil {
		t.OverallCondition = combined.Condition
		t.ConditionText = combined.Condition.Emoji()
		t.Strategy = combined.Condition.Suggestion()
	}
	t.Diagnosis = diagnose(t)
	return t, nil
}

func (c *Classifier) status(records []market.MarketBreadth) (*MarketStatus, error) {
	adr, err := c.ADR(records)
	if err != nil {
		return nil, err
	}
	latest := records[len(records)-1]
	return &MarketStatus{
		Market:          latest.Market,
		Date:            latest.Date,
		Advancing:       latest.Advancing,
		Declining:       latest.Declining,
		Unchanged:       latest.Unchanged,
		UpperLimit:      latest.UpperLimit,
		LowerLimit:      latest.LowerLimit,
		IndexClose:      latest.IndexClose,
		IndexChangeRate: latest.IndexChangeRate,
		DailyRatio:      DailyRatio(latest),
		ADR20:           adr.ADR20,
		Condition:       adr.Condition,
	}, nil
}

func diagnose(t *Timing) string {
	parts := make([]string, 0, 3)
	if t.CombinedADR != nil {
		parts = append(parts, fmt.Sprintf("종합 ADR(20일): %.1f - %s", *t.CombinedADR, t.OverallCondition.Diagnosis()))
	}
	if t.KOSPI != nil && t.KOSPI.DailyRatio != nil {
		parts = append(parts, fmt.Sprintf("코스피 당일 등락비: %.1f", *t.KOSPI.DailyRatio))
	}
	if t.KOSDAQ != nil && t.KOSDAQ.DailyRatio != nil {
		parts = append(parts, fmt.Sprintf("코스닥 당일 등락비: %.1f", *t.KOSDAQ.DailyRatio))
	}
	if len(parts) == 0 {
		return "ADR 계산에 필요한 데이터가 부족합니다."
	}
	return strings.Join(parts, " | ")
}

// History 날짜별 ADR 이력 (최신순, 최대 days개)
// 각 시점의 ADR은 그 날짜까지의 기록만으로 계산한다.
func (c *Classifier) History(kospi, kosdaq []market.MarketBreadth, days int) ([]HistoryPoint, error) {
	if len(kospi) > 0 {
		if err := market.ValidateBreadth(kospi); err != nil {
			return nil, fmt.Errorf("adr history kospi: %w", err)
		}
	}
	if len(kosdaq) > 0 {
		if err := market.ValidateBreadth(kosdaq); err != nil {
			return nil, fmt.Errorf("adr history kosdaq: %w", err)
		}
	}

	// KOSPI 거래일을 기준 축으로 사용, 없으면 KOSDAQ
	axis := kospi
	if len(axis) == 0 {
		axis = kosdaq
	}

	points := make([]HistoryPoint, 0, days)
	for i := len(axis) - 1; i >= 0 && len(points) < days; i-- {
		date := axis[i].Date
		kp := upTo(kospi, date)
		kq := upTo(kosdaq, date)

		p := HistoryPoint{Date: date}
		if len(kp) > 0 {
			if r, err := c.ADR(kp); err == nil {
				p.KOSPIADR = r.ADR20
			}
		}
		if len(kq) > 0 && dateKey(kq[len(kq)-1].Date) == dateKey(date) {
			if r, err := c.ADR(kq); err == nil {
				p.KOSDAQADR = r.ADR20
			}
		}
		if r, err := c.CombinedADR(kp, kq); err == nil {
			p.CombinedADR = r.ADR20
		}
		points = append(points, p)
	}
	return points, nil
}

// upTo returns the prefix of an ascending series with dates <= date.
func upTo(records []market.MarketBreadth, date time.Time) []market.MarketBreadth {
	n := 0
	for n < len(records) && !records[n].Date.After(date) {
		n++
	}
	return records[:n]
}
