package naver

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/wonny/quantdiag/internal/domain/market"
)

// =============================================================================
// Financial Snapshots (main.naver 기업실적분석)
// =============================================================================

var eok = decimal.NewFromInt(100_000_000)

// FetchFinancials 최근 연간 실적 (기업실적분석 표, 추정치 제외, 날짜 오름차순)
// 금액 행은 억원 단위이므로 원으로 환산한다. 시가총액은 현재값을 모든 기간에 기록한다.
func (c *Client) FetchFinancials(ctx context.Context, stockCode string) ([]market.FinancialSnapshot, error) {
	doc, err := c.getDocument(ctx, "/item/main.naver?code="+stockCode)
	if err != nil {
		return nil, fmt.Errorf("fetch financials %s: %w", stockCode, err)
	}

	name := strings.TrimSpace(doc.Find("div.wrap_company h2 a").First().Text())
	if name == "" {
		name = strings.TrimSpace(doc.Find("div.wrap_company h2").First().Text())
	}
	marketCap := parseMarketSum(doc.Find("#_market_sum").First().Text())

	table := doc.Find("div.cop_analysis table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("fetch financials %s: no cop_analysis table: %w", stockCode, market.ErrInvalidResponse)
	}

	annual := annualColumns(table)
	var dates []time.Time
	var columns []int
	table.Find("thead tr").Eq(1).Find("th").Each(func(i int, th *goquery.Selection) {
		if i >= annual {
			return
		}
		text := strings.TrimSpace(th.Text())
		if strings.Contains(text, "(E)") {
			return
		}
		if d, ok := parsePeriod(text); ok {
			dates = append(dates, d)
			columns = append(columns, i)
		}
	})
	if len(dates) == 0 {
		return nil, fmt.Errorf("fetch financials %s: no reported periods: %w", stockCode, market.ErrInvalidResponse)
	}

	rows := map[string][]string{}
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		label := strings.TrimSpace(tr.Find("th").First().Text())
		var values []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			values = append(values, strings.TrimSpace(td.Text()))
		})
		rows[label] = values
	})

	snapshots := make([]market.FinancialSnapshot, len(dates))
	for i, col := range columns {
		s := market.FinancialSnapshot{
			StockCode:       stockCode,
			StockName:       name,
			ReportDate:      dates[i],
			MarketCap:       marketCap,
			OperatingProfit: amountCell(rows, "영업이익", col),
			NetIncome:       amountCell(rows, "당기순이익", col),
			OperatingMargin: ratioCell(rows, "영업이익률", col),
			ROE:             ratioCell(rows, "ROE", col),
			DebtRatio:       ratioCell(rows, "부채비율", col),
			EPS:             ratioCell(rows, "EPS", col),
			PER:             ratioCell(rows, "PER", col),
			PBR:             ratioCell(rows, "PBR", col),
		}
		if i > 0 && s.EPS != nil && snapshots[i-1].EPS != nil && *snapshots[i-1].EPS != 0 {
			prev := *snapshots[i-1].EPS
			growth := math.Round((*s.EPS-prev)/math.Abs(prev)*10000) / 100
			s.EPSGrowth = &growth
		}
		snapshots[i] = s
	}

	log.Debug().
		Str("stock_code", stockCode).
		Int("periods", len(snapshots)).
		Msg("Fetched financials from Naver")

	return snapshots, nil
}

// annualColumns "최근 연간 실적" 헤더의 colspan (기본 4)
func annualColumns(table *goquery.Selection) int {
	header := table.Find("thead tr").First().Find("th").Eq(1)
	if span, ok := header.Attr("colspan"); ok {
		if n, err := strconv.Atoi(span); err == nil && n > 0 {
			return n
		}
	}
	return 4
}

// cell 라벨이 name 또는 "name(단위)"인 행의 col번째 값
func cell(rows map[string][]string, name string, col int) (string, bool) {
	for label, values := range rows {
		if (label == name || strings.HasPrefix(label, name+"(")) && col < len(values) {
			return values[col], true
		}
	}
	return "", false
}

func amountCell(rows map[string][]string, name string, col int) decimal.Decimal {
	text, ok := cell(rows, name, col)
	if !ok {
		return decimal.Zero
	}
	v, ok := parseFloat(text)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Mul(eok)
}

func ratioCell(rows map[string][]string, name string, col int) *float64 {
	text, ok := cell(rows, name, col)
	if !ok {
		return nil
	}
	v, ok := parseFloat(text)
	if !ok {
		return nil
	}
	return &v
}

// parsePeriod "2023.12" → 2023-12-31
func parsePeriod(text string) (time.Time, bool) {
	if len(text) < 7 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006.01", text[:7])
	if err != nil {
		return time.Time{}, false
	}
	return t.AddDate(0, 1, -1), true
}

// parseMarketSum 시가총액 ("433조 7,045" 또는 "7,045", 억원) → 원
func parseMarketSum(text string) decimal.Decimal {
	text = strings.Join(strings.Fields(text), "")
	if text == "" {
		return decimal.Zero
	}

	var total int64
	if jo, rest, ok := strings.Cut(text, "조"); ok {
		total = parseNumber(jo) * 10_000
		text = rest
	}
	total += parseNumber(text)
	return decimal.NewFromInt(total).Mul(eok)
}
