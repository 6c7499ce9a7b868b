package naver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/domain/market"
)

// =============================================================================
// Market Breadth
// =============================================================================

// countPage 등락 구분별 종목 리스트 페이지
type countPage string

const (
	pageRise   countPage = "sise_rise"
	pageFall   countPage = "sise_fall"
	pageSteady countPage = "sise_steady"
	pageUpper  countPage = "sise_upper"
	pageLower  countPage = "sise_lower"
)

// IndexInfo 지수 요약 (sise_index)
type IndexInfo struct {
	Close        *float64
	ChangeRate   *float64
	TradingValue *int64 // 억원
}

// FetchBreadth 시장별 상승/하락/보합/상한/하한 종목 수와 지수 정보 수집
// 네이버 페이지에는 날짜가 없으므로 tradeDate는 호출자가 지정한다.
func (c *Client) FetchBreadth(ctx context.Context, m market.Market, tradeDate time.Time) (*market.MarketBreadth, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("fetch breadth %q: %w", m, market.ErrInvalidMarket)
	}

	b := &market.MarketBreadth{Market: m, Date: tradeDate}
	targets := []struct {
		page countPage
		dst  *int
	}{
		{pageRise, &b.Advancing},
		{pageFall, &b.Declining},
		{pageSteady, &b.Unchanged},
		{pageUpper, &b.UpperLimit},
		{pageLower, &b.LowerLimit},
	}
	for _, t := range targets {
		n, err := c.fetchCount(ctx, m, t.page)
		if err != nil {
			return nil, fmt.Errorf("fetch breadth %s %s: %w", m, t.page, err)
		}
		*t.dst = n
	}

	// 지수 정보는 없어도 등락 종목 수만으로 ADR 계산이 가능하다
	info, err := c.FetchIndex(ctx, m)
	if err != nil {
		log.Warn().Err(err).Str("market", string(m)).Msg("Index info unavailable")
	} else {
		b.IndexClose = info.Close
		b.IndexChangeRate = info.ChangeRate
		b.TradingValue = info.TradingValue
	}

	log.Debug().
		Str("market", string(m)).
		Int("advancing", b.Advancing).
		Int("declining", b.Declining).
		Int("unchanged", b.Unchanged).
		Msg("Fetched market breadth from Naver")

	return b, nil
}

// fetchCount 종목 수 추출 ("상승 (528)"), 없으면 테이블 행 수
func (c *Client) fetchCount(ctx context.Context, m market.Market, page countPage) (int, error) {
	doc, err := c.getDocument(ctx, fmt.Sprintf("/sise/%s.naver?sosok=%d", page, m.Sosok()))
	if err != nil {
		return 0, err
	}

	if n, ok := parseParenCount(doc.Find("div.subtop_sise_graph2 span").First().Text()); ok {
		return n, nil
	}

	count := 0
	doc.Find("table.type_2 tbody tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("td").Length() > 1 && row.Find("td a").Length() > 0 {
			count++
		}
	})
	return count, nil
}

// FetchIndex 지수 종가/등락률/거래대금 (sise_index)
func (c *Client) FetchIndex(ctx context.Context, m market.Market) (*IndexInfo, error) {
	doc, err := c.getDocument(ctx, "/sise/sise_index.naver?code="+string(m))
	if err != nil {
		return nil, err
	}

	info := &IndexInfo{}
	if v, ok := parseFloat(doc.Find("#now_value").First().Text()); ok {
		info.Close = &v
	}
	if v, ok := parseFloat(doc.Find("#change_rate").First().Text()); ok {
		info.ChangeRate = &v
	}
	if text := strings.TrimSpace(doc.Find("em#quant").First().Text()); text != "" {
		v := parseNumber(strings.ReplaceAll(text, "억", ""))
		info.TradingValue = &v
	}

	if info.Close == nil {
		return nil, fmt.Errorf("index %s: missing #now_value: %w", m, market.ErrInvalidResponse)
	}
	return info, nil
}

// parseParenCount "상승 (1,528)" → 1528
func parseParenCount(text string) (int, bool) {
	open := strings.Index(text, "(")
	closing := strings.Index(text, ")")
	if open < 0 || closing <= open {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(text[open+1:closing]), ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}
