package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wonny/quantdiag/internal/api/response"
	"github.com/wonny/quantdiag/internal/quant/diagnosis"
	"github.com/wonny/quantdiag/internal/quant/regime"
	"github.com/wonny/quantdiag/internal/quant/screener"
	"github.com/wonny/quantdiag/internal/quant/squeeze"
	"github.com/wonny/quantdiag/internal/quant/technical"
)

// Analyzer 분석 서비스 (analysis.Service)
type Analyzer interface {
	Indicators(ctx context.Context, stockCode string) (*technical.Indicators, error)
	Diagnose(ctx context.Context, stockCode string) (*diagnosis.StockDiagnosis, error)
	Squeeze(ctx context.Context, stockCode string) (*squeeze.Assessment, error)
	SqueezeCandidates(ctx context.Context, minScore, limit int) ([]*squeeze.Assessment, error)
	Timing(ctx context.Context) (*regime.Timing, error)
	ADRHistory(ctx context.Context, days int) ([]regime.HistoryPoint, error)
	MagicFormula(ctx context.Context, p screener.MagicFormulaParams) (screener.Result[screener.MagicFormulaResult], error)
	PEG(ctx context.Context, p screener.PEGParams) (screener.Result[screener.PEGResult], error)
	Turnaround(ctx context.Context, p screener.TurnaroundParams) (screener.Result[screener.TurnaroundResult], error)
	ScreenerSummary(ctx context.Context) (screener.Summary, error)
	ScreenerConfig() screener.Config
	SqueezeConfig() squeeze.Config
}

// ============================================================================
// Query parameters
// ============================================================================

const (
	maxLimit       = 200
	maxHistoryDays = 250
)

// stockCode 경로의 종목코드 (6자리 숫자)
func stockCode(c *gin.Context) (string, bool) {
	code := c.Param("code")
	if len(code) != 6 {
		response.ValidationError(c, []response.FieldError{{Field: "code", Message: "must be a 6 digit stock code"}})
		return "", false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			response.ValidationError(c, []response.FieldError{{Field: "code", Message: "must be a 6 digit stock code"}})
			return "", false
		}
	}
	return code, true
}

// queryInt 정수 쿼리 파라미터 [lo, hi], 없으면 def
func queryInt(c *gin.Context, name string, def, lo, hi int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		response.ValidationError(c, []response.FieldError{{
			Field:   name,
			Message: fmt.Sprintf("must be an integer between %d and %d", lo, hi),
		}})
		return 0, false
	}
	return v, true
}

// queryFloat 실수 쿼리 파라미터, 없으면 def
func queryFloat(c *gin.Context, name string, def float64) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.ValidationError(c, []response.FieldError{{Field: name, Message: "must be a number"}})
		return 0, false
	}
	return v, true
}

// queryDecimal 금액 쿼리 파라미터 (원), 없으면 def
func queryDecimal(c *gin.Context, name string, def decimal.Decimal) (decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		response.ValidationError(c, []response.FieldError{{Field: name, Message: "must be a non-negative amount"}})
		return decimal.Zero, false
	}
	return v, true
}

// fail 서비스 에러 응답
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	response.FromError(c, err)
}
