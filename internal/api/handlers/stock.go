package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/wonny/quantdiag/internal/api/response"
)

// StockHandler 종목 분석 API
type StockHandler struct {
	analyzer Analyzer
}

// NewStockHandler creates a new stock handler
func NewStockHandler(analyzer Analyzer) *StockHandler {
	return &StockHandler{analyzer: analyzer}
}

// Indicators 기술적 지표
// GET /api/v1/stocks/:code/indicators
func (h *StockHandler) Indicators(c *gin.Context) {
	code, ok := stockCode(c)
	if !ok {
		return
	}
	ind, err := h.analyzer.Indicators(c.Request.Context(), code)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, ind)
}

// Diagnosis 종합 진단
// GET /api/v1/stocks/:code/diagnosis
func (h *StockHandler) Diagnosis(c *gin.Context) {
	code, ok := stockCode(c)
	if !ok {
		return
	}
	d, err := h.analyzer.Diagnose(c.Request.Context(), code)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, d)
}

// Squeeze 숏스퀴즈 평가
// GET /api/v1/stocks/:code/squeeze
func (h *StockHandler) Squeeze(c *gin.Context) {
	code, ok := stockCode(c)
	if !ok {
		return
	}
	a, err := h.analyzer.Squeeze(c.Request.Context(), code)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, a)
}

// SqueezeCandidates 숏스퀴즈 후보 스캔
// GET /api/v1/squeeze/candidates?min_score=&limit=
func (h *StockHandler) SqueezeCandidates(c *gin.Context) {
	defaults := h.analyzer.SqueezeConfig()
	minScore, ok := queryInt(c, "min_score", defaults.ScanMinScore, 0, 100)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 20, 1, maxLimit)
	if !ok {
		return
	}

	candidates, err := h.analyzer.SqueezeCandidates(c.Request.Context(), minScore, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessList(c, candidates, len(candidates), len(candidates))
}
