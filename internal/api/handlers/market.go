package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/wonny/quantdiag/internal/api/response"
)

// MarketHandler 시장 타이밍 API
type MarketHandler struct {
	analyzer Analyzer
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(analyzer Analyzer) *MarketHandler {
	return &MarketHandler{analyzer: analyzer}
}

// Timing 코스피/코스닥 ADR 기반 시장 타이밍
// GET /api/v1/market/timing
func (h *MarketHandler) Timing(c *gin.Context) {
	t, err := h.analyzer.Timing(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, t)
}

// ADRHistory ADR 이력 (최신순)
// GET /api/v1/market/adr-history?days=
func (h *MarketHandler) ADRHistory(c *gin.Context) {
	days, ok := queryInt(c, "days", 60, 1, maxHistoryDays)
	if !ok {
		return
	}
	points, err := h.analyzer.ADRHistory(c.Request.Context(), days)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessList(c, points, len(points), len(points))
}
