package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/wonny/quantdiag/internal/api/response"
)

// ScreenerHandler 퀀트 스크리너 API
type ScreenerHandler struct {
	analyzer Analyzer
}

// NewScreenerHandler creates a new screener handler
func NewScreenerHandler(analyzer Analyzer) *ScreenerHandler {
	return &ScreenerHandler{analyzer: analyzer}
}

// MagicFormula 마법의 공식
// GET /api/v1/screener/magic-formula?limit=&min_market_cap=
func (h *ScreenerHandler) MagicFormula(c *gin.Context) {
	p := h.analyzer.ScreenerConfig().MagicFormula
	var ok bool
	if p.Limit, ok = queryInt(c, "limit", p.Limit, 1, maxLimit); !ok {
		return
	}
	if p.MinMarketCap, ok = queryDecimal(c, "min_market_cap", p.MinMarketCap); !ok {
		return
	}

	res, err := h.analyzer.MagicFormula(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessList(c, res, len(res.Items), res.Total)
}

// PEG 저PEG 성장주
// GET /api/v1/screener/peg?max_peg=&min_eps_growth=&limit=
func (h *ScreenerHandler) PEG(c *gin.Context) {
	p := h.analyzer.ScreenerConfig().PEG
	var ok bool
	if p.MaxPEG, ok = queryFloat(c, "max_peg", p.MaxPEG); !ok {
		return
	}
	if p.MinEPSGrowth, ok = queryFloat(c, "min_eps_growth", p.MinEPSGrowth); !ok {
		return
	}
	if p.Limit, ok = queryInt(c, "limit", p.Limit, 1, maxLimit); !ok {
		return
	}
	if p.MaxPEG <= 0 {
		response.BadRequest(c, "max_peg must be positive")
		return
	}

	res, err := h.analyzer.PEG(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessList(c, res, len(res.Items), res.Total)
}

// Turnaround 흑자전환/이익급증
// GET /api/v1/screener/turnaround?min_growth_rate=&limit=
func (h *ScreenerHandler) Turnaround(c *gin.Context) {
	p := h.analyzer.ScreenerConfig().Turnaround
	var ok bool
	if p.MinGrowthRate, ok = queryFloat(c, "min_growth_rate", p.MinGrowthRate); !ok {
		return
	}
	if p.Limit, ok = queryInt(c, "limit", p.Limit, 1, maxLimit); !ok {
		return
	}

	res, err := h.analyzer.Turnaround(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessList(c, res, len(res.Items), res.Total)
}

// Summary 세 스크리너 상위 요약
// GET /api/v1/screener/summary
func (h *ScreenerHandler) Summary(c *gin.Context) {
	s, err := h.analyzer.ScreenerSummary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, s)
}
