package regime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/quantdiag/internal/domain/market"
)

func TestAssess(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	kospi := breadth(market.KOSPI, 20, 2600, 2000)
	kosdaq := breadth(market.KOSDAQ, 20, 4000, 3000)

	timing, err := c.Assess(kospi, kosdaq)
	require.NoError(t, err)

	require.NotNil(t, timing.CombinedADR)
	assert.InDelta(t, 6600.0/5000.0*100, *timing.CombinedADR, 1e-9)
	assert.Equal(t, ConditionOverheated, timing.OverallCondition)
	assert.Equal(t, ConditionOverheated.Suggestion(), timing.Strategy)
	assert.Equal(t, kospi[19].Date, timing.AnalysisDate)

	require.NotNil(t, timing.KOSPI)
	require.NotNil(t, timing.KOSDAQ)
	assert.Equal(t, ConditionOverheated, timing.KOSPI.Condition)
	assert.NotNil(t, timing.KOSPI.DailyRatio)

	assert.Contains(t, timing.Diagnosis, "종합 ADR(20일): 132.0")
	assert.Contains(t, timing.Diagnosis, "코스피 당일 등락비")
	assert.Contains(t, timing.Diagnosis, "코스닥 당일 등락비")
}

func TestAssess_InsufficientHistory(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	timing, err := c.Assess(breadth(market.KOSPI, 5, 500, 400), nil)
	require.NoError(t, err)
	assert.Nil(t, timing.CombinedADR)
	assert.Empty(t, timing.OverallCondition)
	assert.Empty(t, timing.Strategy)
	assert.Equal(t, "코스피 당일 등락비: 125.0", timing.Diagnosis)
}

func TestAssess_MissedDayStillAlerts(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	kospi := breadth(market.KOSPI, 21, 2100, 1050)[1:]
	full := breadth(market.KOSDAQ, 21, 2100, 1400)
	kosdaq := append(append([]market.MarketBreadth{}, full[:10]...), full[11:]...)

	timing, err := c.Assess(kospi, kosdaq)
	require.NoError(t, err)
	require.NotNil(t, timing.CombinedADR)
	assert.Equal(t, ConditionOverheated, timing.OverallCondition)
	assert.True(t, timing.OverallCondition.ShouldAlert())
	assert.True(t, strings.HasPrefix(timing.Diagnosis, "종합 ADR(20일): "))
	assert.Contains(t, timing.Diagnosis, " | 코스피 당일 등락비: ")
	assert.Contains(t, timing.Diagnosis, " | 코스닥 당일 등락비: ")
}

func TestHistory(t *testing.T) {
	c := NewClassifier(DefaultConfig())

	kospi := breadth(market.KOSPI, 25, 2500, 2500)
	kosdaq := breadth(market.KOSDAQ, 25, 2500, 2500)

	points, err := c.History(kospi, kosdaq, 10)
	require.NoError(t, err)
	require.Len(t, points, 10)

	assert.Equal(t, kospi[24].Date, points[0].Date)
	assert.True(t, points[0].Date.After(points[9].Date))
	for _, p := range points[:6] {
		require.NotNil(t, p.KOSPIADR)
		require.NotNil(t, p.KOSDAQADR)
		require.NotNil(t, p.CombinedADR)
		assert.InDelta(t, 100.0, *p.CombinedADR, 1e-9)
	}
	// the 7th newest point only has 19 days behind it
	assert.Nil(t, points[6].KOSPIADR)
	assert.Nil(t, points[6].CombinedADR)
}
