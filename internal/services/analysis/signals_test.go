package analysis

import (
	"strings"
	"testing"
	"time"

	"StockSense/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engineToday = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(nil).WithClock(func() time.Time { return engineToday })
}

func profitableBase() *models.NormalizedFinancials {
	return &models.NormalizedFinancials{
		Ticker:      "ACME",
		Sector:      "Industrials",
		Industry:    "Machinery",
		Price:       models.Float(100),
		PriceAvg200: models.Float(95),
		Beta:        models.Float(1.0),
		MarketCap:   models.Float(50e9),
		EPSTTM:      models.Float(4.0),
		VIX:         models.Float(18),
		Yield10Y:    models.Float(4.2),
	}
}

func earningsQuarter(date string, eps, estimated float64) models.EarningsRecord {
	d, _ := time.Parse("2006-01-02", date)
	return models.EarningsRecord{
		Date:         d,
		EPSActual:    models.Float(eps),
		EPSEstimated: models.Float(estimated),
		Revenue:      models.Float(1e9),
	}
}

func TestEngineMacroSignals(t *testing.T) {
	e := newTestEngine()

	fin := profitableBase()
	fin.Yield10Y = models.Float(5.0)
	ev := e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalMacroHeadwind))
	assert.Equal(t, 0.7, ev.MacroFactor)

	fin.Yield10Y = models.Float(3.5)
	ev = e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalMacroTailwind))
	assert.Equal(t, 1.5, ev.MacroFactor)
}

func TestEngineExtremeVaR(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.Beta = models.Float(2.5)
	fin.VIX = models.Float(65)
	fin.EPSTTM = models.Float(-1.0)

	ev := e.Evaluate(fin)
	require.True(t, ev.VaR.Valid)
	assert.Less(t, ev.VaR.Value, -0.25)
	assert.True(t, ev.Signals.Has(models.SignalRiskExtremeVaR))
}

func TestEngineEVEBITDATriWay(t *testing.T) {
	e := newTestEngine()

	// Industrials benchmark is the default 18.
	fin := profitableBase()
	fin.EVEBITDA = models.Float(10) // ratio 0.56
	ev := e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalValuationCheap))

	fin.EVEBITDA = models.Float(30) // ratio 1.67
	ev = e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalValuationExpensive))

	fin.EVEBITDA = models.Float(18)
	ev = e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalValuationFair))
}

func TestEngineGrowthJustifiedPremium(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.EVEBITDA = models.Float(30)
	fin.RevenueGrowth = models.Float(0.35)
	fin.PEGTTM = models.Float(1.2)

	ev := e.Evaluate(fin)
	assert.Equal(t, TierHigh, ev.Tier)
	assert.False(t, ev.Signals.Has(models.SignalValuationExpensive),
		"high growth with a low PEG earns the premium")
}

func TestEngineMacroScalesValuation(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.EVEBITDA = models.Float(30)
	fin.Yield10Y = models.Float(3.5) // tailwind: adjusted ratio 1.67/1.5

	ev := e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalValuationFair))
}

func TestEnginePSPathForUnprofitable(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.EPSTTM = models.Float(-2.0)
	fin.PSRatio = models.Float(9.0)

	ev := e.Evaluate(fin)
	assert.False(t, ev.Profitable)
	assert.True(t, ev.Signals.Has(models.SignalPSExtreme))

	fin.PSRatio = models.Float(1.0)
	ev = e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalPSLow))
}

func TestEngineBlueOceanWidensPSBands(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.EPSTTM = models.Float(-2.0)
	fin.Industry = "Space Systems"
	fin.PSRatio = models.Float(9.0)

	// 9 is extreme on the standard band but merely elevated for blue ocean.
	ev := e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalBlueOcean))
	assert.False(t, ev.Signals.Has(models.SignalPSExtreme))
}

func TestEngineQualityTiers(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()

	fin.ROIC = models.Float(0.25)
	assert.True(t, e.Evaluate(fin).Signals.Has(models.SignalQualityTopTier))

	fin.ROIC = models.Float(0.15)
	assert.True(t, e.Evaluate(fin).Signals.Has(models.SignalQualityGood))

	fin.ROIC = models.Float(-0.05)
	assert.True(t, e.Evaluate(fin).Signals.Has(models.SignalQualityBad))

	fin.ROIC = models.Float(0.05)
	assert.True(t, e.Evaluate(fin).Signals.Has(models.SignalQualityAvg))

	fin.ROIC = models.None()
	assert.True(t, e.Evaluate(fin).Signals.Has(models.SignalQualityAvg))
}

func TestEngineAdjustedFCFYield(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.MarketCap = models.Float(100e9)
	fin.FCFYieldTTM = models.Float(0.010)
	fin.ROIC = models.Float(0.18)
	for i := 0; i < 4; i++ {
		fin.CashFlows = append(fin.CashFlows, models.CashFlowQuarter{
			OperatingCashFlow:        models.Float(1.5e9),
			DepreciationAmortization: models.Float(1.0e9),
		})
	}

	// (6e9 - 0.5*4e9) / 100e9 = 4%.
	ev := e.Evaluate(fin)
	require.True(t, ev.AdjFCFYield.Valid)
	assert.InDelta(t, 0.04, ev.AdjFCFYield.Value, 1e-9)
	assert.True(t, ev.Signals.Has(models.SignalCashflowRich))
	assert.True(t, ev.Signals.Has(models.SignalQualityExpansion))
}

func TestEngineFCFFallsBackToRawYield(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.FCFYieldTTM = models.Float(0.02)
	fin.CashFlows = []models.CashFlowQuarter{
		{OperatingCashFlow: models.Float(1e9)}, // D&A missing
		{OperatingCashFlow: models.Float(1e9), DepreciationAmortization: models.Float(5e8)},
	}

	ev := e.Evaluate(fin)
	assert.False(t, ev.AdjFCFYield.Valid)
	assert.True(t, ev.Signals.Has(models.SignalCashflowHealthy))
	assert.False(t, ev.Signals.Has(models.SignalQualityExpansion))
}

func TestEngineEarningsTurnaround(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.Earnings = []models.EarningsRecord{
		earningsQuarter("2025-09-30", -0.50, -0.55),
		earningsQuarter("2025-12-31", -0.30, -0.35),
		earningsQuarter("2026-03-31", -0.10, -0.15),
		earningsQuarter("2026-05-15", 0.05, 0.01),
	}

	ev := e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalTurnaroundProfit))
	assert.False(t, ev.Signals.Has(models.SignalLossNarrowing))
}

func TestEngineLossNarrowing(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.Earnings = []models.EarningsRecord{
		earningsQuarter("2025-09-30", -0.50, -0.55),
		earningsQuarter("2025-12-31", -0.40, -0.45),
		earningsQuarter("2026-03-31", -0.20, -0.30),
	}

	ev := e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalLossNarrowing))
	assert.False(t, ev.Signals.Has(models.SignalTurnaroundProfit))
}

func TestEngineIgnoresFutureEarnings(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.Earnings = []models.EarningsRecord{
		earningsQuarter("2025-12-31", -0.40, -0.45),
		earningsQuarter("2026-03-31", -0.20, -0.30),
		earningsQuarter("2026-09-30", 0.10, 0.05), // not reported yet
	}

	ev := e.Evaluate(fin)
	assert.False(t, ev.Signals.Has(models.SignalTurnaroundProfit))
}

func TestEngineBeatRateCountsAllRecentQuarters(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	noEstimate := func(date string, eps float64) models.EarningsRecord {
		d, _ := time.Parse("2006-01-02", date)
		return models.EarningsRecord{Date: d, EPSActual: models.Float(eps), Revenue: models.Float(1e9)}
	}
	// Two beats out of four quarters: the two unestimated quarters count
	// against the rate, so 2/4 misses the 0.75 bar.
	fin.Earnings = []models.EarningsRecord{
		noEstimate("2025-09-30", 0.40),
		earningsQuarter("2025-12-31", 0.50, 0.45),
		noEstimate("2026-03-31", 0.55),
		earningsQuarter("2026-05-15", 0.60, 0.52),
	}

	ev := e.Evaluate(fin)
	found := false
	for _, line := range ev.FactorLog {
		if strings.Contains(line, "Missed estimates in 2 of the last 4 quarters") {
			found = true
		}
		require.NotContains(t, line, "Beat estimates")
	}
	assert.True(t, found)
}

func TestEngineResidualRisks(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.Price = models.Float(80)
	fin.PriceAvg200 = models.Float(100)
	fin.PETTM = models.Float(6)
	fin.RevenueGrowth = models.Float(-0.10)
	fin.Beta = models.Float(0.5)

	ev := e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalDowntrend))
	assert.True(t, ev.Signals.Has(models.SignalValueTrapRisk))
	assert.True(t, ev.Signals.Has(models.SignalLowVolatility))
}

func TestEngineDeepLossAndGiantCap(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.NetMargin = models.Float(-0.25)
	fin.MarketCap = models.Float(250e9)

	ev := e.Evaluate(fin)
	assert.True(t, ev.Signals.Has(models.SignalDeepLoss))
	assert.True(t, ev.Signals.Has(models.SignalGiantCap))
}

func TestEngineIsPure(t *testing.T) {
	e := newTestEngine()
	fin := profitableBase()
	fin.EVEBITDA = models.Float(30)
	fin.ROIC = models.Float(0.25)
	fin.PSRatio = models.Float(12)

	first := e.Evaluate(fin)
	second := e.Evaluate(fin)
	assert.Equal(t, first.Signals.List(), second.Signals.List())
	assert.Equal(t, first.FactorLog, second.FactorLog)
	assert.Equal(t, first.MemePct, second.MemePct)
}
