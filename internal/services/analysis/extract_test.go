package analysis

import (
	"testing"

	"StockSense/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsObject(t *testing.T) {
	obj := map[string]any{"price": 42.0}
	assert.Equal(t, obj, AsObject(obj))
	assert.Equal(t, obj, AsObject([]any{obj}), "list-of-one collapses")
	assert.Empty(t, AsObject([]any{}))
	assert.Empty(t, AsObject(nil))
	assert.Empty(t, AsObject("garbage"))
}

func TestNormalizeFallbackChains(t *testing.T) {
	e := NewExtractor(nil)

	fin := e.Normalize(&models.RawMetricBundle{
		Ticker: "ACME",
		Profile: []any{map[string]any{
			"sector":   "Technology",
			"industry": "Software",
			"price":    95.0,
			"mktCap":   10e9,
		}},
		Quote: []any{map[string]any{
			"price":       100.0,
			"priceAvg200": 90.0,
		}},
		Ratios: []any{map[string]any{
			"enterpriseValueMultipleTTM": 25.0,
			"netIncomePerShareTTM":       3.5,
		}},
		Metrics: []any{map[string]any{
			"enterpriseValueOverEBITDATTM": 99.0, // ratios version wins
		}},
	})

	// Quote price takes precedence over the profile price.
	assert.Equal(t, models.Float(100.0), fin.Price)
	// MarketCap falls back to the profile when the quote omits it.
	assert.Equal(t, models.Float(10e9), fin.MarketCap)
	assert.Equal(t, models.Float(25.0), fin.EVEBITDA)
	assert.Equal(t, models.Float(3.5), fin.EPSTTM)
	assert.Equal(t, "Technology", fin.Sector)
}

func TestNormalizeBetaDefaultsToOne(t *testing.T) {
	e := NewExtractor(nil)
	fin := e.Normalize(&models.RawMetricBundle{Ticker: "ACME"})
	assert.Equal(t, models.Float(1.0), fin.Beta)
	assert.False(t, fin.Price.Valid)
	assert.Equal(t, "Unknown", fin.Sector)
}

func TestNormalizeEPSFallsBackToMetrics(t *testing.T) {
	e := NewExtractor(nil)
	fin := e.Normalize(&models.RawMetricBundle{
		Ticker:  "ACME",
		Metrics: []any{map[string]any{"netIncomePerShareTTM": 2.0}},
	})
	assert.Equal(t, models.Float(2.0), fin.EPSTTM)
	assert.True(t, fin.IsProfitable())
}

func TestNormalizeParsesRecords(t *testing.T) {
	e := NewExtractor(nil)
	fin := e.Normalize(&models.RawMetricBundle{
		Ticker: "ACME",
		CashFlow: []any{
			map[string]any{
				"netCashProvidedByOperatingActivities": 1.5e9,
				"depreciationAndAmortization":          1.0e9,
			},
		},
		Earnings: []any{
			map[string]any{
				"date":         "2026-03-31",
				"epsActual":    1.1,
				"epsEstimated": 1.0,
				"revenue":      5e9,
			},
			map[string]any{"date": "bad-date", "epsActual": 1.0},
		},
		Estimates: []any{
			map[string]any{"date": "2026-12-31", "epsAvg": 4.2},
		},
	})

	require.Len(t, fin.CashFlows, 1)
	assert.Equal(t, models.Float(1.5e9), fin.CashFlows[0].OperatingCashFlow)

	require.Len(t, fin.Earnings, 1, "unparseable dates are dropped")
	assert.Equal(t, models.Float(1.1), fin.Earnings[0].EPSActual)
	assert.Equal(t, models.Float(5e9), fin.Earnings[0].Revenue)

	require.Len(t, fin.Estimates, 1)
	assert.Equal(t, models.Float(4.2), fin.Estimates[0].EPSAvg)
}

func TestNormalizeTreasuryAndVIX(t *testing.T) {
	e := NewExtractor(nil)
	fin := e.Normalize(&models.RawMetricBundle{
		Ticker: "ACME",
		Treasury: []any{
			map[string]any{"date": "2026-05-29", "year10": 4.35},
			map[string]any{"date": "2026-05-28", "year10": 4.40},
		},
		VIX: []any{map[string]any{"symbol": "^VIX", "price": 17.5}},
	})

	// Most recent treasury record wins.
	assert.Equal(t, models.Float(4.35), fin.Yield10Y)
	assert.Equal(t, models.Float(17.5), fin.VIX)
}
