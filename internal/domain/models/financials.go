package models

import (
	"encoding/json"
	"time"
)

// OptFloat is an explicitly-optional float. A provider metric is either a
// concrete value or absent; absent is never conflated with zero.
type OptFloat struct {
	Value float64
	Valid bool
}

// Float wraps a concrete value.
func Float(v float64) OptFloat { return OptFloat{Value: v, Valid: true} }

// None is the absent marker.
func None() OptFloat { return OptFloat{} }

// Or returns the value, or def when absent.
func (o OptFloat) Or(def float64) float64 {
	if o.Valid {
		return o.Value
	}
	return def
}

// Above reports whether the value is present and strictly greater than x.
func (o OptFloat) Above(x float64) bool { return o.Valid && o.Value > x }

// Below reports whether the value is present and strictly less than x.
func (o OptFloat) Below(x float64) bool { return o.Valid && o.Value < x }

// MarshalJSON renders absent values as null.
func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON accepts null as absent.
func (o *OptFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = OptFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Float(v)
	return nil
}

// RawMetricBundle holds the provider-shaped JSON for one analysis request,
// one entry per endpoint category. Values are raw decoded JSON (object,
// list-of-one-object, empty list, or nil when the fetch failed); shape
// normalization is the extractor's job.
type RawMetricBundle struct {
	Ticker       string
	Profile      any
	Quote        any
	Metrics      any
	Ratios       any
	Growth       any
	BalanceSheet any
	CashFlow     any
	Earnings     any
	Estimates    any
	Treasury     any
	VIX          any
}

// CashFlowQuarter is one quarterly cash-flow statement record.
type CashFlowQuarter struct {
	OperatingCashFlow        OptFloat
	DepreciationAmortization OptFloat
}

// EarningsRecord is one reported quarter.
type EarningsRecord struct {
	Date         time.Time
	EPSActual    OptFloat
	EPSEstimated OptFloat
	Revenue      OptFloat
}

// EstimateRecord is one annual analyst estimate.
type EstimateRecord struct {
	Date   time.Time
	EPSAvg OptFloat
}

// NormalizedFinancials is the canonical per-security record the pipeline
// computes over. Every field is a concrete value or an explicit absent
// marker; it is immutable once built.
type NormalizedFinancials struct {
	Ticker   string
	Sector   string
	Industry string

	Price       OptFloat
	PriceAvg200 OptFloat
	Beta        OptFloat
	MarketCap   OptFloat
	Volume      OptFloat
	AvgVolume   OptFloat

	EVEBITDA    OptFloat
	FCFYieldTTM OptFloat
	ROIC        OptFloat
	NetMargin   OptFloat
	PSRatio     OptFloat
	PEGTTM      OptFloat
	PETTM       OptFloat
	EPSTTM      OptFloat

	RevenueGrowth   OptFloat
	NetIncomeGrowth OptFloat

	Yield10Y OptFloat
	VIX      OptFloat

	CashFlows []CashFlowQuarter // most recent first, at most 4
	Earnings  []EarningsRecord  // unordered as fetched, capped later
	Estimates []EstimateRecord
}

// IsProfitable reports TTM profitability: EPS per share when known,
// otherwise the sign of the net margin. Unknown means not profitable.
func (f *NormalizedFinancials) IsProfitable() bool {
	if f.EPSTTM.Valid {
		return f.EPSTTM.Value > 0
	}
	if f.NetMargin.Valid {
		return f.NetMargin.Value > 0
	}
	return false
}
