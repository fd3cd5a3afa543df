package analysis

import (
	"strconv"

	"StockSense/internal/domain/models"
	applogger "StockSense/pkg/logger"
	"StockSense/pkg/util"
)

// Extractor normalizes provider-shaped JSON into NormalizedFinancials.
// Missing fields are data-quality warnings, never errors.
type Extractor struct {
	log *applogger.Logger
}

func NewExtractor(l *applogger.Logger) *Extractor { return &Extractor{log: l} }

// AsObject collapses a provider payload to a single JSON object: list-wrapped
// single-object responses yield the first element, empty lists and nil yield
// an empty map.
func AsObject(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case []any:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]any); ok {
				return obj
			}
		}
		return map[string]any{}
	default:
		return map[string]any{}
	}
}

// AsList normalizes a provider payload to a list of objects.
func AsList(raw any) []map[string]any {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Field extracts a numeric field; absence is reported as a data-quality
// warning under desc.
func (e *Extractor) Field(src map[string]any, key, desc string) models.OptFloat {
	if v, ok := src[key]; ok && v != nil {
		if f, ok := toFloat(v); ok {
			return models.Float(f)
		}
	}
	if e.log != nil && desc != "" {
		e.log.Warn("missing metric", applogger.String("field", desc), applogger.String("key", key))
	}
	return models.None()
}

// Optional extracts a numeric field without warning on absence.
func (e *Extractor) Optional(src map[string]any, key string) models.OptFloat {
	if v, ok := src[key]; ok && v != nil {
		if f, ok := toFloat(v); ok {
			return models.Float(f)
		}
	}
	return models.None()
}

// Text extracts a string field with a default.
func (e *Extractor) Text(src map[string]any, key, def string) string {
	if v, ok := src[key]; ok && v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

// first returns the first present value of the fallback chain; values are
// never averaged or merged.
func first(vals ...models.OptFloat) models.OptFloat {
	for _, v := range vals {
		if v.Valid {
			return v
		}
	}
	return models.None()
}

// Normalize builds the canonical record from one raw bundle.
func (e *Extractor) Normalize(b *models.RawMetricBundle) *models.NormalizedFinancials {
	p := AsObject(b.Profile)
	q := AsObject(b.Quote)
	m := AsObject(b.Metrics)
	r := AsObject(b.Ratios)
	g := AsObject(b.Growth)
	t := AsObject(b.Treasury)
	vix := AsObject(b.VIX)

	fin := &models.NormalizedFinancials{
		Ticker:   b.Ticker,
		Sector:   e.Text(p, "sector", "Unknown"),
		Industry: e.Text(p, "industry", "Unknown"),

		Price:       first(e.Optional(q, "price"), e.Field(p, "price", "Quote Price")),
		PriceAvg200: e.Optional(q, "priceAvg200"),
		// Beta carries a neutral domain default; a market-average sensitivity
		// is the safest assumption when the provider omits it.
		Beta:      first(e.Optional(p, "beta"), models.Float(1.0)),
		MarketCap: first(e.Optional(q, "marketCap"), e.Field(p, "mktCap", "MarketCap")),
		Volume:    e.Optional(q, "volume"),
		AvgVolume: e.Optional(q, "avgVolume"),

		EVEBITDA:    first(e.Optional(r, "enterpriseValueMultipleTTM"), e.Optional(m, "enterpriseValueOverEBITDATTM")),
		FCFYieldTTM: e.Optional(m, "freeCashFlowYieldTTM"),
		ROIC:        e.Optional(m, "returnOnInvestedCapitalTTM"),
		NetMargin:   e.Optional(r, "netProfitMarginTTM"),
		PSRatio:     e.Optional(r, "priceToSalesRatioTTM"),
		PEGTTM:      e.Optional(r, "priceToEarningsGrowthRatioTTM"),
		PETTM:       e.Optional(r, "priceToEarningsRatioTTM"),
		EPSTTM:      first(e.Optional(r, "netIncomePerShareTTM"), e.Optional(m, "netIncomePerShareTTM")),

		RevenueGrowth:   e.Optional(g, "revenueGrowth"),
		NetIncomeGrowth: e.Optional(g, "netIncomeGrowth"),

		Yield10Y: e.Optional(t, "year10"),
		VIX:      e.Optional(vix, "price"),
	}

	for _, cf := range AsList(b.CashFlow) {
		fin.CashFlows = append(fin.CashFlows, models.CashFlowQuarter{
			OperatingCashFlow:        e.Optional(cf, "netCashProvidedByOperatingActivities"),
			DepreciationAmortization: e.Optional(cf, "depreciationAndAmortization"),
		})
	}

	for _, rec := range AsList(b.Earnings) {
		date, ok := util.ParseDay(e.Text(rec, "date", ""))
		if !ok {
			continue
		}
		fin.Earnings = append(fin.Earnings, models.EarningsRecord{
			Date:         date,
			EPSActual:    e.Optional(rec, "epsActual"),
			EPSEstimated: e.Optional(rec, "epsEstimated"),
			Revenue:      first(e.Optional(rec, "revenueActual"), e.Optional(rec, "revenue")),
		})
	}

	for _, rec := range AsList(b.Estimates) {
		date, ok := util.ParseDay(e.Text(rec, "date", ""))
		if !ok {
			continue
		}
		fin.Estimates = append(fin.Estimates, models.EstimateRecord{
			Date:   date,
			EPSAvg: e.Optional(rec, "epsAvg"),
		})
	}

	return fin
}
