package usecase

import (
	"context"
	"errors"
	"testing"

	"StockSense/internal/services/analysis"
	applogger "StockSense/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMarket serves canned payloads keyed by endpoint name and records which
// endpoints were hit.
type stubMarket struct {
	payloads map[string]any
	errs     map[string]error
	calls    map[string]int
}

func newStubMarket() *stubMarket {
	return &stubMarket{
		payloads: map[string]any{},
		errs:     map[string]error{},
		calls:    map[string]int{},
	}
}

func (s *stubMarket) serve(name string) (any, error) {
	s.calls[name]++
	if err := s.errs[name]; err != nil {
		return nil, err
	}
	return s.payloads[name], nil
}

func (s *stubMarket) Profile(ctx context.Context, ticker string) (any, error) {
	return s.serve("profile")
}
func (s *stubMarket) Quote(ctx context.Context, symbol string) (any, error) {
	if symbol == "^VIX" {
		return s.serve("vix")
	}
	return s.serve("quote")
}
func (s *stubMarket) KeyMetricsTTM(ctx context.Context, ticker string) (any, error) {
	return s.serve("metrics")
}
func (s *stubMarket) RatiosTTM(ctx context.Context, ticker string) (any, error) {
	return s.serve("ratios")
}
func (s *stubMarket) FinancialGrowth(ctx context.Context, ticker string) (any, error) {
	return s.serve("growth")
}
func (s *stubMarket) BalanceSheet(ctx context.Context, ticker string) (any, error) {
	return s.serve("balance_sheet")
}
func (s *stubMarket) CashFlowQuarters(ctx context.Context, ticker string, limit int) (any, error) {
	return s.serve("cash_flow")
}
func (s *stubMarket) Earnings(ctx context.Context, ticker string) (any, error) {
	return s.serve("earnings")
}
func (s *stubMarket) AnalystEstimates(ctx context.Context, ticker string, limit int) (any, error) {
	return s.serve("estimates")
}
func (s *stubMarket) TreasuryRates(ctx context.Context) (any, error) {
	return s.serve("treasury")
}

func newTestAnalyzer(t *testing.T, market *stubMarket) *Analyzer {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	return NewAnalyzer(
		market,
		analysis.NewExtractor(l),
		analysis.NewEngine(l),
		analysis.NewResolver(),
		nil,
		l,
		"^VIX",
	)
}

func healthyPayloads() map[string]any {
	return map[string]any{
		"profile": []any{map[string]any{
			"sector":   "Technology",
			"industry": "Software",
			"beta":     1.1,
			"mktCap":   50e9,
		}},
		"quote": []any{map[string]any{
			"price":       100.0,
			"priceAvg200": 90.0,
			"marketCap":   50e9,
		}},
		"ratios": []any{map[string]any{
			"enterpriseValueMultipleTTM": 20.0,
			"netIncomePerShareTTM":       4.0,
			"priceToEarningsRatioTTM":    25.0,
		}},
		"metrics": []any{map[string]any{
			"returnOnInvestedCapitalTTM": 0.25,
			"freeCashFlowYieldTTM":       0.04,
		}},
		"growth":   []any{map[string]any{"revenueGrowth": 0.12}},
		"treasury": []any{map[string]any{"year10": 4.2}},
		"vix":      []any{map[string]any{"price": 16.0}},
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	market := newStubMarket()
	market.payloads = healthyPayloads()
	a := newTestAnalyzer(t, market)

	verdict, err := a.Analyze(context.Background(), AnalyzeParams{Ticker: "acme "})
	require.NoError(t, err)

	assert.Equal(t, "ACME", verdict.Ticker, "input is normalized")
	assert.NotEmpty(t, verdict.Strategy)
	assert.NotEmpty(t, verdict.ShortTerm)
	assert.NotEmpty(t, verdict.LongTerm)
	assert.True(t, verdict.IsProfitable)
	assert.True(t, verdict.RiskVaRPct.Valid)
	assert.LessOrEqual(t, verdict.RiskVaRPct.Value, 0.0)
	assert.GreaterOrEqual(t, verdict.MemePct, 0)
	assert.LessOrEqual(t, verdict.MemePct, 100)
	assert.NotEmpty(t, verdict.Signals)

	// Every endpoint was hit exactly once.
	for _, name := range []string{
		"profile", "quote", "metrics", "ratios", "growth",
		"balance_sheet", "cash_flow", "earnings", "estimates", "treasury", "vix",
	} {
		assert.Equal(t, 1, market.calls[name], name)
	}
}

func TestAnalyzeNoData(t *testing.T) {
	market := newStubMarket()
	a := newTestAnalyzer(t, market)

	_, err := a.Analyze(context.Background(), AnalyzeParams{Ticker: "GHOST"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestAnalyzeFailsWithoutProfile(t *testing.T) {
	market := newStubMarket()
	market.payloads = healthyPayloads()
	market.errs["profile"] = errors.New("upstream 503")
	a := newTestAnalyzer(t, market)

	_, err := a.Analyze(context.Background(), AnalyzeParams{Ticker: "ACME"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestAnalyzeFailsOnEmptyProfile(t *testing.T) {
	market := newStubMarket()
	market.payloads = healthyPayloads()
	market.payloads["profile"] = []any{}
	a := newTestAnalyzer(t, market)

	_, err := a.Analyze(context.Background(), AnalyzeParams{Ticker: "ACME"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestAnalyzeDegradesOnPartialFailure(t *testing.T) {
	market := newStubMarket()
	market.payloads = healthyPayloads()
	market.errs["treasury"] = errors.New("upstream 503")
	market.errs["earnings"] = errors.New("timeout")
	a := newTestAnalyzer(t, market)

	verdict, err := a.Analyze(context.Background(), AnalyzeParams{Ticker: "ACME"})
	require.NoError(t, err)
	assert.NotEmpty(t, verdict.Strategy)
}

func TestAnalyzeRequiresTicker(t *testing.T) {
	market := newStubMarket()
	a := newTestAnalyzer(t, market)

	_, err := a.Analyze(context.Background(), AnalyzeParams{Ticker: "  "})
	require.Error(t, err)
}

func TestAnalyzeCarriesEphemeralFlag(t *testing.T) {
	market := newStubMarket()
	market.payloads = healthyPayloads()
	a := newTestAnalyzer(t, market)

	verdict, err := a.Analyze(context.Background(), AnalyzeParams{Ticker: "ACME", Ephemeral: true})
	require.NoError(t, err)
	assert.True(t, verdict.Ephemeral)
}
