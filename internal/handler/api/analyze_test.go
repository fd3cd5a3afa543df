package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"StockSense/internal/service/cache"
	"StockSense/internal/services/analysis"
	"StockSense/internal/usecase"
	applogger "StockSense/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memMarket serves one healthy canned security and counts profile hits.
type memMarket struct {
	profileCalls int
}

func obj(kv map[string]any) any { return []any{kv} }

func (m *memMarket) Profile(ctx context.Context, ticker string) (any, error) {
	m.profileCalls++
	return obj(map[string]any{"sector": "Technology", "beta": 1.2, "mktCap": 30e9}), nil
}
func (m *memMarket) Quote(ctx context.Context, symbol string) (any, error) {
	if symbol == "^VIX" {
		return obj(map[string]any{"price": 15.0}), nil
	}
	return obj(map[string]any{"price": 50.0, "priceAvg200": 45.0}), nil
}
func (m *memMarket) KeyMetricsTTM(ctx context.Context, ticker string) (any, error) {
	return obj(map[string]any{"returnOnInvestedCapitalTTM": 0.22}), nil
}
func (m *memMarket) RatiosTTM(ctx context.Context, ticker string) (any, error) {
	return obj(map[string]any{"netIncomePerShareTTM": 2.0, "enterpriseValueMultipleTTM": 15.0}), nil
}
func (m *memMarket) FinancialGrowth(ctx context.Context, ticker string) (any, error) {
	return obj(map[string]any{"revenueGrowth": 0.1}), nil
}
func (m *memMarket) BalanceSheet(ctx context.Context, ticker string) (any, error) { return nil, nil }
func (m *memMarket) CashFlowQuarters(ctx context.Context, ticker string, limit int) (any, error) {
	return nil, nil
}
func (m *memMarket) Earnings(ctx context.Context, ticker string) (any, error) { return nil, nil }
func (m *memMarket) AnalystEstimates(ctx context.Context, ticker string, limit int) (any, error) {
	return nil, nil
}
func (m *memMarket) TreasuryRates(ctx context.Context) (any, error) {
	return obj(map[string]any{"year10": 4.1}), nil
}

func newTestHandler(t *testing.T, market *memMarket) (*AnalyzeHandler, *echo.Echo) {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)

	analyzer := usecase.NewAnalyzer(
		market,
		analysis.NewExtractor(l),
		analysis.NewEngine(l),
		analysis.NewResolver(),
		nil,
		l,
		"^VIX",
	)
	h := NewAnalyzeHandler(l, analyzer)
	h.SetCache(cache.NewTTLCache())
	h.SetRateLimit(100, 100)

	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doRequest(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	_, e := newTestHandler(t, &memMarket{})

	rec := doRequest(e, "/api/analyze?ticker=acme")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusOK, envelope.Status)

	var verdict struct {
		Ticker    string   `json:"ticker"`
		Strategy  string   `json:"strategy"`
		ShortTerm string   `json:"short_term"`
		Signals   []string `json:"signals"`
		Ephemeral bool     `json:"ephemeral"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &verdict))
	assert.Equal(t, "ACME", verdict.Ticker)
	assert.NotEmpty(t, verdict.Strategy)
	assert.NotEmpty(t, verdict.Signals)
	assert.False(t, verdict.Ephemeral)
}

func TestAnalyzeMissingTicker(t *testing.T) {
	_, e := newTestHandler(t, &memMarket{})
	rec := doRequest(e, "/api/analyze")
	// Validation errors come back in the envelope, not as a transport error.
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusBadRequest, envelope.Status)
}

func TestAnalyzeServesFromCache(t *testing.T) {
	market := &memMarket{}
	_, e := newTestHandler(t, market)

	require.Equal(t, http.StatusOK, doRequest(e, "/api/analyze?ticker=ACME").Code)
	require.Equal(t, http.StatusOK, doRequest(e, "/api/analyze?ticker=ACME").Code)
	assert.Equal(t, 1, market.profileCalls)
}

func TestAnalyzeEphemeralFlag(t *testing.T) {
	_, e := newTestHandler(t, &memMarket{})
	rec := doRequest(e, "/api/analyze?ticker=ACME&ephemeral=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Ephemeral bool `json:"ephemeral"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Data.Ephemeral)
}

func TestHealthz(t *testing.T) {
	_, e := newTestHandler(t, &memMarket{})
	rec := doRequest(e, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}
