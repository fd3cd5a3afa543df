package fmp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"StockSense/internal/domain/repository"
	"StockSense/pkg/cache"
	apphttp "StockSense/pkg/http"
	applogger "StockSense/pkg/logger"
	"StockSense/pkg/util"
)

const (
	epProfile          = "profile"
	epScreener         = "company-screener"
	epQuote            = "quote"
	epKeyMetricsTTM    = "key-metrics-ttm"
	epRatiosTTM        = "ratios-ttm"
	epFinancialGrowth  = "financial-growth"
	epBalanceSheet     = "balance-sheet-statement"
	epCashFlow         = "cash-flow-statement"
	epEarnings         = "earnings"
	epAnalystEstimates = "analyst-estimates"
	epTreasuryRates    = "treasury-rates"
)

// Option configures the FMP client.
type Option func(*Client)

// WithCache stores macro-level responses (treasury rates, index quotes) in
// the given cache so concurrent analyses share one upstream fetch.
func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(cl *Client) { cl.log = l }
}

func WithMetrics(m repository.Metrics) Option {
	return func(cl *Client) { cl.metrics = m }
}

func WithTreasuryWindow(days int) Option {
	return func(cl *Client) { cl.treasuryDays = days }
}

// Client is a MarketData implementation backed by the Financial Modeling Prep
// stable REST API. Every method returns the decoded JSON payload as-is;
// provider error envelopes are collapsed to nil so callers see "no data"
// instead of a fake record.
type Client struct {
	apiKey  string
	baseURL string
	http    *apphttp.Client

	cache        cache.Service
	cacheTTL     time.Duration
	log          *applogger.Logger
	metrics      repository.Metrics
	treasuryDays int

	now func() time.Time
}

func New(apiKey, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         apphttp.NewClient(apphttp.WithTimeout(timeout)),
		cacheTTL:     15 * time.Minute,
		treasuryDays: 7,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ repository.MarketData = (*Client)(nil)

func (c *Client) Profile(ctx context.Context, ticker string) (any, error) {
	payload, err := c.get(ctx, epProfile, map[string]string{"symbol": ticker})
	if err != nil {
		return nil, err
	}
	if !isEmptyPayload(payload) {
		return payload, nil
	}

	// Some listings only surface through the screener; remap its field names
	// to the profile shape downstream readers expect.
	if c.log != nil {
		c.log.Warn("profile empty, falling back to screener", applogger.String("ticker", ticker))
	}
	screened, err := c.get(ctx, epScreener, map[string]string{"symbol": ticker, "limit": "1"})
	if err != nil {
		return nil, err
	}
	list, ok := screened.([]any)
	if !ok || len(list) == 0 {
		return nil, nil
	}
	row, ok := list[0].(map[string]any)
	if !ok {
		return nil, nil
	}
	profile := map[string]any{
		"symbol":      row["symbol"],
		"companyName": row["companyName"],
		"sector":      row["sector"],
		"industry":    row["industry"],
		"price":       row["price"],
		"beta":        row["beta"],
		"volAvg":      row["volume"],
	}
	if mc, ok := row["marketCap"]; ok {
		profile["mktCap"] = mc
	}
	return []any{profile}, nil
}

func (c *Client) Quote(ctx context.Context, symbol string) (any, error) {
	params := map[string]string{"symbol": symbol}
	// Index quotes (^VIX and friends) are shared by every analysis, so they
	// go through the cache.
	if strings.HasPrefix(symbol, "^") {
		return c.getCached(ctx, epQuote, params)
	}
	return c.get(ctx, epQuote, params)
}

func (c *Client) KeyMetricsTTM(ctx context.Context, ticker string) (any, error) {
	return c.get(ctx, epKeyMetricsTTM, map[string]string{"symbol": ticker})
}

func (c *Client) RatiosTTM(ctx context.Context, ticker string) (any, error) {
	return c.get(ctx, epRatiosTTM, map[string]string{"symbol": ticker})
}

func (c *Client) FinancialGrowth(ctx context.Context, ticker string) (any, error) {
	return c.get(ctx, epFinancialGrowth, map[string]string{
		"symbol": ticker,
		"period": "annual",
		"limit":  "1",
	})
}

func (c *Client) BalanceSheet(ctx context.Context, ticker string) (any, error) {
	return c.get(ctx, epBalanceSheet, map[string]string{"symbol": ticker, "limit": "1"})
}

func (c *Client) CashFlowQuarters(ctx context.Context, ticker string, limit int) (any, error) {
	return c.get(ctx, epCashFlow, map[string]string{
		"symbol": ticker,
		"period": "quarter",
		"limit":  strconv.Itoa(limit),
	})
}

func (c *Client) Earnings(ctx context.Context, ticker string) (any, error) {
	return c.get(ctx, epEarnings, map[string]string{"symbol": ticker})
}

func (c *Client) AnalystEstimates(ctx context.Context, ticker string, limit int) (any, error) {
	return c.get(ctx, epAnalystEstimates, map[string]string{
		"symbol": ticker,
		"period": "annual",
		"limit":  strconv.Itoa(limit),
	})
}

func (c *Client) TreasuryRates(ctx context.Context) (any, error) {
	to := c.now()
	from := to.AddDate(0, 0, -c.treasuryDays)
	return c.getCached(ctx, epTreasuryRates, map[string]string{
		"from": from.Format(util.DayLayout),
		"to":   to.Format(util.DayLayout),
	})
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) (any, error) {
	query := map[string][]string{"apikey": {c.apiKey}}
	for k, v := range params {
		query[k] = []string{v}
	}

	var payload any
	err := c.http.SendAndParse(ctx, &apphttp.RequestOptions{
		Method:      apphttp.MethodGet,
		URL:         c.baseURL + "/" + endpoint,
		QueryParams: query,
	}, &payload)
	if c.metrics != nil {
		c.metrics.RecordFetch(endpoint, err == nil)
	}
	if err != nil {
		return nil, fmt.Errorf("fmp %s: %w", endpoint, err)
	}

	// The provider reports quota and symbol errors as a 200 with an error
	// envelope instead of a status code.
	if obj, ok := payload.(map[string]any); ok {
		if msg, found := obj["Error Message"]; found {
			if c.log != nil {
				c.log.Warn("provider error envelope",
					applogger.String("endpoint", endpoint),
					applogger.Any("message", msg),
				)
			}
			return nil, nil
		}
	}
	return payload, nil
}

func (c *Client) getCached(ctx context.Context, endpoint string, params map[string]string) (any, error) {
	if c.cache == nil {
		return c.get(ctx, endpoint, params)
	}

	key := cacheKey(endpoint, params)
	var cached any
	if err := c.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	payload, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		if err := c.cache.Set(ctx, key, payload, c.cacheTTL); err != nil && c.log != nil {
			c.log.Warn("cache set failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return payload, nil
}

func cacheKey(endpoint string, params map[string]string) string {
	parts := make([]any, 0, 3)
	for _, k := range []string{"symbol", "from", "to"} {
		if v, ok := params[k]; ok {
			parts = append(parts, v)
		}
	}
	return cache.Key("fmp:"+endpoint, parts...)
}

func isEmptyPayload(payload any) bool {
	switch v := payload.(type) {
	case nil:
		return true
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}
