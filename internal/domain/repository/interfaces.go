package repository

import (
	"context"
)

// MarketData is the external financial-data collaborator. Each method fetches
// one provider endpoint and returns the raw decoded JSON (object,
// list-of-one-object, empty list) or an error; shape normalization happens
// downstream. Implementations must honor ctx deadlines.
type MarketData interface {
	Profile(ctx context.Context, ticker string) (any, error)
	Quote(ctx context.Context, symbol string) (any, error)
	KeyMetricsTTM(ctx context.Context, ticker string) (any, error)
	RatiosTTM(ctx context.Context, ticker string) (any, error)
	FinancialGrowth(ctx context.Context, ticker string) (any, error)
	BalanceSheet(ctx context.Context, ticker string) (any, error)
	CashFlowQuarters(ctx context.Context, ticker string, limit int) (any, error)
	Earnings(ctx context.Context, ticker string) (any, error)
	AnalystEstimates(ctx context.Context, ticker string, limit int) (any, error)
	TreasuryRates(ctx context.Context) (any, error)
}

// Metrics records operational metrics for the analysis service.
type Metrics interface {
	RecordFetch(endpoint string, success bool)
	RecordError(kind string)
	RecordMemePct(ticker string, pct float64)
	RecordVerdict(shortTerm string)
	RecordLatency(op string, seconds float64)
}
