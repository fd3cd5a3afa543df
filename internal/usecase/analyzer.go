package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"StockSense/internal/domain/models"
	domrepo "StockSense/internal/domain/repository"
	"StockSense/internal/services/analysis"
	applogger "StockSense/pkg/logger"
)

// ErrNoData means the provider has no record of the ticker at all.
var ErrNoData = errors.New("no provider data for ticker")

// AnalyzeParams are the inputs of one analysis request.
type AnalyzeParams struct {
	Ticker    string
	Ephemeral bool
}

// Analyzer runs the full pipeline for one ticker: fan out the provider
// fetches, normalize, evaluate signals, resolve the verdict.
type Analyzer struct {
	market    domrepo.MarketData
	extractor *analysis.Extractor
	engine    *analysis.Engine
	resolver  *analysis.Resolver
	metrics   domrepo.Metrics
	log       *applogger.Logger

	vixSymbol string
	timeout   time.Duration
}

func NewAnalyzer(
	market domrepo.MarketData,
	extractor *analysis.Extractor,
	engine *analysis.Engine,
	resolver *analysis.Resolver,
	metrics domrepo.Metrics,
	log *applogger.Logger,
	vixSymbol string,
) *Analyzer {
	if vixSymbol == "" {
		vixSymbol = "^VIX"
	}
	return &Analyzer{
		market:    market,
		extractor: extractor,
		engine:    engine,
		resolver:  resolver,
		metrics:   metrics,
		log:       log,
		vixSymbol: vixSymbol,
		timeout:   20 * time.Second,
	}
}

// Analyze produces a verdict for one ticker. Individual fetch failures
// degrade the record rather than fail the request; only a missing profile
// aborts with ErrNoData.
func (a *Analyzer) Analyze(ctx context.Context, p AnalyzeParams) (*models.VerdictResult, error) {
	ticker := strings.ToUpper(strings.TrimSpace(p.Ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	started := time.Now()
	bundle, fetchErrs := a.fetchBundle(ctx, ticker)
	if a.metrics != nil {
		a.metrics.RecordLatency("fetch_bundle", time.Since(started).Seconds())
	}
	for name, err := range fetchErrs {
		a.log.Warn("fetch degraded",
			applogger.String("ticker", ticker),
			applogger.String("endpoint", name),
			applogger.Error(err),
		)
	}

	// The issuer profile is the one payload the pipeline cannot degrade
	// around. Everything else missing just weakens the verdict.
	if emptyPayload(bundle.Profile) {
		if a.metrics != nil {
			a.metrics.RecordError("no_data")
		}
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoData)
	}

	fin := a.extractor.Normalize(bundle)
	ev := a.engine.Evaluate(fin)
	outcome, ruleName := a.resolver.Resolve(ev)

	a.log.Info("verdict resolved",
		applogger.String("ticker", ticker),
		applogger.String("rule", ruleName),
		applogger.Int("meme_pct", ev.MemePct),
		applogger.Int("signals", len(ev.Signals)),
	)
	if a.metrics != nil {
		a.metrics.RecordMemePct(ticker, float64(ev.MemePct))
		a.metrics.RecordVerdict(outcome.ShortTerm)
		a.metrics.RecordLatency("analyze", time.Since(started).Seconds())
	}

	return &models.VerdictResult{
		Ticker:       ticker,
		GeneratedAt:  time.Now().UTC(),
		ShortTerm:    outcome.ShortTerm,
		LongTerm:     outcome.LongTerm,
		Strategy:     outcome.Strategy,
		RiskVaRPct:   ev.VaR,
		MemePct:      ev.MemePct,
		MemeLabel:    ev.MemeLabel,
		GrowthTier:   string(ev.Tier),
		IsProfitable: ev.Profitable,
		Price:        fin.Price,
		MarketCap:    fin.MarketCap,
		Beta:         fin.Beta,
		Signals:      ev.Signals.List(),
		FactorLog:    ev.FactorLog,
		Ephemeral:    p.Ephemeral,
	}, nil
}

// emptyPayload reports whether a provider payload carries no records.
func emptyPayload(payload any) bool {
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

// fetchBundle issues all provider requests concurrently and collects whatever
// arrives. Errors are returned per endpoint so the caller can log the
// degradation without losing the rest of the bundle.
func (a *Analyzer) fetchBundle(ctx context.Context, ticker string) (*models.RawMetricBundle, map[string]error) {
	bundle := &models.RawMetricBundle{Ticker: ticker}

	type item struct {
		name string
		val  any
		err  error
	}
	ch := make(chan item, 11)
	var wg sync.WaitGroup

	fetch := func(name string, fn func(context.Context) (any, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := fn(ctx)
			ch <- item{name, v, err}
		}()
	}

	fetch("profile", func(ctx context.Context) (any, error) { return a.market.Profile(ctx, ticker) })
	fetch("quote", func(ctx context.Context) (any, error) { return a.market.Quote(ctx, ticker) })
	fetch("metrics", func(ctx context.Context) (any, error) { return a.market.KeyMetricsTTM(ctx, ticker) })
	fetch("ratios", func(ctx context.Context) (any, error) { return a.market.RatiosTTM(ctx, ticker) })
	fetch("growth", func(ctx context.Context) (any, error) { return a.market.FinancialGrowth(ctx, ticker) })
	fetch("balance_sheet", func(ctx context.Context) (any, error) { return a.market.BalanceSheet(ctx, ticker) })
	fetch("cash_flow", func(ctx context.Context) (any, error) { return a.market.CashFlowQuarters(ctx, ticker, 4) })
	fetch("earnings", func(ctx context.Context) (any, error) { return a.market.Earnings(ctx, ticker) })
	fetch("estimates", func(ctx context.Context) (any, error) { return a.market.AnalystEstimates(ctx, ticker, 10) })
	fetch("treasury", func(ctx context.Context) (any, error) { return a.market.TreasuryRates(ctx) })
	fetch("vix", func(ctx context.Context) (any, error) { return a.market.Quote(ctx, a.vixSymbol) })

	go func() { wg.Wait(); close(ch) }()

	errs := map[string]error{}
	for it := range ch {
		if it.err != nil {
			errs[it.name] = it.err
			continue
		}
		switch it.name {
		case "profile":
			bundle.Profile = it.val
		case "quote":
			bundle.Quote = it.val
		case "metrics":
			bundle.Metrics = it.val
		case "ratios":
			bundle.Ratios = it.val
		case "growth":
			bundle.Growth = it.val
		case "balance_sheet":
			bundle.BalanceSheet = it.val
		case "cash_flow":
			bundle.CashFlow = it.val
		case "earnings":
			bundle.Earnings = it.val
		case "estimates":
			bundle.Estimates = it.val
		case "treasury":
			bundle.Treasury = it.val
		case "vix":
			bundle.VIX = it.val
		}
	}
	return bundle, errs
}
