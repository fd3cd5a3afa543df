package di

import (
	"fmt"

	domrepo "StockSense/internal/domain/repository"
	"StockSense/internal/handler/api"
	icache "StockSense/internal/service/cache"
	"StockSense/internal/service/fmp"
	"StockSense/internal/services/analysis"
	"StockSense/internal/usecase"
	pkgcache "StockSense/pkg/cache"
	"StockSense/pkg/config"
	xhttp "StockSense/pkg/http"
	applogger "StockSense/pkg/logger"
	pkgmetrics "StockSense/pkg/metrics"
	"StockSense/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return pkgmetrics.New()
}

// ProvideMarketData creates the FMP client. Macro responses (treasury rates,
// index quotes) go through an in-process cache, layered over Redis when one
// is configured so replicas share the macro snapshot.
func ProvideMarketData(cfg *config.Config, l *applogger.Logger, m domrepo.Metrics) domrepo.MarketData {
	var macroCache pkgcache.Service
	if cfg.Analysis.Redis.Enabled {
		shared, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisAddr(cfg.Analysis.Redis.Addr),
			pkgcache.WithRedisPassword(cfg.Analysis.Redis.Password),
			pkgcache.WithRedisDB(cfg.Analysis.Redis.DB),
		)
		if err != nil {
			l.Warn("redis unavailable, macro cache falls back to memory", applogger.Error(err))
		} else {
			macroCache = pkgcache.NewLayeredCache(shared, pkgcache.WithLayeredMemorySize(128))
		}
	}
	if macroCache == nil {
		macroCache = pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(128))
	}
	return fmp.New(cfg.FMP.APIKey, cfg.FMP.BaseURL, cfg.FMP.Timeout,
		fmp.WithLogger(l),
		fmp.WithMetrics(m),
		fmp.WithCache(macroCache, cfg.Analysis.VerdictTTL),
		fmp.WithTreasuryWindow(cfg.FMP.TreasuryDays),
	)
}

func ProvideExtractor(l *applogger.Logger) *analysis.Extractor {
	return analysis.NewExtractor(l)
}

func ProvideEngine(l *applogger.Logger) *analysis.Engine {
	return analysis.NewEngine(l)
}

func ProvideResolver() *analysis.Resolver {
	return analysis.NewResolver()
}

// ProvideAnalyzer creates the analysis use case.
func ProvideAnalyzer(
	market domrepo.MarketData,
	extractor *analysis.Extractor,
	engine *analysis.Engine,
	resolver *analysis.Resolver,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(market, extractor, engine, resolver, m, l, cfg.FMP.VIXSymbol)
}

// ProvideVerdictCache creates the verdict byte cache: Redis when configured,
// otherwise in-process TTL.
func ProvideVerdictCache(cfg *config.Config) icache.BytesCache {
	if cfg.Analysis.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Analysis.Redis.Addr,
			Password: cfg.Analysis.Redis.Password,
			DB:       cfg.Analysis.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideHandler creates the Echo HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	analyzer *usecase.Analyzer,
	verdictCache icache.BytesCache,
	cfg *config.Config,
) xhttp.Handler {
	h := api.NewAnalyzeHandler(l, analyzer)
	h.SetCache(verdictCache)
	h.SetVerdictTTL(cfg.Analysis.VerdictTTL)
	h.SetRateLimit(cfg.Analysis.RateLimit.Capacity, cfg.Analysis.RateLimit.RefillPerSec)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, handler xhttp.Handler) *server.App {
	return server.New(cfg, l, handler)
}
