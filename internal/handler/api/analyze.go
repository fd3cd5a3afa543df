package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	models "StockSense/internal/domain/models"
	icache "StockSense/internal/service/cache"
	"StockSense/internal/service/metrics"
	"StockSense/internal/service/ratelimit"
	"StockSense/internal/usecase"
	xhttp "StockSense/pkg/http"
	xlogger "StockSense/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyzeHandler serves the verdict endpoint over Echo.
type AnalyzeHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.Analyzer
	cache    icache.BytesCache
	rl       *ratelimit.Limiter

	verdictTTL time.Duration
	rlCapacity float64
	rlRefill   float64
}

func NewAnalyzeHandler(logger *xlogger.Logger, analyzer *usecase.Analyzer) *AnalyzeHandler {
	metrics.Register()
	return &AnalyzeHandler{
		logger:     logger,
		analyzer:   analyzer,
		rl:         ratelimit.New(),
		verdictTTL: 5 * time.Minute,
		rlCapacity: 5,
		rlRefill:   2,
	}
}

// SetCache enables verdict caching; a ticker analyzed twice inside the TTL
// is served from memory.
func (h *AnalyzeHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *AnalyzeHandler) SetVerdictTTL(ttl time.Duration) {
	if ttl > 0 {
		h.verdictTTL = ttl
	}
}

func (h *AnalyzeHandler) SetRateLimit(capacity, refillPerSec float64) {
	if capacity > 0 {
		h.rlCapacity = capacity
	}
	if refillPerSec > 0 {
		h.rlRefill = refillPerSec
	}
}

func (h *AnalyzeHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/analyze", h.Analyze)
	e.GET("/healthz", h.Health)
}

func (h *AnalyzeHandler) Analyze(c echo.Context) error {
	start := time.Now()
	endpoint := "analyze"
	defer func() {
		metrics.AnalyzeLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))

	if !h.rl.Allow(c.RealIP()+":analyze", h.rlCapacity, h.rlRefill) {
		h.logger.Warn("analyze rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.NewAppError(
			"ERR_RATE_LIMITED", "", "too many requests", http.StatusTooManyRequests))
	}

	cacheKey := "verdict:" + req.Ticker + ":" + strconv.FormatBool(req.Ephemeral)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("analyze cache_get_error", xlogger.Error(err))
		} else if ok {
			h.logger.Debug("analyze cache_hit", xlogger.String("key", cacheKey))
			var verdict models.VerdictResult
			if err := json.Unmarshal(b, &verdict); err == nil {
				return xhttp.SuccessResponse(c, &verdict)
			}
		}
	}

	verdict, err := h.analyzer.Analyze(c.Request().Context(), usecase.AnalyzeParams{
		Ticker:    req.Ticker,
		Ephemeral: req.Ephemeral,
	})
	if err != nil {
		metrics.AnalyzeErrors.WithLabelValues(endpoint).Inc()
		if errors.Is(err, usecase.ErrNoData) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no data for ticker %q", req.Ticker))
		}
		h.logger.Error("analyze usecase error",
			xlogger.String("ticker", req.Ticker),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		if b, err := json.Marshal(verdict); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, h.verdictTTL); err != nil {
				h.logger.Warn("analyze cache_set_error", xlogger.Error(err))
			}
		}
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, verdict)
}

func (h *AnalyzeHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
