package analysis

import (
	"fmt"
	"sort"
	"time"

	"StockSense/internal/domain/models"
	applogger "StockSense/pkg/logger"
	"StockSense/pkg/util"
)

// Evaluation carries everything one pipeline pass derived from a normalized
// record: the signal set, the ordered rationale log, and the intermediate
// values the strategy resolver and verdict assembly read.
type Evaluation struct {
	Fin     *models.NormalizedFinancials
	Signals models.SignalSet

	// FactorLog is the ordered human-readable rationale, one line per fired
	// factor. Audit output only; never control flow.
	FactorLog []string

	MacroFactor float64
	VaR         models.OptFloat

	Forward    ForwardEstimate
	PEGUsed    models.OptFloat
	PEGForward bool
	Tier       GrowthTier
	MaxGrowth  float64

	AdjFCFYield models.OptFloat
	FCFUsed     models.OptFloat

	MemePct   int
	MemeLabel string

	BlueOcean  bool
	HardTech   bool
	Profitable bool
}

func (ev *Evaluation) addLog(format string, args ...any) {
	ev.FactorLog = append(ev.FactorLog, fmt.Sprintf(format, args...))
}

// Engine evaluates all signal conditions against a normalized record. It is
// a pure function of its input: same record, same signal set.
type Engine struct {
	log *applogger.Logger
	now func() time.Time
}

func NewEngine(l *applogger.Logger) *Engine {
	return &Engine{log: l, now: time.Now}
}

// WithClock overrides the engine clock; used by tests for date-sensitive rules.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Evaluate runs every rule family in a fixed order and returns the full
// evaluation. Signals are additive only.
func (e *Engine) Evaluate(fin *models.NormalizedFinancials) *Evaluation {
	ev := &Evaluation{
		Fin:        fin,
		Signals:    models.NewSignalSet(),
		Profitable: fin.IsProfitable(),
	}
	today := e.now()

	e.evalMacro(ev)
	e.evalRisk(ev)
	e.evalTrack(ev)
	e.evalMargin(ev)
	e.evalGrowth(ev, today)
	e.evalValuation(ev)
	e.evalQualityAndCashflow(ev)
	e.evalEarningsTrend(ev, today)
	e.evalResidualRisks(ev)
	e.evalMeme(ev)

	return ev
}

func (e *Engine) evalMacro(ev *Evaluation) {
	ev.MacroFactor = MacroFactor(ev.Fin.Yield10Y)
	switch ev.MacroFactor {
	case macroHeadwindFactor:
		ev.Signals.Add(models.SignalMacroHeadwind)
		ev.addLog("[Macro] 10Y treasury at %s%% compresses valuation bands.", num(ev.Fin.Yield10Y))
	case macroTailwindFactor:
		ev.Signals.Add(models.SignalMacroTailwind)
		ev.addLog("[Macro] 10Y treasury at %s%% supports multiple expansion.", num(ev.Fin.Yield10Y))
	}
}

func (e *Engine) evalRisk(ev *Evaluation) {
	ev.VaR = MonthlyVaR95(ev.Fin.Beta, ev.Fin.Price, ev.Fin.VIX, ev.Profitable)
	if ev.VaR.Valid && -ev.VaR.Value > 0.25 {
		ev.Signals.Add(models.SignalRiskExtremeVaR)
	}
}

func (e *Engine) evalTrack(ev *Evaluation) {
	ev.BlueOcean, ev.HardTech = classifyTrack(ev.Fin.Ticker, ev.Fin.Sector, ev.Fin.Industry)
	if ev.BlueOcean {
		ev.Signals.Add(models.SignalBlueOcean)
	}
	if ev.HardTech {
		ev.Signals.Add(models.SignalHardTech)
	}
	if ev.Fin.MarketCap.Above(200e9) {
		ev.Signals.Add(models.SignalGiantCap)
		ev.addLog("[Scale] Mega cap (%s): expect index-flow support and slower multiple compression.", util.FormatMarketCap(ev.Fin.MarketCap.Value))
	}
}

func (e *Engine) evalMargin(ev *Evaluation) {
	if ev.Fin.NetMargin.Above(0.20) {
		ev.addLog("[Profitability] Net margin (%s) is exceptional, evidence of pricing power or cost control.", pct(ev.Fin.NetMargin))
	}
	if ev.Fin.NetMargin.Below(-0.10) {
		ev.Signals.Add(models.SignalDeepLoss)
	}
}

func (e *Engine) evalGrowth(ev *Evaluation, today time.Time) {
	ev.Forward = ResolveForwardPEG(ev.Fin.Estimates, ev.Fin.Price, today)

	ev.PEGUsed = ev.Fin.PEGTTM
	if ev.Forward.PEG.Valid {
		ev.PEGUsed = ev.Forward.PEG
		ev.PEGForward = true
	}
	if e.log != nil {
		e.log.Info("peg decision",
			applogger.String("forward", num(ev.Forward.PEG)),
			applogger.String("ttm", num(ev.Fin.PEGTTM)),
			applogger.String("used", num(ev.PEGUsed)),
		)
	}

	ev.Tier, ev.MaxGrowth = BlendedGrowthTier(ev.Fin.RevenueGrowth, ev.Fin.NetIncomeGrowth, ev.Forward.Growth)
	ev.Signals.Add(TierSignal(ev.Tier))

	if !ev.PEGUsed.Valid {
		return
	}
	peg := ev.PEGUsed.Value
	switch {
	case peg < 0.8:
		ev.Signals.Add(models.SignalPEGUndervalued)
	case peg < 1.5:
		ev.Signals.Add(models.SignalPEGCheap)
	case peg > 3.0:
		ev.Signals.Add(models.SignalPEGExpensive)
	}

	pegType := "TTM"
	if ev.PEGForward {
		pegType = "Forward"
	}
	status, comment := pegNarrative(peg, ev.BlueOcean, ev.HardTech, pegType)
	if status != "" {
		ev.addLog("[Growth anchor] PEG (%s): %s (%s). %s", pegType, num(ev.PEGUsed), status, comment)
	}
}

// pegNarrative applies track-aware tolerance bands to the PEG reading.
func pegNarrative(peg float64, blueOcean, hardTech bool, pegType string) (status, comment string) {
	switch {
	case blueOcean:
		switch {
		case peg < 0.5:
			return "extremely low / likely distorted", "A tiny earnings base can distort PEG; treat with caution."
		case peg < 1.5:
			return "undervalued", fmt.Sprintf("Cheap relative to the track's future upside (%s).", pegType)
		case peg <= 4.0:
			return "reasonable (high tolerance)", fmt.Sprintf("The market grants blue-ocean tracks a wide growth tolerance (%s).", pegType)
		default:
			return "overextended", "Expectations are well ahead of delivery; pullback risk."
		}
	case hardTech:
		switch {
		case peg < 1.0:
			return "deeply undervalued / rare", fmt.Sprintf("A %s PEG this low is rare for hard-tech assets.", pegType)
		case peg <= 2.0:
			return "reasonable (GARP)", fmt.Sprintf("Within the sensible growth-stock band (%s).", pegType)
		case peg <= 3.0:
			return "premium", "Carries sentiment premium, tolerable in a bull tape."
		default:
			return "bubble risk", "Valuation has escaped fundamental gravity."
		}
	default:
		switch {
		case peg < 0.8:
			return "undervalued", "A wide margin of safety."
		case peg <= 1.5:
			return "reasonable", "Valuation and growth are matched."
		case peg > 3.0:
			return "bubble risk", "Valuation has escaped fundamental gravity."
		}
	}
	return "", ""
}

func (e *Engine) evalValuation(ev *Evaluation) {
	fin := ev.Fin
	sectorAvg := SectorBenchmark(fin.Sector)

	// Unprofitable securities (or no EBITDA multiple) are valued on P/S
	// against tier-scaled, macro-adjusted thresholds.
	psPath := !ev.Profitable || !fin.EVEBITDA.Valid
	if fin.PSRatio.Valid && psPath {
		thLow, thFair, thHigh := 1.5, 3.0, 8.0
		if ev.BlueOcean {
			thLow, thFair, thHigh = 2.0, 5.0, 15.0
		}
		thLow *= ev.MacroFactor
		thFair *= ev.MacroFactor
		thHigh *= ev.MacroFactor

		ps := fin.PSRatio.Value
		tag := "[Core valuation]"
		if ev.BlueOcean {
			tag = "[Blue ocean]"
		}
		switch {
		case ps < thLow:
			ev.Signals.Add(models.SignalPSLow)
			ev.addLog("%s P/S at %s: historically low, undervalued against the revenue base.", tag, num(fin.PSRatio))
		case ps < thFair:
			ev.addLog("%s P/S at %s: within the reasonable band.", tag, num(fin.PSRatio))
		case ps < thHigh:
			ev.addLog("%s P/S at %s: elevated, the market is paying up for growth.", tag, num(fin.PSRatio))
		default:
			ev.Signals.Add(models.SignalPSExtreme)
			ev.addLog("%s P/S at %s: extreme, years of growth already priced in.", tag, num(fin.PSRatio))
		}
	}
	if fin.PSRatio.Valid && !psPath {
		if fin.PSRatio.Value > 20.0 {
			ev.Signals.Add(models.SignalPSExtreme)
		}
		if fin.PSRatio.Value < 2.0 {
			ev.Signals.Add(models.SignalPSLow)
		}
	}

	// Profitable securities get the EV/EBITDA-to-sector-average tri-way,
	// de-rated by the macro factor.
	if ev.Profitable && fin.EVEBITDA.Valid {
		ratio := fin.EVEBITDA.Value / sectorAvg
		adjRatio := ratio
		if ev.MacroFactor != 0 {
			adjRatio = ratio / ev.MacroFactor
		}

		growthJustified := (ev.Tier == TierHigh || ev.Tier == TierHyper) && ev.PEGUsed.Valid && ev.PEGUsed.Value < 2.0
		switch {
		case adjRatio < 0.7:
			ev.Signals.Add(models.SignalValuationCheap)
			ev.addLog("[Sector] EV/EBITDA (%s) is well below the sector median (%.1f); a visible discount.", num(fin.EVEBITDA), sectorAvg)
		case adjRatio > 1.3 && growthJustified:
			// Growth-justified exception: the rich multiple is earned, so no
			// expensive tag is set.
			ev.addLog("[Growth privilege] EV/EBITDA (%s) runs hot, but a low PEG means it gets cheaper as it grows.", num(fin.EVEBITDA))
		case adjRatio > 1.3:
			ev.Signals.Add(models.SignalValuationExpensive)
			ev.addLog("[Sector] EV/EBITDA (%s) is far above the sector median (%.1f) without growth support.", num(fin.EVEBITDA), sectorAvg)
		default:
			ev.Signals.Add(models.SignalValuationFair)
			ev.addLog("[Sector] EV/EBITDA (%s) sits near the sector median (%.1f); fairly valued.", num(fin.EVEBITDA), sectorAvg)
		}
	}
}

func (e *Engine) evalQualityAndCashflow(ev *Evaluation) {
	fin := ev.Fin

	// Capex-adjusted FCF yield needs exactly 4 quarterly records with both
	// fields; otherwise the raw TTM yield stands and the degradation is logged.
	if len(fin.CashFlows) >= 4 && fin.MarketCap.Above(0) {
		var cfo, da float64
		complete := true
		for _, q := range fin.CashFlows[:4] {
			if !q.OperatingCashFlow.Valid || !q.DepreciationAmortization.Valid {
				complete = false
				break
			}
			cfo += q.OperatingCashFlow.Value
			da += q.DepreciationAmortization.Value
		}
		if complete && cfo != 0 {
			adj := cfo - da*0.5
			ev.AdjFCFYield = models.Float(adj / fin.MarketCap.Value)
		}
	}
	if !ev.AdjFCFYield.Valid && e.log != nil {
		e.log.Warn("capex-adjusted fcf yield unavailable, using raw ttm yield",
			applogger.String("ticker", fin.Ticker),
			applogger.Int("cash_flow_quarters", len(fin.CashFlows)),
		)
	}
	ev.FCFUsed = first(ev.AdjFCFYield, fin.FCFYieldTTM)
	if e.log != nil {
		e.log.Info("cash flow",
			applogger.String("ttm_fcf_yield", pct(fin.FCFYieldTTM)),
			applogger.String("adj_fcf_yield", pct(ev.AdjFCFYield)),
		)
	}

	switch {
	case fin.ROIC.Above(0.20):
		ev.Signals.Add(models.SignalQualityTopTier)
		ev.addLog("[Moat] ROIC (%s) is elite; top-tier capital efficiency.", pct(fin.ROIC))
	case fin.ROIC.Above(0.10):
		ev.Signals.Add(models.SignalQualityGood)
	case fin.ROIC.Below(0):
		ev.Signals.Add(models.SignalQualityBad)
	default:
		ev.Signals.Add(models.SignalQualityAvg)
	}

	if ev.FCFUsed.Valid {
		switch {
		case ev.FCFUsed.Value > 0.035:
			ev.Signals.Add(models.SignalCashflowRich)
		case ev.FCFUsed.Value > 0.015:
			ev.Signals.Add(models.SignalCashflowHealthy)
		case ev.FCFUsed.Value < -0.01:
			ev.Signals.Add(models.SignalCashflowNegative)
		}

		if ev.AdjFCFYield.Valid && fin.FCFYieldTTM.Valid && ev.AdjFCFYield.Value > fin.FCFYieldTTM.Value+0.0005 {
			if fin.ROIC.Above(0.15) {
				ev.Signals.Add(models.SignalQualityExpansion)
				ev.addLog("[Value revision] Adjusted FCF yield (%s) exceeds the raw reading (%s); with ROIC at %s, heavy capex is converting to growth and masking true cash generation.",
					pct(ev.AdjFCFYield), pct(fin.FCFYieldTTM), pct(fin.ROIC))
			} else {
				ev.addLog("[Value revision] Adjusted FCF yield (%s) exceeds the raw reading (%s), reflecting growth-oriented capital spending.",
					pct(ev.AdjFCFYield), pct(fin.FCFYieldTTM))
			}
		}
	}
}

func (e *Engine) evalEarningsTrend(ev *Evaluation, today time.Time) {
	valid := validEarnings(ev.Fin.Earnings, today)
	if len(valid) == 0 {
		if e.log != nil {
			e.log.Info("earnings", applogger.String("latest", "none"))
		}
		return
	}

	recent := valid
	if len(recent) > 4 {
		recent = recent[len(recent)-4:]
	}

	// Beat rate is over all recent quarters, not just the estimated ones;
	// a quarter without an estimate counts as a miss.
	beats := 0
	for _, q := range recent {
		if q.EPSEstimated.Valid && q.EPSActual.Value > q.EPSEstimated.Value {
			beats++
		}
	}
	total := len(recent)
	if total > 0 {
		if float64(beats)/float64(total) >= 0.75 {
			ev.addLog("[Alpha] Beat estimates in %d of the last %d quarters; institutional sentiment is constructive.", beats, total)
		} else {
			ev.addLog("[Alpha] Missed estimates in %d of the last %d quarters; stay alert.", total-beats, total)
		}
	}

	if len(recent) >= 3 {
		eps := make([]float64, len(recent))
		for i, q := range recent {
			eps[i] = q.EPSActual.Value
		}
		allPriorNegative := true
		for _, v := range eps[:len(eps)-1] {
			if v >= 0 {
				allPriorNegative = false
				break
			}
		}
		last := eps[len(eps)-1]
		switch {
		case allPriorNegative && last > 0:
			ev.Signals.Add(models.SignalTurnaroundProfit)
			ev.addLog("[Reversal] First positive EPS after a loss streak; a key fundamental inflection.")
		case allPriorNegative && last < 0 && last > eps[len(eps)-2]:
			ev.Signals.Add(models.SignalLossNarrowing)
			ev.addLog("[Reversal] Losses narrowing quarter over quarter; approaching breakeven.")
		}
	}
}

// validEarnings caps the history to the 12 most recent records, drops
// future-dated entries and records missing revenue or EPS, and returns them
// ordered oldest to newest.
func validEarnings(records []models.EarningsRecord, today time.Time) []models.EarningsRecord {
	sorted := make([]models.EarningsRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })
	if len(sorted) > 12 {
		sorted = sorted[:12]
	}

	valid := make([]models.EarningsRecord, 0, len(sorted))
	for _, rec := range sorted {
		if rec.Date.After(today) {
			continue
		}
		if !rec.Revenue.Valid || !rec.EPSActual.Valid {
			continue
		}
		valid = append(valid, rec)
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Date.Before(valid[j].Date) })
	return valid
}

func (e *Engine) evalResidualRisks(ev *Evaluation) {
	fin := ev.Fin
	if fin.Price.Valid && fin.PriceAvg200.Valid && fin.Price.Value < fin.PriceAvg200.Value {
		ev.Signals.Add(models.SignalDowntrend)
	}
	if fin.PETTM.Valid && fin.PETTM.Value < 8 && fin.RevenueGrowth.Below(-0.05) {
		ev.Signals.Add(models.SignalValueTrapRisk)
		ev.addLog("[Trap] P/E (%s) looks cheap, but revenue is shrinking; possibly a cycle-top signal.", num(fin.PETTM))
	}
	if fin.Beta.Below(0.6) {
		ev.Signals.Add(models.SignalLowVolatility)
	}
}

func (e *Engine) evalMeme(ev *Evaluation) {
	ev.MemePct = MemeScore(ev.Fin)
	ev.MemeLabel = models.MemeBand(ev.MemePct)

	if ev.MemePct >= 80 {
		ev.Signals.Add(models.SignalMemeExtreme)
	}
	if ev.MemePct >= 50 {
		line := fmt.Sprintf("[Conviction] Meme score %d%% (%s): %s", ev.MemePct, ev.MemeLabel, memeNarrative(ev.MemePct))
		// Most prominent factor first.
		ev.FactorLog = append([]string{line}, ev.FactorLog...)
	}
}

func memeNarrative(pct int) string {
	switch {
	case pct >= 90:
		return "sentiment is at its peak, reflecting extreme short-term upward momentum."
	case pct >= 80:
		return "sentiment has entered irrational exuberance; price expresses pure capital momentum."
	case pct >= 70:
		return "capital focus is intense; the name commands a large attention premium."
	case pct >= 60:
		return "sentiment is highly active, showing marked capital consensus and deep liquidity."
	default:
		return "market attention is building; flow momentum is shaping short-term price action."
	}
}

// num formats an optional value to 2 decimals, or N/A.
func num(v models.OptFloat) string {
	if !v.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", v.Value)
}

// pct formats an optional fraction as a percentage, or N/A.
func pct(v models.OptFloat) string {
	if !v.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", v.Value*100)
}
