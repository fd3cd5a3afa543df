package models

import "sort"

// Signal is one categorical fact the signal engine derived about a security.
type Signal string

const (
	SignalMacroHeadwind Signal = "MACRO_HEADWIND"
	SignalMacroTailwind Signal = "MACRO_TAILWIND"
	SignalRiskExtremeVaR Signal = "RISK_EXTREME_VAR"

	SignalBlueOcean Signal = "BLUE_OCEAN"
	SignalHardTech  Signal = "HARD_TECH"
	SignalGiantCap  Signal = "GIANT_CAP"

	SignalMemeExtreme Signal = "MEME_EXTREME"

	SignalGrowthHyper  Signal = "GROWTH_HYPER"
	SignalGrowthHigh   Signal = "GROWTH_HIGH"
	SignalGrowthStable Signal = "GROWTH_STABLE"
	SignalGrowthLow    Signal = "GROWTH_LOW"

	SignalPEGUndervalued Signal = "PEG_UNDERVALUED"
	SignalPEGCheap       Signal = "PEG_CHEAP"
	SignalPEGExpensive   Signal = "PEG_EXPENSIVE"

	SignalPSLow     Signal = "PS_LOW"
	SignalPSExtreme Signal = "PS_EXTREME"

	SignalValuationCheap     Signal = "VALUATION_CHEAP"
	SignalValuationFair      Signal = "VALUATION_FAIR"
	SignalValuationExpensive Signal = "VALUATION_EXPENSIVE"

	SignalQualityTopTier   Signal = "QUALITY_TOP_TIER"
	SignalQualityGood      Signal = "QUALITY_GOOD"
	SignalQualityAvg       Signal = "QUALITY_AVG"
	SignalQualityBad       Signal = "QUALITY_BAD"
	SignalQualityExpansion Signal = "QUALITY_EXPANSION"

	SignalCashflowRich     Signal = "CASHFLOW_RICH"
	SignalCashflowHealthy  Signal = "CASHFLOW_HEALTHY"
	SignalCashflowNegative Signal = "CASHFLOW_NEGATIVE"

	SignalDeepLoss         Signal = "DEEP_LOSS"
	SignalTurnaroundProfit Signal = "TURNAROUND_PROFIT"
	SignalLossNarrowing    Signal = "LOSS_NARROWING"
	SignalDowntrend        Signal = "DOWNTREND"
	SignalValueTrapRisk    Signal = "VALUE_TRAP_RISK"
	SignalLowVolatility    Signal = "LOW_VOLATILITY"
)

// SignalSet is an insertion-order-irrelevant set of signals. Signals are
// purely additive: once set, a signal is never removed.
type SignalSet map[Signal]struct{}

func NewSignalSet() SignalSet { return make(SignalSet) }

func (s SignalSet) Add(sig Signal) { s[sig] = struct{}{} }

func (s SignalSet) Has(sig Signal) bool {
	_, ok := s[sig]
	return ok
}

// HasAny reports whether any of the given signals is set.
func (s SignalSet) HasAny(sigs ...Signal) bool {
	for _, sig := range sigs {
		if s.Has(sig) {
			return true
		}
	}
	return false
}

// List returns the signals in lexical order for deterministic output.
func (s SignalSet) List() []Signal {
	out := make([]Signal, 0, len(s))
	for sig := range s {
		out = append(out, sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
