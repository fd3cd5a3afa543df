package analysis

import "StockSense/internal/domain/models"

// Outcome is the resolved narrative verdict: a strategy paragraph plus the
// short- and long-term labels shown alongside it.
type Outcome struct {
	Strategy  string
	ShortTerm string
	LongTerm  string
}

// rule is one row of the resolver table. Rules are evaluated top to bottom
// and the first matching guard wins. A rule may pin the short or long label;
// empty means the derived default applies.
type rule struct {
	name      string
	when      func(*Evaluation) bool
	text      func(*Evaluation) string
	shortTerm string
	longTerm  string
}

func has(sig models.Signal) func(*Evaluation) bool {
	return func(ev *Evaluation) bool { return ev.Signals.Has(sig) }
}

func all(sigs ...models.Signal) func(*Evaluation) bool {
	return func(ev *Evaluation) bool {
		for _, s := range sigs {
			if !ev.Signals.Has(s) {
				return false
			}
		}
		return true
	}
}

func anyOf(sigs ...models.Signal) func(*Evaluation) bool {
	return func(ev *Evaluation) bool { return ev.Signals.HasAny(sigs...) }
}

func and(fns ...func(*Evaluation) bool) func(*Evaluation) bool {
	return func(ev *Evaluation) bool {
		for _, fn := range fns {
			if !fn(ev) {
				return false
			}
		}
		return true
	}
}

func not(fn func(*Evaluation) bool) func(*Evaluation) bool {
	return func(ev *Evaluation) bool { return !fn(ev) }
}

func static(s string) func(*Evaluation) string {
	return func(*Evaluation) string { return s }
}

// Resolver turns an evaluation into a single narrative outcome. Risk and trap
// rules sit above opportunity rules so a broken setup is never dressed up as
// a buy case.
type Resolver struct {
	rules []rule
}

func NewResolver() *Resolver {
	return &Resolver{rules: []rule{
		{
			name: "turnaround_gamble",
			when: and(
				all(models.SignalDeepLoss, models.SignalDowntrend),
				anyOf(models.SignalLossNarrowing, models.SignalTurnaroundProfit),
			),
			text: static("[Distressed reversal / left-side bet] Price is in a deep downtrend and the business is still losing money, but the losses are shrinking quarter over quarter. Operational efficiency is inflecting while the market still prices despair. Only for highly risk-tolerant capital positioned ahead of the turn."),
		},
		{
			name: "falling_knife",
			when: all(models.SignalDeepLoss, models.SignalDowntrend),
			text: static("[Falling knife] Deep losses with the price below its long-term trend: fundamentals and technicals are broken at the same time. With no reversal signal on the tape, stand aside and wait for the right side of the move."),
		},
		{
			name: "value_trap",
			when: and(has(models.SignalValueTrapRisk), not(has(models.SignalQualityTopTier))),
			text: static("[Value trap watch] The earnings multiple is low but revenue is contracting. Cheapness here may be a cycle-top artifact rather than a margin of safety; demand evidence of stabilizing sales before treating the discount as real."),
		},
		{
			name: "meme_regime",
			when: has(models.SignalMemeExtreme),
			text: static("[Flow-driven regime] Sentiment has decoupled the price from fundamentals; capital momentum is the dominant driver. Valuation work stops being predictive here, so position sizing and exit discipline matter more than any multiple."),
		},
		{
			name: "blue_ocean",
			when: has(models.SignalBlueOcean),
			text: func(ev *Evaluation) string {
				s := "[Blue-ocean positioning] A frontier track where the valuation anchor is the endgame market, not current multiples."
				if ev.Signals.Has(models.SignalCashflowNegative) {
					s += " Negative free cash flow with a rich multiple is typical for the industry's stage, not a company-specific defect."
				}
				return s + " Volatility will be extreme; suits staged entries with a long horizon."
			},
		},
		{
			name: "golden_window",
			when: all(models.SignalQualityTopTier, models.SignalValuationCheap),
			text: static("[Golden window] Top-tier capital efficiency trading below its sector multiple. Quality and price rarely line up like this; when they do, the asymmetry favors acting before the discount closes."),
		},
		{
			name: "quality_growth_core",
			when: and(
				has(models.SignalQualityTopTier),
				anyOf(models.SignalPEGCheap, models.SignalPEGUndervalued),
			),
			text: func(ev *Evaluation) string {
				s := "[Compounding growth core] A low growth-adjusted multiple supplies the offense while elite returns on capital supply the moat."
				if ev.Signals.Has(models.SignalValuationExpensive) {
					s += " The premium on absolute multiples is fully absorbed by the fundamentals."
				}
				return s + " An elephant that can still sprint; merits a core position."
			},
		},
		{
			name: "quality_cash_core",
			when: and(
				has(models.SignalQualityTopTier),
				anyOf(models.SignalCashflowRich, models.SignalCashflowHealthy),
			),
			text: static("[Quality core asset] Durable capital efficiency with the cash generation to match. A hold-through-cycles profile where the business does the compounding and patience does the rest."),
		},
		{
			name: "quality_reinvestment",
			when: all(models.SignalQualityTopTier, models.SignalCashflowNegative),
			text: static("[High-return reinvestment] Returns on capital are top tier while free cash flow runs negative: the company is plowing cash back in at rates worth plowing into. The weak cash optics reflect investment, not deterioration."),
		},
		{
			name: "quality_expansion",
			when: has(models.SignalQualityTopTier),
			text: static("[Quality franchise] Elite returns on invested capital mark a durable business. The open question is only the price paid for it; accumulate on weakness rather than chase."),
		},
		{
			name: "garp",
			when: anyOf(models.SignalPEGCheap, models.SignalPEGUndervalued),
			text: static("[Growth at a reasonable price] The growth-adjusted multiple is attractive, so the growth itself carries the thesis. The position works as long as delivery keeps pace with estimates."),
		},
		{
			name: "deep_value",
			when: all(models.SignalValuationCheap, models.SignalCashflowRich),
			text: static("[Deep value] A discounted multiple with rich cash flow behind it. The downside is anchored by the cash the business throws off; the main cost of the position is waiting."),
		},
		{
			name: "cheap_value",
			when: has(models.SignalValuationCheap),
			text: static("[Margin of safety] The current multiple offers a cushion even without heroic growth assumptions. Verify the earnings base is not about to roll over, then let the discount work."),
		},
		{
			name: "momentum_growth",
			when: and(
				has(models.SignalValuationExpensive),
				anyOf(models.SignalGrowthHigh, models.SignalGrowthHyper),
			),
			text: static("[Momentum growth] Expensive on every multiple, but growth is doing the heavy lifting. The position lives and dies with the growth rate; size it so a single guidance cut is survivable."),
		},
		{
			name: "low_growth_bubble",
			when: all(models.SignalValuationExpensive, models.SignalGrowthLow),
			text: static("[Bubble risk] Expensive without growth support: the price has detached from fundamentals and the correction risk is asymmetric. Any long exposure here is a bet on sentiment, not on the business."),
		},
		{
			name: "defensive",
			when: and(
				has(models.SignalLowVolatility),
				anyOf(models.SignalCashflowRich, models.SignalCashflowHealthy),
			),
			text: static("[Defensive ballast] Low beta with steady cash generation. It will lag a risk-on tape, but it holds its value when the tape turns; a portfolio stabilizer rather than a return driver."),
		},
		{
			name: "neutral_watch",
			when: func(ev *Evaluation) bool { return len(ev.Signals) > 0 },
			text: static("[Neutral / watch] Long and short signals are mixed with no dominant setup. Stay on the sidelines until valuation, quality, or momentum breaks out of the pack."),
		},
	}}
}

// Resolve walks the table and returns the first matching outcome plus the
// name of the rule that fired. The fallback guarantees a total function.
func (r *Resolver) Resolve(ev *Evaluation) (Outcome, string) {
	for _, rl := range r.rules {
		if !rl.when(ev) {
			continue
		}
		out := Outcome{
			Strategy:  rl.text(ev),
			ShortTerm: rl.shortTerm,
			LongTerm:  rl.longTerm,
		}
		if out.ShortTerm == "" {
			out.ShortTerm = shortTermLabel(ev.Signals)
		}
		if out.LongTerm == "" {
			out.LongTerm = longTermLabel(ev.Signals)
		}
		return out, rl.name
	}
	return Outcome{
		Strategy:  "insufficient data (no strategy model matched)",
		ShortTerm: shortTermLabel(ev.Signals),
		LongTerm:  longTermLabel(ev.Signals),
	}, "fallback"
}

func shortTermLabel(s models.SignalSet) string {
	switch {
	case s.Has(models.SignalPEGUndervalued):
		return "cheap (high growth)"
	case s.Has(models.SignalValuationCheap):
		return "undervalued"
	case s.Has(models.SignalValuationExpensive):
		if s.HasAny(models.SignalGrowthHigh, models.SignalGrowthHyper) {
			return "justified premium"
		}
		return "expensive"
	default:
		return "fairly valued"
	}
}

func longTermLabel(s models.SignalSet) string {
	switch {
	case s.Has(models.SignalQualityTopTier):
		return "quality/core"
	case s.Has(models.SignalBlueOcean):
		return "strategic position"
	case s.Has(models.SignalDeepLoss):
		if s.Has(models.SignalLossNarrowing) {
			return "turnaround watch"
		}
		return "high risk"
	case s.Has(models.SignalCashflowRich):
		return "stable"
	default:
		return "neutral"
	}
}
