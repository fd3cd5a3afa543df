package models

import "time"

// VerdictResult is the terminal output of one analysis: two valuation labels,
// one narrative strategy, a risk estimate, the meme score, and the ordered
// rationale log that explains how the verdict was reached.
type VerdictResult struct {
	Ticker      string    `json:"ticker"`
	GeneratedAt time.Time `json:"generated_at"`

	ShortTerm string `json:"short_term"`
	LongTerm  string `json:"long_term"`
	Strategy  string `json:"strategy"`

	// RiskVaRPct is the 95% monthly value-at-risk, reported as a negative
	// fraction (e.g. -0.18 for an estimated 18% drawdown). Absent when
	// beta, price, or VIX was unavailable.
	RiskVaRPct OptFloat `json:"risk_var_pct"`

	MemePct   int    `json:"meme_pct"`
	MemeLabel string `json:"meme_label"`

	GrowthTier   string `json:"growth_tier"`
	IsProfitable bool   `json:"is_profitable"`

	Price     OptFloat `json:"price"`
	MarketCap OptFloat `json:"market_cap"`
	Beta      OptFloat `json:"beta"`

	Signals   []Signal `json:"signals"`
	FactorLog []string `json:"factor_log"`

	// Ephemeral is the request-scoped privacy preference: the presentation
	// layer shows an ephemeral verdict only to the requesting user.
	Ephemeral bool `json:"ephemeral"`
}

// Meme band labels, purely descriptive.
const (
	MemePeakEuphoria     = "peak euphoria"
	MemeIrrational       = "irrational exuberance"
	MemeAttentionPremium = "attention premium"
	MemeHighConviction   = "high conviction consensus"
	MemeMomentum         = "momentum building"
	MemeFundamentals     = "fundamentals-led"
)

// MemeBand maps a meme percentage to its descriptive band label.
func MemeBand(pct int) string {
	switch {
	case pct >= 90:
		return MemePeakEuphoria
	case pct >= 80:
		return MemeIrrational
	case pct >= 70:
		return MemeAttentionPremium
	case pct >= 60:
		return MemeHighConviction
	case pct >= 50:
		return MemeMomentum
	default:
		return MemeFundamentals
	}
}
