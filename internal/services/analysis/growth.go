package analysis

import (
	"sort"
	"time"

	"StockSense/internal/domain/models"
)

// GrowthTier buckets blended growth at 5%/20%/50%.
type GrowthTier string

const (
	TierLow    GrowthTier = "low"
	TierStable GrowthTier = "stable"
	TierHigh   GrowthTier = "high"
	TierHyper  GrowthTier = "hyper"
)

// ForwardEstimate is the analyst-estimate-derived forward view.
type ForwardEstimate struct {
	PE     models.OptFloat
	Growth models.OptFloat
	PEG    models.OptFloat
}

// ResolveForwardPEG derives the forward PEG from analyst estimates: the two
// nearest strictly-future fiscal-year estimates define FY1/FY2. Forward P/E
// requires eps(FY1) > 0; forward PEG additionally requires positive forward
// growth. Anything short of that leaves the corresponding field absent.
func ResolveForwardPEG(estimates []models.EstimateRecord, price models.OptFloat, today time.Time) ForwardEstimate {
	var out ForwardEstimate
	if !price.Valid || len(estimates) == 0 {
		return out
	}

	future := make([]models.EstimateRecord, 0, len(estimates))
	for _, e := range estimates {
		if e.Date.After(today) {
			future = append(future, e)
		}
	}
	if len(future) < 2 {
		return out
	}
	sort.Slice(future, func(i, j int) bool { return future[i].Date.Before(future[j].Date) })

	fy1, fy2 := future[0], future[1]
	if !fy1.EPSAvg.Valid || fy1.EPSAvg.Value <= 0 || !fy2.EPSAvg.Valid {
		return out
	}

	fwdPE := price.Value / fy1.EPSAvg.Value
	fwdGrowth := (fy2.EPSAvg.Value - fy1.EPSAvg.Value) / fy1.EPSAvg.Value
	out.PE = models.Float(fwdPE)
	out.Growth = models.Float(fwdGrowth)
	if fwdGrowth > 0 {
		out.PEG = models.Float(fwdPE / (fwdGrowth * 100))
	}
	return out
}

// BlendedGrowthTier buckets the maximum of trailing revenue growth, trailing
// net-income growth, and forward growth. All absent means low.
func BlendedGrowthTier(revGrowth, niGrowth, fwdGrowth models.OptFloat) (GrowthTier, float64) {
	max := 0.0
	seen := false
	for _, g := range []models.OptFloat{revGrowth, niGrowth, fwdGrowth} {
		if !g.Valid {
			continue
		}
		if !seen || g.Value > max {
			max = g.Value
			seen = true
		}
	}
	if !seen {
		max = 0
	}

	switch {
	case max > 0.5:
		return TierHyper, max
	case max > 0.2:
		return TierHigh, max
	case max > 0.05:
		return TierStable, max
	default:
		return TierLow, max
	}
}

// TierSignal maps a growth tier to its signal tag.
func TierSignal(t GrowthTier) models.Signal {
	switch t {
	case TierHyper:
		return models.SignalGrowthHyper
	case TierHigh:
		return models.SignalGrowthHigh
	case TierStable:
		return models.SignalGrowthStable
	default:
		return models.SignalGrowthLow
	}
}
