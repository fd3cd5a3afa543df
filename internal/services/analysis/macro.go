package analysis

import "StockSense/internal/domain/models"

// Macro discount factor bands derived from the 10-year treasury yield.
// The factor rescales valuation threshold bands, never raw ratios.
const (
	macroHeadwindYield = 4.8
	macroTailwindYield = 3.8

	macroHeadwindFactor = 0.7
	macroNeutralFactor  = 1.0
	macroTailwindFactor = 1.5
)

// MacroFactor maps the 10Y yield (percent) to a multiplicative discount
// factor. Comparisons are strict; an absent yield is neutral.
func MacroFactor(yield10 models.OptFloat) float64 {
	switch {
	case yield10.Above(macroHeadwindYield):
		return macroHeadwindFactor
	case yield10.Valid && yield10.Value < macroTailwindYield:
		return macroTailwindFactor
	default:
		return macroNeutralFactor
	}
}
