package analysis

import "StockSense/internal/domain/models"

// MemeScore measures how much of the price is sentiment rather than
// fundamentals, as a 0-100 percentage. The raw sum is clamped to [0, 10]
// before scaling, so stacked factors saturate rather than overflow.
func MemeScore(fin *models.NormalizedFinancials) int {
	score := 0

	// Price extension over the 200-day average.
	if fin.Price.Valid && fin.PriceAvg200.Above(0) {
		ext := fin.Price.Value / fin.PriceAvg200.Value
		switch {
		case ext > 1.4:
			score += 2
		case ext > 1.15:
			score++
		}
	}

	// Valuation detachment on either multiple.
	switch {
	case fin.PSRatio.Above(20) || fin.EVEBITDA.Above(80):
		score += 4
	case fin.PSRatio.Above(10) || fin.EVEBITDA.Above(40):
		score += 2
	case fin.PSRatio.Above(8) || fin.EVEBITDA.Above(30):
		score++
	}

	// High beta amplifies flow-driven moves.
	switch {
	case fin.Beta.Above(2.0):
		score += 2
	case fin.Beta.Above(1.3):
		score++
	}

	// Extended price with no cash or growth anchor underneath.
	if fin.Price.Valid && fin.PriceAvg200.Valid && fin.Price.Value > fin.PriceAvg200.Value {
		weakCash := fin.FCFYieldTTM.Valid && fin.FCFYieldTTM.Value < 0.01
		brokenPEG := fin.PEGTTM.Valid && (fin.PEGTTM.Value < 0 || fin.PEGTTM.Value > 4)
		if weakCash || brokenPEG {
			score += 2
		}
	}

	// Crowd attention shows up as volume surge.
	if fin.Volume.Valid && fin.AvgVolume.Above(0) && fin.Volume.Value > fin.AvgVolume.Value*1.2 {
		score++
	}

	// Quality shield: elite capital returns discount the speculative read,
	// fully so when growth-adjusted valuation is also sane.
	if fin.ROIC.Above(0.20) {
		if fin.PEGTTM.Valid && fin.PEGTTM.Value > 0 && fin.PEGTTM.Value < 3.0 {
			score -= 3
		} else {
			score--
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score * 10
}
