package analysis

import (
	"math"

	"StockSense/internal/domain/models"
)

const (
	var95Z            = 1.65
	fatTailMultiplier = 1.2
	fatTailBeta       = 1.5
)

// MonthlyVaR95 estimates the 95%-confidence monthly value at risk from beta
// and the VIX spot, as a negative fraction (a downside magnitude). A 20%
// fat-tail correction applies for high-beta or unprofitable securities.
// Fails soft to absent when beta, price, or VIX is unavailable.
func MonthlyVaR95(beta, price, vix models.OptFloat, profitable bool) models.OptFloat {
	if !beta.Valid || !price.Valid || !vix.Valid {
		return models.None()
	}
	annualVol := beta.Value * (vix.Value / 100.0)
	monthlyVol := annualVol * math.Sqrt(1.0/12.0)
	var95 := var95Z * monthlyVol
	if beta.Value > fatTailBeta || !profitable {
		var95 *= fatTailMultiplier
	}
	return models.Float(-var95)
}
