package analysis

import (
	"testing"

	"StockSense/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestMemeScoreClampsAtHundred(t *testing.T) {
	// Every speculative factor fires: raw sum exceeds the cap.
	fin := &models.NormalizedFinancials{
		Price:       models.Float(150),
		PriceAvg200: models.Float(100), // 1.5x extension: +2
		PSRatio:     models.Float(25),  // extreme multiple: +4
		Beta:        models.Float(2.5), // +2
		FCFYieldTTM: models.Float(0.0), // extended with no cash anchor: +2
		Volume:      models.Float(2e6), // surge: +1
		AvgVolume:   models.Float(1e6),
	}
	assert.Equal(t, 100, MemeScore(fin))
}

func TestMemeScoreQualityShield(t *testing.T) {
	base := &models.NormalizedFinancials{
		Price:       models.Float(120),
		PriceAvg200: models.Float(100),
		PSRatio:     models.Float(12),
		Beta:        models.Float(1.5),
	}
	assert.Equal(t, 40, MemeScore(base))

	// Full shield: elite ROIC with a sane PEG.
	shielded := *base
	shielded.ROIC = models.Float(0.25)
	shielded.PEGTTM = models.Float(1.5)
	assert.Equal(t, 10, MemeScore(&shielded))

	// Partial shield: elite ROIC but PEG out of band.
	partial := *base
	partial.ROIC = models.Float(0.25)
	partial.PEGTTM = models.Float(5.0)
	// Broken PEG above the 200-day average also adds the no-anchor factor.
	assert.Equal(t, 50, MemeScore(&partial))
}

func TestMemeScoreFloorsAtZero(t *testing.T) {
	fin := &models.NormalizedFinancials{
		Price:       models.Float(90),
		PriceAvg200: models.Float(100),
		Beta:        models.Float(0.9),
		ROIC:        models.Float(0.30),
		PEGTTM:      models.Float(1.0),
	}
	assert.Equal(t, 0, MemeScore(fin))
}

func TestMemeBandLabels(t *testing.T) {
	assert.Equal(t, models.MemePeakEuphoria, models.MemeBand(95))
	assert.Equal(t, models.MemeIrrational, models.MemeBand(80))
	assert.Equal(t, models.MemeMomentum, models.MemeBand(50))
	assert.Equal(t, models.MemeFundamentals, models.MemeBand(40))
}
