package analysis

import (
	"math"
	"testing"

	"StockSense/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyVaR95IsNegative(t *testing.T) {
	got := MonthlyVaR95(models.Float(1.0), models.Float(100), models.Float(20), true)
	require.True(t, got.Valid)
	assert.Less(t, got.Value, 0.0)

	want := -1.65 * 1.0 * 0.20 * math.Sqrt(1.0/12.0)
	assert.InDelta(t, want, got.Value, 1e-9)
}

func TestMonthlyVaR95FatTail(t *testing.T) {
	base := MonthlyVaR95(models.Float(1.4), models.Float(100), models.Float(20), true)
	require.True(t, base.Valid)

	// Fat-tail correction for high beta.
	hot := MonthlyVaR95(models.Float(1.6), models.Float(100), models.Float(20), true)
	require.True(t, hot.Valid)
	want := -1.65 * 1.6 * 0.20 * math.Sqrt(1.0/12.0) * 1.2
	assert.InDelta(t, want, hot.Value, 1e-9)

	// And for unprofitable names regardless of beta.
	unprofitable := MonthlyVaR95(models.Float(1.0), models.Float(100), models.Float(20), false)
	require.True(t, unprofitable.Valid)
	profitable := MonthlyVaR95(models.Float(1.0), models.Float(100), models.Float(20), true)
	assert.InDelta(t, profitable.Value*1.2, unprofitable.Value, 1e-9)
}

func TestMonthlyVaR95MissingInputs(t *testing.T) {
	assert.False(t, MonthlyVaR95(models.None(), models.Float(100), models.Float(20), true).Valid)
	assert.False(t, MonthlyVaR95(models.Float(1.0), models.None(), models.Float(20), true).Valid)
	assert.False(t, MonthlyVaR95(models.Float(1.0), models.Float(100), models.None(), true).Valid)
}
