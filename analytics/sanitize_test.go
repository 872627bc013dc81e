package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecastai/models"
)

func TestSanitizeReplacesNonFiniteFloats(t *testing.T) {
	nan := math.NaN()
	result := models.AnalysisResult{
		Business: models.BusinessMetrics{
			TotalRevenue:      math.Inf(1),
			GrowthRatePercent: nan,
			AvgDailyRevenue:   42,
		},
		Inventory: []models.InventoryRecommendation{
			{CV: nan, DailyAvg: 5, ExpectedROI: math.Inf(-1)},
		},
	}

	Sanitize(&result)

	assert.Zero(t, result.Business.TotalRevenue)
	assert.Zero(t, result.Business.GrowthRatePercent)
	assert.InDelta(t, 42.0, result.Business.AvgDailyRevenue, 1e-9)
	assert.Zero(t, result.Inventory[0].CV)
	assert.InDelta(t, 5.0, result.Inventory[0].DailyAvg, 1e-9)
	assert.Zero(t, result.Inventory[0].ExpectedROI)
}

func TestSanitizeWalksPointers(t *testing.T) {
	stock := math.NaN()
	days := 3.5
	rec := models.InventoryRecommendation{CurrentStock: &stock, DaysRemaining: &days}

	Sanitize(&rec)

	require.NotNil(t, rec.CurrentStock)
	assert.Zero(t, *rec.CurrentStock)
	assert.InDelta(t, 3.5, *rec.DaysRemaining, 1e-9)
}

func TestSanitizeWalksSlicesAndMaps(t *testing.T) {
	type payload struct {
		Values []float64
		ByName map[string]float64
	}
	p := payload{
		Values: []float64{1, math.NaN(), math.Inf(1), 4},
		ByName: map[string]float64{"ok": 7, "bad": math.Inf(-1)},
	}

	Sanitize(&p)

	assert.Equal(t, []float64{1, 0, 0, 4}, p.Values)
	assert.InDelta(t, 7.0, p.ByName["ok"], 1e-9)
	assert.Zero(t, p.ByName["bad"])
}

func TestSanitizeLeavesFiniteValuesAlone(t *testing.T) {
	fc := models.ProductForecast{
		SKU: "A001",
		Forecast: []models.ForecastPoint{
			{PredictedUnits: 3.3, LowerCI: 1.1, UpperCI: 5.5, Confidence: 0.75},
		},
	}

	Sanitize(&fc)

	assert.Equal(t, "A001", fc.SKU)
	assert.InDelta(t, 3.3, fc.Forecast[0].PredictedUnits, 1e-9)
	assert.InDelta(t, 0.75, fc.Forecast[0].Confidence, 1e-9)
}
