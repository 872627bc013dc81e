package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecastai/models"
)

func seriesOf(sku string, start time.Time, quantities []float64) []models.SalesRecord {
	var records []models.SalesRecord
	for i, q := range quantities {
		if q == 0 {
			continue
		}
		records = append(records, models.SalesRecord{
			Date: start.AddDate(0, 0, i), SKU: sku, ItemName: sku, Quantity: q,
		})
	}
	return records
}

func constantSeries(n int, v float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = v
	}
	return xs
}

func TestChooseStrategy(t *testing.T) {
	start := day("2024-03-01")

	insufficient := BuildProductSeries(seriesOf("A", start, []float64{1, 2, 3}))[0]
	assert.Equal(t, StrategyInsufficient, chooseStrategy(&insufficient))

	short := BuildProductSeries(seriesOf("A", start, constantSeries(10, 5)))[0]
	assert.Equal(t, StrategyShortHistory, chooseStrategy(&short))

	full := BuildProductSeries(seriesOf("A", start, constantSeries(20, 10)))[0]
	assert.Equal(t, StrategyFull, chooseStrategy(&full))

	// Sales on 18 of 53 spanned days (two thirds zero) -> intermittent.
	sparse := make([]float64, 60)
	for i := 0; i < 60; i += 1 {
		if i%10 < 3 {
			sparse[i] = 5
		}
	}
	sparsePS := BuildProductSeries(seriesOf("A", start, sparse))[0]
	require.GreaterOrEqual(t, sparsePS.ObservedDays, 15)
	assert.Equal(t, StrategySparse, chooseStrategy(&sparsePS))
}

// A product with only 3 observed days is excluded entirely, not an error.
func TestForecastExcludesInsufficientHistory(t *testing.T) {
	series := BuildProductSeries(seriesOf("A001", day("2024-03-01"), []float64{1, 2, 3}))

	forecasts, warnings := Forecast(series, ForecastOptions{})
	assert.Empty(t, forecasts)
	assert.Empty(t, warnings)
}

func TestForecastShortHistoryBands(t *testing.T) {
	series := BuildProductSeries(seriesOf("A001", day("2024-03-01"), constantSeries(10, 8)))

	forecasts, _ := Forecast(series, ForecastOptions{})
	require.Len(t, forecasts, 1)
	fc := forecasts[0]

	assert.Equal(t, "Exponential Smoothing (Short History)", fc.Model)
	assert.Equal(t, RiskRed, fc.RiskLevel)
	require.Len(t, fc.Forecast, DefaultForecastDays)
	for _, pt := range fc.Forecast {
		assert.InDelta(t, 0.5*pt.PredictedUnits, pt.LowerCI, 1e-9)
		assert.InDelta(t, 1.5*pt.PredictedUnits, pt.UpperCI, 1e-9)
		assert.Equal(t, 0.50, pt.Confidence)
	}
}

// 60 days of data where roughly three quarters are zero-quantity routes to
// the intermittent model with a [0.2x, 2.0x] band around the flat prediction.
func TestForecastSparseCrostonBands(t *testing.T) {
	quantities := make([]float64, 60)
	for i := range quantities {
		if i%4 == 0 {
			quantities[i] = 10
		}
	}
	quantities[59] = 10 // anchor the span at a full 60 days
	series := BuildProductSeries(seriesOf("A001", day("2024-01-01"), quantities))

	forecasts, _ := Forecast(series, ForecastOptions{})
	require.Len(t, forecasts, 1)
	fc := forecasts[0]

	assert.Equal(t, "Croston (Intermittent Demand)", fc.Model)
	assert.Equal(t, RiskRed, fc.RiskLevel)
	require.NotEmpty(t, fc.Forecast)

	// avg non-zero demand 10 x (16 sale days / 60 days) flat rate.
	want := 10.0 * 16.0 / 60.0
	for _, pt := range fc.Forecast {
		assert.InDelta(t, want, pt.PredictedUnits, 1e-9)
		assert.InDelta(t, 0.2*pt.PredictedUnits, pt.LowerCI, 1e-9)
		assert.InDelta(t, 2.0*pt.PredictedUnits, pt.UpperCI, 1e-9)
	}
}

// Full-model invariant: lower_ci <= predicted <= upper_ci and predicted >= 0
// on every point.
func TestForecastFullModelBounds(t *testing.T) {
	quantities := make([]float64, 30)
	for i := range quantities {
		quantities[i] = 20 + float64(i%7)*3
	}
	series := BuildProductSeries(seriesOf("A001", day("2024-03-01"), quantities))

	forecasts, warnings := Forecast(series, ForecastOptions{})
	require.Empty(t, warnings)
	require.Len(t, forecasts, 1)
	fc := forecasts[0]

	assert.Equal(t, "Additive Regression (Trend + Weekly Seasonality)", fc.Model)
	require.NotNil(t, fc.Accuracy)
	require.Len(t, fc.Forecast, DefaultForecastDays)

	last := day("2024-03-01").AddDate(0, 0, 29)
	for _, pt := range fc.Forecast {
		assert.GreaterOrEqual(t, pt.PredictedUnits, 0.0)
		assert.LessOrEqual(t, pt.LowerCI, pt.PredictedUnits+1e-9)
		assert.GreaterOrEqual(t, pt.UpperCI, pt.PredictedUnits-1e-9)

		// Strictly after the last observed day.
		d, ok := ParseFlexibleDate(pt.Date)
		require.True(t, ok)
		assert.True(t, d.After(last))
	}
}

// Identical inputs produce bit-identical forecasts: fitting is deterministic
// and worker-pool scheduling cannot change per-product results.
func TestForecastDeterministic(t *testing.T) {
	quantities := make([]float64, 40)
	for i := range quantities {
		quantities[i] = 15 + float64((i*7)%11)
	}
	series := BuildProductSeries(seriesOf("A001", day("2024-02-01"), quantities))

	first, _ := Forecast(series, ForecastOptions{})
	second, _ := Forecast(series, ForecastOptions{})
	assert.Equal(t, first, second)
}

// Predictions are capped at 1.5x the historical max to suppress runaway
// trend extrapolation.
func TestForecastFullModelCapped(t *testing.T) {
	quantities := make([]float64, 30)
	for i := range quantities {
		quantities[i] = float64(10 + i*5) // strong upward trend, max 155
	}
	series := BuildProductSeries(seriesOf("A001", day("2024-03-01"), quantities))

	forecasts, _ := Forecast(series, ForecastOptions{Horizon: 60})
	require.Len(t, forecasts, 1)
	for _, pt := range forecasts[0].Forecast {
		assert.LessOrEqual(t, pt.PredictedUnits, 1.5*155+1e-9)
	}
}

func TestForecastOutputWindowFilter(t *testing.T) {
	series := BuildProductSeries(seriesOf("A001", day("2024-03-01"), constantSeries(20, 10)))
	last := day("2024-03-20")

	from := last.AddDate(0, 0, 3)
	to := last.AddDate(0, 0, 5)
	forecasts, _ := Forecast(series, ForecastOptions{Window: DateWindow{From: &from, To: &to}})
	require.Len(t, forecasts, 1)
	assert.Len(t, forecasts[0].Forecast, 3)
}

// A window that excludes every forecast day drops the product with a warning
// instead of failing the request.
func TestForecastEmptyAfterWindowWarns(t *testing.T) {
	series := BuildProductSeries(seriesOf("A001", day("2024-03-01"), constantSeries(20, 10)))

	from := day("2030-01-01")
	to := day("2030-01-31")
	forecasts, warnings := Forecast(series, ForecastOptions{Window: DateWindow{From: &from, To: &to}})
	assert.Empty(t, forecasts)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "A001")
}

func TestBlendBoundsClampsInversion(t *testing.T) {
	// Upper forced below prediction -> clamp to +-20%.
	lower, upper := blendBounds(100, 5, 10, 20)
	assert.InDelta(t, 80.0, lower, 1e-9)
	assert.InDelta(t, 120.0, upper, 1e-9)
}

func TestFullModelRiskTiers(t *testing.T) {
	assert.Equal(t, RiskGreen, fullModelRisk(100, 120, 150))
	assert.Equal(t, RiskYellow, fullModelRisk(20, 30, 25))
	assert.Equal(t, RiskRed, fullModelRisk(5, 50, 10))
}
