package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forecastai/models"
)

// Gap-filled series must contain exactly (last - first).days + 1 entries,
// strictly increasing by one day, with zero demand on missing days.
func TestBuildProductSeriesGapFill(t *testing.T) {
	records := []models.SalesRecord{
		{Date: day("2024-03-01"), SKU: "A", ItemName: "Apples", Quantity: 4},
		{Date: day("2024-03-04"), SKU: "A", ItemName: "Apples", Quantity: 6},
		{Date: day("2024-03-10"), SKU: "A", ItemName: "Apples", Quantity: 2},
	}

	series := BuildProductSeries(records)
	require.Len(t, series, 1)
	ps := series[0]

	assert.Equal(t, 3, ps.ObservedDays)
	require.Len(t, ps.Points, 10) // 2024-03-01 .. 2024-03-10 inclusive

	for i := 1; i < len(ps.Points); i++ {
		assert.Equal(t, ps.Points[i-1].Date.AddDate(0, 0, 1), ps.Points[i].Date)
	}
	assert.Equal(t, 4.0, ps.Points[0].Quantity)
	assert.Equal(t, 0.0, ps.Points[1].Quantity)
	assert.Equal(t, 6.0, ps.Points[3].Quantity)
	assert.Equal(t, 2.0, ps.Points[9].Quantity)
}

func TestBuildProductSeriesAggregatesSameDay(t *testing.T) {
	records := []models.SalesRecord{
		{Date: day("2024-03-01"), SKU: "A", ItemName: "Apples", Quantity: 4, UnitPrice: 2},
		{Date: day("2024-03-01"), SKU: "A", ItemName: "Apples", Quantity: 3, UnitPrice: 4},
	}

	series := BuildProductSeries(records)
	require.Len(t, series, 1)
	assert.Equal(t, 7.0, series[0].Points[0].Quantity)
	assert.Equal(t, 1, series[0].ObservedDays)
	assert.InDelta(t, 3.0, series[0].AvgPrice, 1e-9)
}

func TestBuildProductSeriesOrderedByTotalDesc(t *testing.T) {
	records := []models.SalesRecord{
		{Date: day("2024-03-01"), SKU: "SMALL", ItemName: "Small", Quantity: 1},
		{Date: day("2024-03-01"), SKU: "BIG", ItemName: "Big", Quantity: 100},
	}

	series := BuildProductSeries(records)
	require.Len(t, series, 2)
	assert.Equal(t, "BIG", series[0].SKU)
	assert.Equal(t, "SMALL", series[1].SKU)
}

func TestRankPercentile(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.Equal(t, 25.0, rankPercentile(1, xs))
	assert.Equal(t, 100.0, rankPercentile(4, xs))
	assert.Equal(t, 100.0, rankPercentile(4, []float64{4}))
}

func TestQuantileEmpirical(t *testing.T) {
	xs := []float64{10, 20, 30, 40}
	assert.Equal(t, 20.0, quantile(0.5, xs))
	assert.Equal(t, 40.0, quantile(1, xs))
	assert.Equal(t, 10.0, quantile(0.25, xs))
}
