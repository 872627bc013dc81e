package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipelineTable(days int) *Table {
	t := &Table{Headers: []string{"Date", "Item Name", "SKU", "Qty", "Price"}}
	start := day("2024-03-01")
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		t.Rows = append(t.Rows,
			[]string{d, "Apples", "A001", fmt.Sprintf("%d", 10+i%3), "2.50"},
			[]string{d, "Bread", "B002", "4", "3.00"},
		)
	}
	return t
}

func TestProcessEndToEnd(t *testing.T) {
	result, err := Process(pipelineTable(30), Options{FileName: "sales.csv"})
	require.NoError(t, err)

	assert.Equal(t, 60, result.Summary.TotalRecords)
	assert.Equal(t, 2, result.Summary.UniqueItems)
	assert.Equal(t, "2024-03-01 to 2024-03-30", result.Summary.DateRange)
	assert.Equal(t, "Qty", result.Summary.SalesColumnUsed)
	assert.Equal(t, "sales.csv", result.Summary.FileName)
	assert.Empty(t, result.Summary.FilterApplied)

	assert.Len(t, result.Historical, 30)
	assert.Len(t, result.Forecasts, 2)
	assert.Len(t, result.Inventory, 2)
	assert.Len(t, result.PriorityActions, 2)

	for _, fc := range result.Forecasts {
		assert.Equal(t, DefaultForecastDays, len(fc.Forecast))
	}

	assert.Greater(t, result.Business.TotalRevenue, 0.0)
	assert.Greater(t, result.ROI.CurrentMonthlyRevenue, 0.0)
	assert.NotEmpty(t, result.ROI.Disclaimer)
}

func TestProcessAppliesDateWindow(t *testing.T) {
	from := day("2024-03-11")
	to := day("2024-03-20")

	result, err := Process(pipelineTable(30), Options{
		Window:       DateWindow{From: &from, To: &to},
		ForecastDays: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 20, result.Summary.TotalRecords)
	assert.Equal(t, "2024-03-11 to 2024-03-20", result.Summary.DateRange)
	assert.Equal(t, "2024-03-11 to 2024-03-20", result.Summary.FilterApplied)
	assert.Len(t, result.Historical, 10)
}

func TestProcessEmptyWindowFails(t *testing.T) {
	from := day("2030-01-01")

	_, err := Process(pipelineTable(10), Options{Window: DateWindow{From: &from}})
	require.Error(t, err)

	var emptyErr *EmptyDatasetError
	require.ErrorAs(t, err, &emptyErr)
	assert.Contains(t, emptyErr.Error(), "2030-01-01")
	assert.Contains(t, emptyErr.Error(), "2024-03-01")
}

func TestProcessMissingColumnsFails(t *testing.T) {
	table := &Table{
		Headers: []string{"Item Name", "Qty"},
		Rows:    [][]string{{"Apples", "3"}},
	}

	_, err := Process(table, Options{})
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, "date")
}

func TestProcessSanitizesOutput(t *testing.T) {
	// A single-row upload exercises the single-observation stats path; the
	// response must still be finite everywhere.
	table := &Table{
		Headers: []string{"Date", "Item Name", "Qty"},
		Rows:    [][]string{{"2024-03-01", "Apples", "5"}},
	}

	result, err := Process(table, Options{})
	require.NoError(t, err)
	require.Len(t, result.Inventory, 1)

	assert.False(t, isNonFinite(result.Inventory[0].ExpectedROI))
	assert.False(t, isNonFinite(result.Business.GrowthRatePercent))
	assert.False(t, isNonFinite(result.ROI.NetROI))
}

func isNonFinite(f float64) bool {
	return f != f || f > 1e308 || f < -1e308
}

func TestProcessForecastWindowInFuture(t *testing.T) {
	// Window covering history plus a slice of the forecast horizon: forecast
	// points outside the window are filtered out.
	from := day("2024-03-01")
	to := day("2024-04-02") // 3 days past the last historical day

	result, err := Process(pipelineTable(30), Options{
		Window: DateWindow{From: &from, To: &to},
	})
	require.NoError(t, err)

	for _, fc := range result.Forecasts {
		assert.Len(t, fc.Forecast, 3)
		for _, pt := range fc.Forecast {
			parsed, perr := time.Parse("2006-01-02", pt.Date)
			require.NoError(t, perr)
			assert.False(t, parsed.After(to))
		}
	}
}
