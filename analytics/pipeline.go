package analytics

import (
	"fmt"
	"log"
	"time"

	"forecastai/models"
)

// Options configure one pipeline run. All fields are optional.
type Options struct {
	Window       DateWindow
	ForecastDays int
	Overrides    Overrides
	FileName     string
}

// Process runs the full analytics pipeline on a parsed tabular upload:
// normalize columns, clean and filter, aggregate history, forecast the top
// products, recommend inventory levels across the catalog, prioritize restock
// actions, and summarize business metrics and ROI. Each run is stateless;
// every intermediate structure is owned by this single invocation.
//
// Schema and empty-dataset failures abort the whole request. Per-product
// forecast failures only omit that product and surface as warnings.
func Process(t *Table, opts Options) (*models.AnalysisResult, error) {
	started := time.Now()

	cm, err := ResolveColumns(t)
	if err != nil {
		return nil, err
	}

	records, err := Clean(t, cm, opts.Window)
	if err != nil {
		return nil, err
	}

	days := AggregateDaily(records)
	historical := days.All()

	series := BuildProductSeries(records)

	log.Printf("🔮 Forecasting top products (%d in catalog)...", len(series))
	forecasts, warnings := Forecast(series, ForecastOptions{
		Horizon: opts.ForecastDays,
		Window:  opts.Window,
	})

	log.Printf("📦 Computing inventory recommendations...")
	inventory := Recommend(series, opts.Overrides)

	log.Printf("🎯 Prioritizing restock actions...")
	actions := Prioritize(inventory, started)

	log.Printf("💰 Summarizing business metrics and ROI...")
	business := BusinessSummary(records, opts.Overrides)
	roi := EstimateROI(business, inventory)

	var totalUnits float64
	for _, rec := range records {
		totalUnits += rec.Quantity
	}

	result := &models.AnalysisResult{
		Summary: models.AnalysisSummary{
			TotalRecords: len(records),
			UniqueItems:  len(series),
			DateRange: fmt.Sprintf("%s to %s",
				records[0].Date.Format("2006-01-02"),
				records[len(records)-1].Date.Format("2006-01-02")),
			TotalUnits:      totalUnits,
			AvgDailyUnits:   totalUnits / float64(days.Len()),
			ProcessedAt:     started.UTC().Format(time.RFC3339),
			FileName:        opts.FileName,
			SalesColumnUsed: t.Headers[cm.Quantity],
		},
		Historical:      historical,
		Forecasts:       forecasts,
		Inventory:       inventory,
		PriorityActions: actions,
		Business:        business,
		ROI:             roi,
		Warnings:        warnings,
	}
	if opts.Window.IsSet() {
		result.Summary.FilterApplied = opts.Window.String()
	}

	Sanitize(result)

	log.Printf("✅ Pipeline done in %s: %d records, %d forecasts, %d inventory items, %d actions",
		time.Since(started).Round(time.Millisecond), len(records), len(forecasts), len(inventory), len(actions))
	return result, nil
}
