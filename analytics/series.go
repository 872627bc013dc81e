package analytics

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"forecastai/models"
)

// ProductSeries is one product's demand history, reindexed to cover every
// calendar day in its observed span with missing days filled as zero demand.
type ProductSeries struct {
	SKU          string
	ItemName     string
	Points       []models.SeriesPoint
	ObservedDays int
	Total        float64
	AvgPrice     float64
}

// Quantities returns the series values in date order.
func (p *ProductSeries) Quantities() []float64 {
	qs := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		qs[i] = pt.Quantity
	}
	return qs
}

// BuildProductSeries groups cleaned records by SKU and builds a gap-filled
// daily series per product, ordered by total quantity descending (ties broken
// by SKU for deterministic output).
func BuildProductSeries(records []models.SalesRecord) []ProductSeries {
	type acc struct {
		itemName   string
		byDay      map[time.Time]float64
		total      float64
		priceSum   float64
		priceCount int
	}
	bySKU := make(map[string]*acc)
	for _, rec := range records {
		a := bySKU[rec.SKU]
		if a == nil {
			a = &acc{itemName: rec.ItemName, byDay: make(map[time.Time]float64)}
			bySKU[rec.SKU] = a
		}
		a.byDay[rec.Date] += rec.Quantity
		a.total += rec.Quantity
		if rec.UnitPrice > 0 {
			a.priceSum += rec.UnitPrice
			a.priceCount++
		}
	}

	out := make([]ProductSeries, 0, len(bySKU))
	for sku, a := range bySKU {
		ps := ProductSeries{
			SKU:          sku,
			ItemName:     a.itemName,
			ObservedDays: len(a.byDay),
			Total:        a.total,
		}
		if a.priceCount > 0 {
			ps.AvgPrice = a.priceSum / float64(a.priceCount)
		}

		days := make([]time.Time, 0, len(a.byDay))
		for d := range a.byDay {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

		first, last := days[0], days[len(days)-1]
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			ps.Points = append(ps.Points, models.SeriesPoint{Date: d, Quantity: a.byDay[d]})
		}
		out = append(out, ps)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].SKU < out[j].SKU
	})
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// quantile returns the empirical p-quantile of xs (p in [0,1]).
func quantile(p float64, xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// rankPercentile is the share of values in xs that are <= v, as a 0-100
// percentile within the current catalog.
func rankPercentile(v float64, xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	count := 0
	for _, x := range xs {
		if x <= v {
			count++
		}
	}
	return float64(count) / float64(len(xs)) * 100
}

// coefficientOfVariation is std/mean, or 0 for a zero mean.
func coefficientOfVariation(xs []float64) float64 {
	m := mean(xs)
	if m == 0 {
		return 0
	}
	return stddev(xs) / m
}

func nonZero(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x > 0 {
			out = append(out, x)
		}
	}
	return out
}
