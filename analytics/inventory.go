package analytics

import (
	"math"
	"sort"

	"forecastai/models"
)

// Overrides are optional caller-supplied per-SKU lookup maps. They are read
// only; absent keys fall back to the documented defaults.
type Overrides struct {
	UnitCost     map[string]float64
	UnitPrice    map[string]float64
	CurrentStock map[string]float64
	LeadTimeDays map[string]float64
}

const (
	DefaultUnitCost     = 100.0
	DefaultUnitPrice    = 150.0
	DefaultLeadTimeDays = 7.0
)

const (
	DemandFast   = "FAST"
	DemandMedium = "MEDIUM"
	DemandSlow   = "SLOW"

	VolatilityStable   = "STABLE"
	VolatilityVariable = "VARIABLE"
	VolatilityHighRisk = "HIGH-RISK"

	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
	PriorityLow      = "LOW"
)

// ComputeProductStats derives per-product demand statistics and rank-based
// percentiles across the full filtered catalog. Percentiles are relative to
// the current catalog only, never historical or global data.
func ComputeProductStats(series []ProductSeries) []models.ProductStats {
	stats := make([]models.ProductStats, len(series))
	avgs := make([]float64, len(series))
	cvs := make([]float64, len(series))

	for i := range series {
		qs := series[i].Quantities()
		avg := mean(qs)
		std := stddev(qs)
		if len(qs) == 1 {
			// A single observation carries no spread; assume 20% of mean.
			std = 0.2 * avg
		}
		cv := 0.0
		if avg > 0 {
			cv = std / avg
		}
		stats[i] = models.ProductStats{
			SKU:      series[i].SKU,
			ItemName: series[i].ItemName,
			DailyAvg: avg,
			DailyStd: std,
			CV:       cv,
		}
		avgs[i] = avg
		cvs[i] = cv
	}

	for i := range stats {
		stats[i].DemandPercentile = rankPercentile(stats[i].DailyAvg, avgs)
		stats[i].VolatilityPercentile = rankPercentile(stats[i].CV, cvs)
		stats[i].CombinedRisk = (stats[i].DemandPercentile + (100 - stats[i].VolatilityPercentile)) / 2
	}
	return stats
}

// Recommend computes safety stock, reorder points and risk classification for
// every product in the catalog (not just the forecasted top products).
// Classification thresholds are recomputed fresh per request from the current
// catalog's percentile distribution.
func Recommend(series []ProductSeries, ov Overrides) []models.InventoryRecommendation {
	stats := ComputeProductStats(series)

	avgs := make([]float64, len(stats))
	cvs := make([]float64, len(stats))
	for i, st := range stats {
		avgs[i] = st.DailyAvg
		cvs[i] = st.CV
	}
	avgP50 := quantile(0.50, avgs)
	avgP75 := quantile(0.75, avgs)
	cvP25 := quantile(0.25, cvs)
	cvP75 := quantile(0.75, cvs)

	out := make([]models.InventoryRecommendation, len(stats))
	for i, st := range stats {
		leadTime := lookup(ov.LeadTimeDays, st.SKU, DefaultLeadTimeDays)
		unitCost := lookup(ov.UnitCost, st.SKU, DefaultUnitCost)
		unitPrice := lookup(ov.UnitPrice, st.SKU, 0)
		if unitPrice == 0 {
			if series[i].AvgPrice > 0 {
				unitPrice = series[i].AvgPrice
			} else {
				unitPrice = DefaultUnitPrice
			}
		}

		safetyStock := math.Max(1.65*st.DailyStd*math.Sqrt(leadTime), 2*st.DailyAvg)
		reorderPoint := safetyStock + st.DailyAvg*leadTime
		recommended := 15*st.DailyAvg + safetyStock

		rec := models.InventoryRecommendation{
			SKU:                  st.SKU,
			ItemName:             st.ItemName,
			DailyAvg:             st.DailyAvg,
			DailyStd:             st.DailyStd,
			CV:                   st.CV,
			DemandClass:          classifyDemand(st.DailyAvg, avgP50, avgP75),
			VolatilityClass:      classifyVolatility(st.CV, cvP25, cvP75),
			DemandPercentile:     st.DemandPercentile,
			VolatilityPercentile: st.VolatilityPercentile,
			CombinedRisk:         st.CombinedRisk,
			Priority:             classifyPriority(st.CombinedRisk),
			RecommendedStock:     recommended,
			SafetyStock:          safetyStock,
			ReorderPoint:         reorderPoint,
			LeadTimeDays:         leadTime,
			UnitCost:             unitCost,
			UnitPrice:            unitPrice,
		}

		rec.Shortage = recommended
		if stock, ok := ov.CurrentStock[st.SKU]; ok {
			s := stock
			rec.CurrentStock = &s
			rec.Shortage = math.Max(0, recommended-stock)
			if st.DailyAvg > 0 {
				days := stock / st.DailyAvg
				rec.DaysRemaining = &days
				rec.StockoutRisk = classifyStockoutRisk(days)
			}
		}

		rec.InvestmentRequired = rec.Shortage * unitCost
		rec.ExpectedRevenue = rec.Shortage * unitPrice
		rec.ExpectedProfit = rec.ExpectedRevenue - rec.InvestmentRequired
		if rec.InvestmentRequired > 0 {
			rec.ExpectedROI = rec.ExpectedProfit / rec.InvestmentRequired * 100
		}
		out[i] = rec
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].CombinedRisk != out[b].CombinedRisk {
			return out[a].CombinedRisk > out[b].CombinedRisk
		}
		return out[a].DailyAvg > out[b].DailyAvg
	})
	return out
}

func lookup(m map[string]float64, key string, fallback float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

func classifyDemand(avg, p50, p75 float64) string {
	switch {
	case avg >= p75:
		return DemandFast
	case avg >= p50:
		return DemandMedium
	default:
		return DemandSlow
	}
}

func classifyVolatility(cv, p25, p75 float64) string {
	switch {
	case cv <= p25:
		return VolatilityStable
	case cv >= p75:
		return VolatilityHighRisk
	default:
		return VolatilityVariable
	}
}

func classifyPriority(combinedRisk float64) string {
	switch {
	case combinedRisk >= 75:
		return PriorityCritical
	case combinedRisk >= 60:
		return PriorityHigh
	case combinedRisk >= 25:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func classifyStockoutRisk(daysRemaining float64) string {
	switch {
	case daysRemaining <= 2:
		return PriorityCritical
	case daysRemaining <= 5:
		return PriorityHigh
	case daysRemaining <= 10:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
