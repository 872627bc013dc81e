package analytics

import (
	"sort"

	"forecastai/models"
)

// implementationCost is the assumed one-time cost of acting on the
// recommendations, used for the ROI projection.
const implementationCost = 500.0

// BusinessSummary aggregates revenue, growth and top products over the
// filtered dataset. Revenue uses caller price overrides, then observed
// prices, then the default price assumption.
func BusinessSummary(records []models.SalesRecord, ov Overrides) models.BusinessMetrics {
	bm := models.BusinessMetrics{TotalTransactions: len(records)}
	if len(records) == 0 {
		return bm
	}

	first, last := records[0].Date, records[len(records)-1].Date
	spanDays := last.Sub(first).Hours()/24 + 1
	mid := first.Add(last.Sub(first) / 2)

	byItem := make(map[string]float64)
	seen := make(map[string]bool)
	var firstHalf, secondHalf float64
	for _, rec := range records {
		price := lookup(ov.UnitPrice, rec.SKU, 0)
		if price == 0 {
			if rec.UnitPrice > 0 {
				price = rec.UnitPrice
			} else {
				price = DefaultUnitPrice
			}
		}
		revenue := rec.Quantity * price
		bm.TotalRevenue += revenue
		byItem[rec.ItemName] += revenue
		seen[rec.SKU] = true

		if rec.Date.After(mid) {
			secondHalf += revenue
		} else {
			firstHalf += revenue
		}
	}

	bm.UniqueProducts = len(seen)
	bm.AvgDailyRevenue = bm.TotalRevenue / spanDays
	if firstHalf > 0 {
		bm.GrowthRatePercent = (secondHalf - firstHalf) / firstHalf * 100
	}

	shares := make([]models.ProductShare, 0, len(byItem))
	for name, revenue := range byItem {
		share := models.ProductShare{ItemName: name, Revenue: revenue}
		if bm.TotalRevenue > 0 {
			share.Share = revenue / bm.TotalRevenue * 100
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Revenue != shares[j].Revenue {
			return shares[i].Revenue > shares[j].Revenue
		}
		return shares[i].ItemName < shares[j].ItemName
	})
	if len(shares) > 5 {
		shares = shares[:5]
	}
	bm.TopProducts = shares
	return bm
}

// EstimateROI projects the monthly return from acting on the inventory
// recommendations. This is explicitly an estimate, not a measured outcome.
func EstimateROI(bm models.BusinessMetrics, inventory []models.InventoryRecommendation) models.ROIEstimate {
	monthly := bm.AvgDailyRevenue * 30

	var improvement float64
	if len(inventory) > 0 {
		var shortageValue float64
		for _, rec := range inventory {
			shortageValue += rec.Shortage * rec.UnitPrice
		}
		improvement = shortageValue
		if limit := 0.25 * monthly; improvement > limit {
			improvement = limit
		}
	} else {
		improvement = 0.18 * monthly
	}

	roi := models.ROIEstimate{
		CurrentMonthlyRevenue: monthly,
		ProjectedIncrease:     improvement,
		ProjectedRevenue:      monthly + improvement,
		InventoryCostSavings:  0.35 * improvement,
		NetProfit:             improvement - implementationCost,
		PaybackPeriodDays:     25,
		Disclaimer:            "Projected estimate based on current demand patterns, not a measured outcome",
	}
	if monthly > 0 {
		roi.ImprovementPercent = improvement / monthly * 100
	}
	roi.NetROI = (improvement - implementationCost) / implementationCost * 100
	return roi
}
