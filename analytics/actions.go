package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"forecastai/models"
)

// deadline offsets per priority.
var deadlineDays = map[string]int{
	PriorityHigh:   2,
	PriorityMedium: 7,
	PriorityLow:    14,
}

// Prioritize turns every inventory recommendation into exactly one restock
// action — items are never dropped — and orders the list by priority rank,
// then urgency, then daily revenue at risk.
func Prioritize(recs []models.InventoryRecommendation, now time.Time) []models.ActionItem {
	actions := make([]models.ActionItem, len(recs))
	for i, rec := range recs {
		actions[i] = buildAction(rec, now)
	}

	rank := map[string]int{PriorityHigh: 0, PriorityMedium: 1, PriorityLow: 2}
	sort.SliceStable(actions, func(a, b int) bool {
		if rank[actions[a].Priority] != rank[actions[b].Priority] {
			return rank[actions[a].Priority] < rank[actions[b].Priority]
		}
		if actions[a].UrgencyScore != actions[b].UrgencyScore {
			return actions[a].UrgencyScore > actions[b].UrgencyScore
		}
		return actions[a].DailyRevenueAtRisk > actions[b].DailyRevenueAtRisk
	})
	return actions
}

func buildAction(rec models.InventoryRecommendation, now time.Time) models.ActionItem {
	action := models.ActionItem{
		SKU:                rec.SKU,
		ItemName:           rec.ItemName,
		Shortage:           rec.Shortage,
		DailyRevenueAtRisk: rec.DailyAvg * rec.UnitPrice,
		InvestmentRequired: rec.InvestmentRequired,
		ExpectedRevenue:    rec.ExpectedRevenue,
		ExpectedROI:        rec.ExpectedROI,
	}

	if rec.CurrentStock != nil {
		action.Basis = "ACTUAL"
		stockPct := 100.0
		if rec.RecommendedStock > 0 {
			stockPct = *rec.CurrentStock / rec.RecommendedStock * 100
		}
		action.Priority, action.Action, action.Reason = actualPriority(stockPct, rec.DailyAvg)
		action.UrgencyScore = math.Max(0, math.Min(100, 100-stockPct))

		// Days of runway left after the safety buffer is gone.
		timeline := 1.0
		if rec.DaysRemaining != nil && rec.DailyAvg > 0 {
			timeline = math.Max(1, *rec.DaysRemaining-rec.SafetyStock/rec.DailyAvg)
		}
		action.ReorderTimelineDay = timeline
	} else {
		action.Basis = "ESTIMATE"
		action.Priority, action.Action, action.Reason = estimatePriority(rec.DailyAvg)
		action.UrgencyScore = math.Min(100, rec.DailyAvg*5)
		action.ReorderTimelineDay = math.Max(1, rec.LeadTimeDays)
	}

	action.Deadline = now.AddDate(0, 0, deadlineDays[action.Priority]).Format(time.RFC3339)
	return action
}

// actualPriority applies the stock-level decision table when current stock is
// known.
func actualPriority(stockPct, dailyAvg float64) (priority, action, reason string) {
	switch {
	case stockPct <= 20:
		return PriorityHigh, "Urgent Restock",
			fmt.Sprintf("stock at %.0f%% of recommended level", stockPct)
	case stockPct <= 33 && dailyAvg >= 5:
		return PriorityHigh, "Urgent Restock",
			fmt.Sprintf("stock at %.0f%% with %.1f units/day demand", stockPct, dailyAvg)
	case stockPct <= 33:
		return PriorityMedium, "Plan Restock",
			fmt.Sprintf("stock at %.0f%% of recommended level", stockPct)
	case stockPct > 75 && dailyAvg >= 15:
		return PriorityMedium, "Plan Ahead",
			fmt.Sprintf("high demand of %.1f units/day will drain stock quickly", dailyAvg)
	default:
		return PriorityLow, "Monitor",
			fmt.Sprintf("stock at %.0f%% of recommended level", stockPct)
	}
}

// estimatePriority falls back to demand magnitude when current stock is
// unknown.
func estimatePriority(dailyAvg float64) (priority, action, reason string) {
	switch {
	case dailyAvg >= 15:
		return PriorityHigh, "Urgent Restock",
			fmt.Sprintf("high demand of %.1f units/day, stock level unknown", dailyAvg)
	case dailyAvg >= 8:
		return PriorityMedium, "Plan Restock",
			fmt.Sprintf("moderate demand of %.1f units/day, stock level unknown", dailyAvg)
	default:
		return PriorityLow, "Monitor",
			fmt.Sprintf("low demand of %.1f units/day", dailyAvg)
	}
}
