package analytics

import (
	"sort"
	"time"

	"forecastai/models"
)

// DaySequence is a finite, restartable view over the observed sales days,
// ordered ascending. One element per distinct observed day; no gap-filling at
// this layer (the forecaster's product series do that).
type DaySequence struct {
	days  []time.Time
	byDay map[time.Time][]models.SalesRecord
}

// AggregateDaily groups cleaned records by calendar day.
func AggregateDaily(records []models.SalesRecord) *DaySequence {
	seq := &DaySequence{byDay: make(map[time.Time][]models.SalesRecord)}
	for _, rec := range records {
		if _, seen := seq.byDay[rec.Date]; !seen {
			seq.days = append(seq.days, rec.Date)
		}
		seq.byDay[rec.Date] = append(seq.byDay[rec.Date], rec)
	}
	sort.Slice(seq.days, func(i, j int) bool { return seq.days[i].Before(seq.days[j]) })
	return seq
}

// Len is the number of distinct observed days.
func (s *DaySequence) Len() int { return len(s.days) }

// Iter returns a pull iterator over day aggregates. Each element is computed
// on demand; calling Iter again restarts from the first day.
func (s *DaySequence) Iter() func() (models.DayAggregate, bool) {
	i := 0
	prevTotal := 0.0
	return func() (models.DayAggregate, bool) {
		if i >= len(s.days) {
			return models.DayAggregate{}, false
		}
		day := s.days[i]
		agg := s.aggregate(day)

		// First day has no prior: neutral, zero growth.
		if i > 0 && prevTotal > 0 {
			agg.GrowthRate = (agg.TotalQuantity - prevTotal) / prevTotal * 100
		}
		switch {
		case agg.GrowthRate > 5:
			agg.Trend = "up"
		case agg.GrowthRate < -5:
			agg.Trend = "down"
		default:
			agg.Trend = "neutral"
		}

		prevTotal = agg.TotalQuantity
		i++
		return agg, true
	}
}

// All materializes the sequence.
func (s *DaySequence) All() []models.DayAggregate {
	out := make([]models.DayAggregate, 0, len(s.days))
	next := s.Iter()
	for agg, ok := next(); ok; agg, ok = next() {
		out = append(out, agg)
	}
	return out
}

func (s *DaySequence) aggregate(day time.Time) models.DayAggregate {
	recs := s.byDay[day]
	agg := models.DayAggregate{
		Date:         day.Format("2006-01-02"),
		Transactions: len(recs),
	}

	byItem := make(map[string]float64)
	for _, rec := range recs {
		agg.TotalQuantity += rec.Quantity
		byItem[rec.ItemName] += rec.Quantity
	}

	shares := make([]models.ProductShare, 0, len(byItem))
	for name, qty := range byItem {
		shares = append(shares, models.ProductShare{ItemName: name, Quantity: qty})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Quantity != shares[j].Quantity {
			return shares[i].Quantity > shares[j].Quantity
		}
		return shares[i].ItemName < shares[j].ItemName
	})
	if len(shares) > 5 {
		shares = shares[:5]
	}
	agg.TopProducts = shares
	return agg
}
