package analytics

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"forecastai/models"
)

// dateFormats are tried in order when coercing raw date cells. POS exports
// are wildly inconsistent about this.
var dateFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// ParseFlexibleDate coerces a raw cell to a calendar day, trying each known
// format. The time-of-day component is discarded.
func ParseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// DateWindow is an optional inclusive [From, To] restriction on the data.
type DateWindow struct {
	From *time.Time
	To   *time.Time
}

// IsSet reports whether either bound is present.
func (w DateWindow) IsSet() bool { return w.From != nil || w.To != nil }

func (w DateWindow) String() string {
	format := func(t *time.Time) string {
		if t == nil {
			return "open"
		}
		return t.Format("2006-01-02")
	}
	return fmt.Sprintf("%s to %s", format(w.From), format(w.To))
}

// Clean coerces raw rows into typed SalesRecords, dropping rows with
// unparseable dates, non-numeric quantities, or quantity <= 0, then sorts by
// date ascending and applies the optional date window. A window that leaves
// zero rows is an *EmptyDatasetError naming both ranges; it never silently
// falls back to the unfiltered data.
func Clean(t *Table, cm ColumnMap, window DateWindow) ([]models.SalesRecord, error) {
	records := make([]models.SalesRecord, 0, len(t.Rows))

	var badDates, badQty, nonPositive int
	for i := range t.Rows {
		date, ok := ParseFlexibleDate(t.Cell(i, cm.Date))
		if !ok {
			badDates++
			continue
		}
		qty, err := cast.ToFloat64E(strings.TrimSpace(t.Cell(i, cm.Quantity)))
		if err != nil {
			badQty++
			continue
		}
		if qty <= 0 {
			nonPositive++
			continue
		}

		rec := models.SalesRecord{Date: date, Quantity: qty}
		if cm.ItemName >= 0 {
			rec.ItemName = strings.TrimSpace(t.Cell(i, cm.ItemName))
		}
		if cm.SKU >= 0 {
			rec.SKU = strings.TrimSpace(t.Cell(i, cm.SKU))
		}
		if rec.SKU == "" {
			rec.SKU = SynthesizeSKU(rec.ItemName)
		}
		if rec.ItemName == "" {
			rec.ItemName = rec.SKU
		}
		if rec.SKU == "" || rec.ItemName == "" {
			// Neither identifier usable on this row.
			badQty++
			continue
		}
		if cm.UnitPrice >= 0 {
			if price, err := cast.ToFloat64E(strings.TrimSpace(t.Cell(i, cm.UnitPrice))); err == nil && price > 0 {
				rec.UnitPrice = price
			}
		}
		if cm.Store >= 0 {
			rec.Store = strings.TrimSpace(t.Cell(i, cm.Store))
		}
		records = append(records, rec)
	}

	log.Printf("🧹 Cleaning: %d rows in, %d dropped (bad date), %d dropped (bad quantity), %d dropped (qty<=0), %d kept",
		len(t.Rows), badDates, badQty, nonPositive, len(records))

	if len(records) == 0 {
		return nil, &EmptyDatasetError{Available: "none"}
	}

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].Date.Before(records[b].Date)
	})

	available := fmt.Sprintf("%s to %s",
		records[0].Date.Format("2006-01-02"),
		records[len(records)-1].Date.Format("2006-01-02"))

	if window.IsSet() {
		filtered := records[:0:0]
		for _, rec := range records {
			if window.From != nil && rec.Date.Before(*window.From) {
				continue
			}
			if window.To != nil && rec.Date.After(*window.To) {
				continue
			}
			filtered = append(filtered, rec)
		}
		log.Printf("📅 Date filter %s: %d of %d rows", window, len(filtered), len(records))
		if len(filtered) == 0 {
			return nil, &EmptyDatasetError{Requested: window.String(), Available: available}
		}
		records = filtered
	}

	return records, nil
}
