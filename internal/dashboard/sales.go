package dashboard

import (
	"math"
	"time"

	"woo-admin/internal/agent"
	"woo-admin/internal/store"
)

var createdLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func parseCreated(v string) (time.Time, bool) {
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WeeklySales buckets counted orders into the seven days ending on the most
// recent order date (or today when no order carries a date).
func WeeklySales(orders []store.Order, now time.Time) []agent.SalesPoint {
	anchor := time.Time{}
	for _, o := range orders {
		if t, ok := parseCreated(o.CreatedAt); ok && t.After(anchor) {
			anchor = t
		}
	}
	if anchor.IsZero() {
		anchor = now
	}
	end := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -6)

	series := make([]agent.SalesPoint, 7)
	for i := range series {
		series[i].Name = start.AddDate(0, 0, i).Weekday().String()[:3]
	}

	for _, o := range orders {
		if !o.Status.Counted() {
			continue
		}
		t, ok := parseCreated(o.CreatedAt)
		if !ok {
			continue
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		idx := int(day.Sub(start).Hours() / 24)
		if idx < 0 || idx >= len(series) {
			continue
		}
		series[idx].Sales += o.TotalAmount()
		series[idx].Orders++
	}
	for i := range series {
		series[i].Sales = math.Round(series[i].Sales*100) / 100
	}
	return series
}

// TotalSales sums the totals of counted orders.
func TotalSales(orders []store.Order) float64 {
	var sum float64
	for _, o := range orders {
		if o.Status.Counted() {
			sum += o.TotalAmount()
		}
	}
	return math.Round(sum*100) / 100
}
