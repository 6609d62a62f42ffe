package analytics

import (
	"sort"
	"time"

	"order-analytics/internal/models"
)

// DailyOptions controls the shape of the daily series
type DailyOptions struct {
	// Dense emits every calendar day between the first and last purchase,
	// with zero counts on days without orders.
	Dense bool
}

// Day truncates t to midnight of its calendar day, ignoring any zone
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Daily groups rows by calendar day of purchase. OrderCount is the number
// of distinct order ids; TotalOrders counts every row carrying a status, so
// it includes join fan-out when the rows are denormalized.
func Daily[T models.Purchase](rows []T, opts DailyOptions) []models.DailyMetric {
	type bucket struct {
		orders map[string]struct{}
		total  int
	}

	buckets := make(map[time.Time]*bucket)
	for _, r := range rows {
		day := Day(r.PurchaseTime())
		b, ok := buckets[day]
		if !ok {
			b = &bucket{orders: make(map[string]struct{})}
			buckets[day] = b
		}
		b.orders[r.PurchaseOrderID()] = struct{}{}
		if r.PurchaseStatus() != "" {
			b.total++
		}
	}

	days := make([]time.Time, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	if opts.Dense && len(days) > 1 {
		first, last := days[0], days[len(days)-1]
		days = days[:0]
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			days = append(days, d)
		}
	}

	out := make([]models.DailyMetric, 0, len(days))
	for _, d := range days {
		m := models.DailyMetric{Date: d}
		if b, ok := buckets[d]; ok {
			m.OrderCount = len(b.orders)
			m.TotalOrders = b.total
		}
		out = append(out, m)
	}

	return out
}
