package report

import (
	"fmt"
	"time"

	"order-analytics/internal/analytics"
	"order-analytics/internal/models"
)

const dateLayout = "2006-01-02"

// InvalidRangeError is returned when a range ends before it starts
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: end %s is before start %s",
		e.End.Format(dateLayout), e.Start.Format(dateLayout))
}

// DateRange is an inclusive range of calendar days
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewRange validates and normalizes a range to day granularity
func NewRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: analytics.Day(start), End: analytics.Day(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, &InvalidRangeError{Start: r.Start, End: r.End}
	}
	return r, nil
}

// Contains reports whether day d falls inside the range
func (r DateRange) Contains(d time.Time) bool {
	d = analytics.Day(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Key identifies the range in cache keys
func (r DateRange) Key() string {
	return r.Start.Format(dateLayout) + ":" + r.End.Format(dateLayout)
}

// DefaultRange spans the first to the last day of the series. ok is false
// for an empty series.
func DefaultRange(series []models.DailyMetric) (r DateRange, ok bool) {
	if len(series) == 0 {
		return DateRange{}, false
	}
	first, last := series[0].Date, series[0].Date
	for _, m := range series[1:] {
		if m.Date.Before(first) {
			first = m.Date
		}
		if m.Date.After(last) {
			last = m.Date
		}
	}
	return DateRange{Start: analytics.Day(first), End: analytics.Day(last)}, true
}

// Report is the daily series restricted to a range
type Report struct {
	Range       DateRange            `json:"range"`
	Series      []models.DailyMetric `json:"series"`
	TotalOrders int                  `json:"total_orders"`
}

// Filter keeps the days of series inside r and totals their distinct order
// counts. A range outside the data yields an empty report, not an error.
func Filter(series []models.DailyMetric, r DateRange) (*Report, error) {
	if r.End.Before(r.Start) {
		return nil, &InvalidRangeError{Start: r.Start, End: r.End}
	}

	rep := &Report{Range: r, Series: []models.DailyMetric{}}
	for _, m := range series {
		if !r.Contains(m.Date) {
			continue
		}
		rep.Series = append(rep.Series, m)
		rep.TotalOrders += m.OrderCount
	}
	return rep, nil
}
