package report

import (
	"testing"
	"time"

	"order-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func series() []models.DailyMetric {
	return []models.DailyMetric{
		{Date: day(2), OrderCount: 3, TotalOrders: 5},
		{Date: day(3), OrderCount: 1, TotalOrders: 1},
		{Date: day(5), OrderCount: 4, TotalOrders: 4},
		{Date: day(9), OrderCount: 2, TotalOrders: 3},
	}
}

func TestNewRange_Invalid(t *testing.T) {
	_, err := NewRange(day(5), day(4))

	var invalid *InvalidRangeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, day(5), invalid.Start)
	assert.Contains(t, err.Error(), "2024-01-04")
}

func TestNewRange_NormalizesToDays(t *testing.T) {
	r, err := NewRange(day(5).Add(15*time.Hour), day(5).Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, day(5), r.Start)
	assert.Equal(t, day(5), r.End)
	assert.Equal(t, "2024-01-05:2024-01-05", r.Key())
}

func TestFilter_IsSubsetWithinRange(t *testing.T) {
	all := series()

	for start := 1; start <= 10; start++ {
		for end := start; end <= 10; end++ {
			r, err := NewRange(day(start), day(end))
			require.NoError(t, err)

			rep, err := Filter(all, r)
			require.NoError(t, err)

			var want []models.DailyMetric
			total := 0
			for _, m := range all {
				if !m.Date.Before(day(start)) && !m.Date.After(day(end)) {
					want = append(want, m)
					total += m.OrderCount
				}
			}
			assert.ElementsMatch(t, want, rep.Series)
			assert.Equal(t, total, rep.TotalOrders)
		}
	}
}

func TestFilter_InclusiveBounds(t *testing.T) {
	r, _ := NewRange(day(3), day(5))

	rep, err := Filter(series(), r)

	require.NoError(t, err)
	require.Len(t, rep.Series, 2)
	assert.Equal(t, 5, rep.TotalOrders)
}

func TestFilter_EmptyRange(t *testing.T) {
	r, _ := NewRange(day(4), day(4))

	rep, err := Filter(series(), r)

	require.NoError(t, err)
	assert.NotNil(t, rep.Series)
	assert.Empty(t, rep.Series)
	assert.Equal(t, 0, rep.TotalOrders)
}

func TestFilter_RejectsReversedRange(t *testing.T) {
	rep, err := Filter(series(), DateRange{Start: day(9), End: day(2)})

	assert.Nil(t, rep)
	var invalid *InvalidRangeError
	assert.ErrorAs(t, err, &invalid)
}

func TestDefaultRange(t *testing.T) {
	r, ok := DefaultRange(series())
	require.True(t, ok)
	assert.Equal(t, day(2), r.Start)
	assert.Equal(t, day(9), r.End)

	rep, err := Filter(series(), r)
	require.NoError(t, err)
	assert.Equal(t, 10, rep.TotalOrders)

	_, ok = DefaultRange(nil)
	assert.False(t, ok)
}
