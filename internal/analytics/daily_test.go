package analytics

import (
	"testing"
	"time"

	"order-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaily_SingleOrder(t *testing.T) {
	orders := []models.Order{
		{OrderID: "o1", CustomerID: "c1", Status: "delivered", PurchaseTimestamp: time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC)},
	}

	got := Daily(orders, DailyOptions{})

	require.Len(t, got, 1)
	assert.Equal(t, models.DailyMetric{Date: date(2024, 1, 5), OrderCount: 1, TotalOrders: 1}, got[0])
}

func TestDaily_FanOutCountsDistinctOrders(t *testing.T) {
	rows := []models.JoinedRecord{
		{OrderID: "o1", Status: "delivered", PurchaseTimestamp: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)},
		{OrderID: "o1", Status: "delivered", PurchaseTimestamp: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)},
		{OrderID: "o2", Status: "", PurchaseTimestamp: time.Date(2024, 1, 5, 23, 59, 59, 0, time.UTC)},
		{OrderID: "o3", Status: "shipped", PurchaseTimestamp: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)},
	}

	got := Daily(rows, DailyOptions{})

	assert.Equal(t, []models.DailyMetric{
		{Date: date(2024, 1, 5), OrderCount: 2, TotalOrders: 2},
		{Date: date(2024, 1, 7), OrderCount: 1, TotalOrders: 1},
	}, got)
}

func TestDaily_Dense(t *testing.T) {
	orders := []models.Order{
		{OrderID: "o2", Status: "delivered", PurchaseTimestamp: time.Date(2024, 1, 7, 1, 0, 0, 0, time.UTC)},
		{OrderID: "o1", Status: "delivered", PurchaseTimestamp: time.Date(2024, 1, 4, 1, 0, 0, 0, time.UTC)},
	}

	got := Daily(orders, DailyOptions{Dense: true})

	assert.Equal(t, []models.DailyMetric{
		{Date: date(2024, 1, 4), OrderCount: 1, TotalOrders: 1},
		{Date: date(2024, 1, 5)},
		{Date: date(2024, 1, 6)},
		{Date: date(2024, 1, 7), OrderCount: 1, TotalOrders: 1},
	}, got)

	sparse := Daily(orders, DailyOptions{})
	assert.Len(t, sparse, 2)
}

func TestDaily_Empty(t *testing.T) {
	assert.Empty(t, Daily([]models.Order{}, DailyOptions{Dense: true}))
}
