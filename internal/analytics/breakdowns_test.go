package analytics

import (
	"testing"

	"order-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinedRows() []models.JoinedRecord {
	return []models.JoinedRecord{
		{OrderID: "o1", Status: "delivered", ProductID: "p1", CustomerZip: "01000", PaymentType: "credit_card", PaymentValue: 10},
		{OrderID: "o1", Status: "delivered", ProductID: "p2", CustomerZip: "01000", PaymentType: "voucher", PaymentValue: 5},
		{OrderID: "o2", Status: "canceled", ProductID: "p2", CustomerZip: "20000", PaymentType: "credit_card", PaymentValue: 30},
		{OrderID: "o3", Status: "delivered", ProductID: "p3", CustomerZip: "30000", PaymentType: "boleto", PaymentValue: 12.5},
	}
}

func TestPaymentTotals(t *testing.T) {
	assert.Equal(t, []PaymentTotal{
		{PaymentType: "credit_card", Total: 40},
		{PaymentType: "boleto", Total: 12.5},
		{PaymentType: "voucher", Total: 5},
	}, PaymentTotals(joinedRows()))
}

func TestStatusDistribution(t *testing.T) {
	assert.Equal(t, []Count{
		{Key: "delivered", Count: 3},
		{Key: "canceled", Count: 1},
	}, StatusDistribution(joinedRows()))
}

func TestTopProducts_TiesOrderedByKey(t *testing.T) {
	assert.Equal(t, []Count{
		{Key: "p2", Count: 2},
		{Key: "p1", Count: 1},
	}, TopProducts(joinedRows(), 2))
}

func TestTopZipCodes_WithCentroids(t *testing.T) {
	geo := []models.Geolocation{
		{ZipCodePrefix: "01000", Lat: -23.0, Lng: -46.0},
		{ZipCodePrefix: "01000", Lat: -24.0, Lng: -47.0},
	}

	got := TopZipCodes(joinedRows(), geo, 10)

	require.Len(t, got, 3)
	assert.Equal(t, "01000", got[0].ZipCodePrefix)
	assert.Equal(t, 2, got[0].Count)
	assert.True(t, got[0].Located)
	assert.InDelta(t, -23.5, got[0].Lat, 1e-9)
	assert.InDelta(t, -46.5, got[0].Lng, 1e-9)
	assert.False(t, got[1].Located)
}

func TestComputeBreakdowns_DefaultTopN(t *testing.T) {
	b := ComputeBreakdowns(joinedRows(), nil, 0)

	assert.Len(t, b.TopProducts, 3)
	assert.Len(t, b.TopZipCodes, 3)
	assert.Len(t, b.Payments, 3)
	assert.Len(t, b.Statuses, 2)
}

func TestSummarize(t *testing.T) {
	rfm := []models.RFMRecord{
		{CustomerID: "a", RScore: 1, FScore: 1, MScore: 2, RFMScore: "112", Segment: models.SegmentHighValue},
		{CustomerID: "b", RScore: 1, FScore: 1, MScore: 2, RFMScore: "112", Segment: models.SegmentHighValue},
		{CustomerID: "c", RScore: 5, FScore: 1, MScore: 1, RFMScore: "511", Segment: models.SegmentLowValue},
	}

	s := Summarize(rfm)

	assert.Equal(t, 3, s.Customers)
	assert.Equal(t, map[string]int{models.SegmentHighValue: 2, models.SegmentLowValue: 1}, s.Segments)
	assert.Equal(t, []Count{{Key: "112", Count: 2}, {Key: "511", Count: 1}}, s.ScoreDistribution)
	assert.Equal(t, []HeatmapCell{
		{RScore: 1, FScore: 1, MScore: 2, Customers: 2},
		{RScore: 5, FScore: 1, MScore: 1, Customers: 1},
	}, s.Heatmap)
}
