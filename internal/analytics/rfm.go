package analytics

import (
	"fmt"
	"sort"
	"time"

	"order-analytics/internal/models"
)

// ScoreBins is the number of quantile bins used for each RFM metric
const ScoreBins = 5

// CustomerAggregate holds the reference-independent part of a customer's
// RFM metrics.
type CustomerAggregate struct {
	CustomerID   string    `json:"customer_id"`
	LastPurchase time.Time `json:"last_purchase"`
	Rows         int       `json:"rows"`
	Monetary     float64   `json:"monetary"`
}

// AggregateCustomers groups joined rows by customer. Rows is the raw row
// count, so multi-item and multi-payment orders are counted once per row.
// Payment values are summed in ascending order so the total does not
// depend on the order rows arrive in.
func AggregateCustomers(rows []models.JoinedRecord) []CustomerAggregate {
	type acc struct {
		last   time.Time
		rows   int
		values []float64
	}

	byCustomer := make(map[string]*acc)
	for _, r := range rows {
		a, ok := byCustomer[r.CustomerID]
		if !ok {
			a = &acc{}
			byCustomer[r.CustomerID] = a
		}
		if r.PurchaseTimestamp.After(a.last) {
			a.last = r.PurchaseTimestamp
		}
		a.rows++
		a.values = append(a.values, r.PaymentValue)
	}

	out := make([]CustomerAggregate, 0, len(byCustomer))
	for id, a := range byCustomer {
		sort.Float64s(a.values)
		var total float64
		for _, v := range a.values {
			total += v
		}
		out = append(out, CustomerAggregate{
			CustomerID:   id,
			LastPurchase: a.last,
			Rows:         a.rows,
			Monetary:     total,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })

	return out
}

// RecencyDays returns the whole days elapsed between last and reference,
// never negative.
func RecencyDays(reference, last time.Time) int {
	d := reference.Sub(last)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// BuildRFM scores every customer against the given reference time. Each
// metric is binned into quintiles over the whole population with score 1
// for the lowest raw values, recency included.
func BuildRFM(aggs []CustomerAggregate, reference time.Time) []models.RFMRecord {
	recency := make([]float64, len(aggs))
	frequency := make([]float64, len(aggs))
	monetary := make([]float64, len(aggs))

	out := make([]models.RFMRecord, len(aggs))
	for i, a := range aggs {
		out[i] = models.RFMRecord{
			CustomerID: a.CustomerID,
			Recency:    RecencyDays(reference, a.LastPurchase),
			Frequency:  a.Rows,
			Monetary:   a.Monetary,
		}
		recency[i] = float64(out[i].Recency)
		frequency[i] = float64(out[i].Frequency)
		monetary[i] = out[i].Monetary
	}

	rScores, _ := QuantileBins(recency, ScoreBins)
	fScores, _ := QuantileBins(frequency, ScoreBins)
	mScores, _ := QuantileBins(monetary, ScoreBins)

	for i := range out {
		out[i].RScore = rScores[i]
		out[i].FScore = fScores[i]
		out[i].MScore = mScores[i]
		out[i].RFMScore = fmt.Sprintf("%d%d%d", rScores[i], fScores[i], mScores[i])
		out[i].Segment = SegmentFor(out[i].RFMScore)
	}

	return out
}

// RFM aggregates and scores the joined rows in one step
func RFM(rows []models.JoinedRecord, reference time.Time) []models.RFMRecord {
	return BuildRFM(AggregateCustomers(rows), reference)
}
