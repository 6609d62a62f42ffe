package analytics

import (
	"sort"

	"order-analytics/internal/models"
)

// DefaultTopN is the size of the top-products and top-zip-code lists
const DefaultTopN = 10

// Count is a key with its row count
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// PaymentTotal is the summed payment value of a payment type
type PaymentTotal struct {
	PaymentType string  `json:"payment_type"`
	Total       float64 `json:"total"`
}

// ZipCount is a customer zip code prefix with its row count and, when the
// geolocation table knows the prefix, its mean coordinates.
type ZipCount struct {
	ZipCodePrefix string  `json:"zip_code_prefix"`
	Count         int     `json:"count"`
	Lat           float64 `json:"lat,omitempty"`
	Lng           float64 `json:"lng,omitempty"`
	Located       bool    `json:"located"`
}

// Breakdowns are the per-dataset distributions shown next to the daily series
type Breakdowns struct {
	Payments    []PaymentTotal `json:"payments"`
	Statuses    []Count        `json:"statuses"`
	TopProducts []Count        `json:"top_products"`
	TopZipCodes []ZipCount     `json:"top_zip_codes"`
}

func countBy(rows []models.JoinedRecord, key func(models.JoinedRecord) string) []Count {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[key(r)]++
	}

	out := make([]Count, 0, len(counts))
	for k, n := range counts {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func head[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// PaymentTotals sums payment values per payment type over all rows
func PaymentTotals(rows []models.JoinedRecord) []PaymentTotal {
	values := make(map[string][]float64)
	for _, r := range rows {
		values[r.PaymentType] = append(values[r.PaymentType], r.PaymentValue)
	}

	out := make([]PaymentTotal, 0, len(values))
	for t, vs := range values {
		sort.Float64s(vs)
		var total float64
		for _, v := range vs {
			total += v
		}
		out = append(out, PaymentTotal{PaymentType: t, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].PaymentType < out[j].PaymentType
	})
	return out
}

// StatusDistribution counts rows per order status
func StatusDistribution(rows []models.JoinedRecord) []Count {
	return countBy(rows, func(r models.JoinedRecord) string { return r.Status })
}

// TopProducts returns the n products appearing in the most rows
func TopProducts(rows []models.JoinedRecord, n int) []Count {
	return head(countBy(rows, func(r models.JoinedRecord) string { return r.ProductID }), n)
}

// TopZipCodes returns the n customer zip prefixes appearing in the most rows
func TopZipCodes(rows []models.JoinedRecord, geo []models.Geolocation, n int) []ZipCount {
	top := head(countBy(rows, func(r models.JoinedRecord) string { return r.CustomerZip }), n)
	centroids := Centroids(geo)

	out := make([]ZipCount, 0, len(top))
	for _, c := range top {
		z := ZipCount{ZipCodePrefix: c.Key, Count: c.Count}
		if p, ok := centroids[c.Key]; ok {
			z.Lat, z.Lng, z.Located = p[0], p[1], true
		}
		out = append(out, z)
	}
	return out
}

// Centroids averages the coordinates sampled for each zip code prefix
func Centroids(geo []models.Geolocation) map[string][2]float64 {
	type sum struct {
		lat, lng float64
		n        int
	}

	sums := make(map[string]*sum)
	for _, g := range geo {
		s, ok := sums[g.ZipCodePrefix]
		if !ok {
			s = &sum{}
			sums[g.ZipCodePrefix] = s
		}
		s.lat += g.Lat
		s.lng += g.Lng
		s.n++
	}

	out := make(map[string][2]float64, len(sums))
	for zip, s := range sums {
		out[zip] = [2]float64{s.lat / float64(s.n), s.lng / float64(s.n)}
	}
	return out
}

// ComputeBreakdowns builds every distribution of the joined dataset
func ComputeBreakdowns(rows []models.JoinedRecord, geo []models.Geolocation, topN int) Breakdowns {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return Breakdowns{
		Payments:    PaymentTotals(rows),
		Statuses:    StatusDistribution(rows),
		TopProducts: TopProducts(rows, topN),
		TopZipCodes: TopZipCodes(rows, geo, topN),
	}
}

// RFMSummary describes the distribution of an RFM table
type RFMSummary struct {
	Customers         int            `json:"customers"`
	Segments          map[string]int `json:"segments"`
	ScoreDistribution []Count        `json:"score_distribution"`
	Heatmap           []HeatmapCell  `json:"heatmap"`
}

// HeatmapCell counts customers sharing an (R, F, M) score triple
type HeatmapCell struct {
	RScore    int `json:"r_score"`
	FScore    int `json:"f_score"`
	MScore    int `json:"m_score"`
	Customers int `json:"customers"`
}

// SegmentCounts counts customers per segment
func SegmentCounts(rfm []models.RFMRecord) map[string]int {
	out := make(map[string]int)
	for _, r := range rfm {
		out[r.Segment]++
	}
	return out
}

// Summarize builds the segment counts, score distribution and heatmap
func Summarize(rfm []models.RFMRecord) RFMSummary {
	scores := make(map[string]int)
	cells := make(map[[3]int]int)
	for _, r := range rfm {
		scores[r.RFMScore]++
		cells[[3]int{r.RScore, r.FScore, r.MScore}]++
	}

	dist := make([]Count, 0, len(scores))
	for code, n := range scores {
		dist = append(dist, Count{Key: code, Count: n})
	}
	sort.Slice(dist, func(i, j int) bool { return dist[i].Key < dist[j].Key })

	heatmap := make([]HeatmapCell, 0, len(cells))
	for k, n := range cells {
		heatmap = append(heatmap, HeatmapCell{RScore: k[0], FScore: k[1], MScore: k[2], Customers: n})
	}
	sort.Slice(heatmap, func(i, j int) bool {
		a, b := heatmap[i], heatmap[j]
		if a.RScore != b.RScore {
			return a.RScore < b.RScore
		}
		if a.FScore != b.FScore {
			return a.FScore < b.FScore
		}
		return a.MScore < b.MScore
	})

	return RFMSummary{
		Customers:         len(rfm),
		Segments:          SegmentCounts(rfm),
		ScoreDistribution: dist,
		Heatmap:           heatmap,
	}
}
