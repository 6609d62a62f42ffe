package analytics

import "order-analytics/internal/models"

var segmentPrefixes = map[string]string{
	"11": models.SegmentHighValue,
	"12": models.SegmentHighValue,
	"13": models.SegmentHighValue,
	"21": models.SegmentHighValue,
	"22": models.SegmentHighValue,
	"23": models.SegmentHighValue,
	"31": models.SegmentMediumValue,
	"32": models.SegmentMediumValue,
	"33": models.SegmentMediumValue,
	"41": models.SegmentMediumValue,
	"42": models.SegmentMediumValue,
	"43": models.SegmentMediumValue,
}

// SegmentFor maps an RFM code to its segment. Only the R and F digits are
// inspected; the monetary score never affects the segment.
func SegmentFor(code string) string {
	if len(code) < 2 {
		return models.SegmentLowValue
	}
	if seg, ok := segmentPrefixes[code[:2]]; ok {
		return seg
	}
	return models.SegmentLowValue
}
