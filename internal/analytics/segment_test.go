package analytics

import (
	"fmt"
	"testing"

	"order-analytics/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSegmentFor(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"111", models.SegmentHighValue},
		{"135", models.SegmentHighValue},
		{"231", models.SegmentHighValue},
		{"315", models.SegmentMediumValue},
		{"431", models.SegmentMediumValue},
		{"141", models.SegmentLowValue},
		{"441", models.SegmentLowValue},
		{"511", models.SegmentLowValue},
		{"555", models.SegmentLowValue},
		{"1", models.SegmentLowValue},
		{"", models.SegmentLowValue},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentFor(tt.code))
		})
	}
}

func TestSegmentFor_IgnoresMonetaryScore(t *testing.T) {
	high := map[string]bool{"11": true, "12": true, "13": true, "21": true, "22": true, "23": true}
	medium := map[string]bool{"31": true, "32": true, "33": true, "41": true, "42": true, "43": true}

	for r := 1; r <= 5; r++ {
		for f := 1; f <= 5; f++ {
			prefix := fmt.Sprintf("%d%d", r, f)
			want := models.SegmentLowValue
			switch {
			case high[prefix]:
				want = models.SegmentHighValue
			case medium[prefix]:
				want = models.SegmentMediumValue
			}
			for m := 1; m <= 5; m++ {
				assert.Equal(t, want, SegmentFor(fmt.Sprintf("%s%d", prefix, m)), prefix)
			}
		}
	}
}
