package detector

import "strconv"

// Detection is one predicted box reduced to its label and confidence.
type Detection struct {
	Label      string
	Confidence float64
}

// PestCount is the per-label summary written to stdout.
type PestCount struct {
	Pest          string  `json:"pest"`
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// Aggregate groups detections by label in first-seen order and averages their
// confidence, rounded to two decimals. It never returns nil.
func Aggregate(detections []Detection) []PestCount {
	type bucket struct {
		count int
		sum   float64
	}

	order := make([]string, 0)
	buckets := make(map[string]*bucket)
	for _, d := range detections {
		b, ok := buckets[d.Label]
		if !ok {
			b = &bucket{}
			buckets[d.Label] = b
			order = append(order, d.Label)
		}
		b.count++
		b.sum += d.Confidence
	}

	counts := make([]PestCount, 0, len(order))
	for _, label := range order {
		b := buckets[label]
		counts = append(counts, PestCount{
			Pest:          label,
			Count:         b.count,
			AvgConfidence: RoundConfidence(b.sum / float64(b.count)),
		})
	}
	return counts
}

// RoundConfidence rounds to two decimals, half to even on the exact binary
// value.
func RoundConfidence(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
