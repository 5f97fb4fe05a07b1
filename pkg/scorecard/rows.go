package scorecard

import (
	"math"
	"sort"
)

// Row is a cluster of observations sharing an approximately equal vertical
// midpoint, approximating one printed or handwritten line.
type Row struct {
	Key          float64
	Observations []TextObservation // ordered left to right
}

// rowKey quantizes a normalized vertical midpoint to two decimals so that
// fragments on the same physical line land in the same bucket.
func rowKey(midY float64) float64 {
	return math.Round(midY*100) / 100
}

// GroupRows partitions observations into horizontal rows and returns them
// sorted top of image first, each row ordered left to right. An empty input
// yields an empty result.
func GroupRows(obs []TextObservation) []Row {
	buckets := map[float64][]TextObservation{}
	for _, o := range obs {
		k := rowKey(o.Box.MidY())
		buckets[k] = append(buckets[k], o)
	}
	rows := make([]Row, 0, len(buckets))
	for k, group := range buckets {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Box.MinX < group[j].Box.MinX
		})
		rows = append(rows, Row{Key: k, Observations: group})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}
