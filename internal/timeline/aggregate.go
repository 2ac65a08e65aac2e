package timeline

import (
	"sort"
)

// SmoothingWindow is the fixed moving-average window applied to the raw
// consensus sequence.
const SmoothingWindow = 5

// SourcedPoints is one eligible input graph: its producer type and its points.
type SourcedPoints struct {
	Source SourceType
	Points []Point
}

// Merge combines the input graphs into the raw consensus sequence. Offsets
// are normalized to one decimal place and, per normalized offset, the result
// is the weighted mean of every contributing score, weighted by the source
// type of its graph. The result is sorted by offset ascending and is a
// deterministic function of the inputs.
func Merge(graphs []SourcedPoints) []Point {
	type bucket struct {
		sum    float64
		weight float64
	}
	buckets := make(map[float64]*bucket)

	for _, g := range graphs {
		w := AggregationWeight(g.Source)
		for _, p := range g.Points {
			t := NormalizeOffset(p.TOffset)
			b, ok := buckets[t]
			if !ok {
				b = &bucket{}
				buckets[t] = b
			}
			b.sum += p.Score * w
			b.weight += w
		}
	}

	merged := make([]Point, 0, len(buckets))
	for t, b := range buckets {
		merged = append(merged, Point{TOffset: t, Score: b.sum / b.weight})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].TOffset < merged[j].TOffset })
	return merged
}

// Smooth applies a centered moving average over data. The window at index i
// spans [max(0, i-windowSize/2), min(n, i+ceil(windowSize/2))), clamped at
// the boundaries, never padded or wrapped. Sequences shorter than the window
// are returned unchanged.
func Smooth(data []Point, windowSize int) []Point {
	if len(data) < windowSize {
		return data
	}

	smoothed := make([]Point, 0, len(data))
	half := windowSize / 2
	for i := range data {
		start := i - half
		if start < 0 {
			start = 0
		}
		end := i + (windowSize - half)
		if end > len(data) {
			end = len(data)
		}
		var sum float64
		for _, p := range data[start:end] {
			sum += p.Score
		}
		smoothed = append(smoothed, Point{
			TOffset: data[i].TOffset,
			Score:   sum / float64(end-start),
		})
	}
	return smoothed
}

// Consensus is the full pipeline: weighted merge followed by smoothing.
func Consensus(graphs []SourcedPoints) []Point {
	return Smooth(Merge(graphs), SmoothingWindow)
}
