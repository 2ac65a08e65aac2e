package timeline

import (
	"math"
	"reflect"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMergeWeightedMean(t *testing.T) {
	graphs := []SourcedPoints{
		{Source: SourceLiveReaction, Points: []Point{{TOffset: 50, Score: 8}}},
		{Source: SourceNLPAnalysis, Points: []Point{{TOffset: 50, Score: 2}}},
	}
	merged := Merge(graphs)
	if len(merged) != 1 {
		t.Fatalf("got %d merged points, want 1", len(merged))
	}
	// (8*1.0 + 2*0.6) / (1.0 + 0.6) = 5.75
	if !almostEqual(merged[0].Score, 5.75) {
		t.Fatalf("merged score=%v, want 5.75", merged[0].Score)
	}
}

func TestMergeUnknownSourceFallbackWeight(t *testing.T) {
	graphs := []SourcedPoints{
		{Source: SourceLiveReaction, Points: []Point{{TOffset: 10, Score: 10}}},
		{Source: SourceType("wearable_biometrics"), Points: []Point{{TOffset: 10, Score: 0}}},
	}
	merged := Merge(graphs)
	// (10*1.0 + 0*0.5) / 1.5
	want := 10.0 / 1.5
	if !almostEqual(merged[0].Score, want) {
		t.Fatalf("merged score=%v, want %v", merged[0].Score, want)
	}
}

func TestMergeNormalizesOffsets(t *testing.T) {
	graphs := []SourcedPoints{
		{Source: SourceLiveReaction, Points: []Point{{TOffset: 33.333, Score: 4}}},
		{Source: SourceLiveReaction, Points: []Point{{TOffset: 33.301, Score: 8}}},
	}
	merged := Merge(graphs)
	if len(merged) != 1 {
		t.Fatalf("offsets rounding to the same key were not merged: %+v", merged)
	}
	if merged[0].TOffset != 33.3 {
		t.Fatalf("merged offset=%v, want 33.3", merged[0].TOffset)
	}
	if !almostEqual(merged[0].Score, 6) {
		t.Fatalf("merged score=%v, want 6", merged[0].Score)
	}
}

func TestMergeDeterminism(t *testing.T) {
	graphs := []SourcedPoints{
		{Source: SourceLiveReaction, Points: []Point{{TOffset: 0, Score: 4}, {TOffset: 37.5, Score: 9}, {TOffset: 80, Score: 2}}},
		{Source: SourceManualReview, Points: []Point{{TOffset: 0, Score: 6}, {TOffset: 20, Score: 7}, {TOffset: 80, Score: 5}}},
		{Source: SourceNLPAnalysis, Points: []Point{{TOffset: 10, Score: 3}, {TOffset: 37.5, Score: 6}}},
	}
	first := Consensus(graphs)
	for i := 0; i < 50; i++ {
		again := Consensus(graphs)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\nfirst=%+v\nagain=%+v", i, first, again)
		}
	}
	for i := 1; i < len(first); i++ {
		if first[i].TOffset <= first[i-1].TOffset {
			t.Fatalf("consensus offsets not strictly increasing: %+v", first)
		}
	}
}

func TestSmoothShortSequenceUnchanged(t *testing.T) {
	raw := []Point{{TOffset: 0, Score: 1}, {TOffset: 50, Score: 9}, {TOffset: 100, Score: 3}}
	smoothed := Smooth(raw, SmoothingWindow)
	if !reflect.DeepEqual(raw, smoothed) {
		t.Fatalf("sequence shorter than window was altered: %+v", smoothed)
	}
}

func TestSmoothBoundaryClamp(t *testing.T) {
	raw := make([]Point, 10)
	for i := range raw {
		raw[i] = Point{TOffset: float64(i * 10), Score: float64(i)}
	}
	smoothed := Smooth(raw, SmoothingWindow)
	if len(smoothed) != len(raw) {
		t.Fatalf("smoothed length %d, want %d", len(smoothed), len(raw))
	}

	// Index 0 window is [0,3): mean of scores 0,1,2. No wraparound.
	if want := (0.0 + 1 + 2) / 3; !almostEqual(smoothed[0].Score, want) {
		t.Fatalf("smoothed[0]=%v, want %v", smoothed[0].Score, want)
	}
	// Index 1 window is [0,4).
	if want := (0.0 + 1 + 2 + 3) / 4; !almostEqual(smoothed[1].Score, want) {
		t.Fatalf("smoothed[1]=%v, want %v", smoothed[1].Score, want)
	}
	// Interior index 5 window is [3,8).
	if want := (3.0 + 4 + 5 + 6 + 7) / 5; !almostEqual(smoothed[5].Score, want) {
		t.Fatalf("smoothed[5]=%v, want %v", smoothed[5].Score, want)
	}
	// Last index window is [7,10).
	if want := (7.0 + 8 + 9) / 3; !almostEqual(smoothed[9].Score, want) {
		t.Fatalf("smoothed[9]=%v, want %v", smoothed[9].Score, want)
	}
	// Offsets are never altered by smoothing.
	for i := range raw {
		if smoothed[i].TOffset != raw[i].TOffset {
			t.Fatalf("smoothing changed offset at %d: %v -> %v", i, raw[i].TOffset, smoothed[i].TOffset)
		}
	}
}

func TestConsensusEndToEnd(t *testing.T) {
	graphs := []SourcedPoints{
		{Source: SourceLiveReaction, Points: []Point{{TOffset: 0, Score: 4}, {TOffset: 50, Score: 8}, {TOffset: 100, Score: 6}}},
		{Source: SourceManualReview, Points: []Point{{TOffset: 0, Score: 6}, {TOffset: 50, Score: 6}, {TOffset: 100, Score: 6}}},
	}
	got := Consensus(graphs)
	if len(got) != 3 {
		t.Fatalf("got %d consensus points, want 3", len(got))
	}

	wantScores := []float64{
		(4*1.0 + 6*0.8) / 1.8, // 4.888...
		(8*1.0 + 6*0.8) / 1.8, // 7.111...
		(6*1.0 + 6*0.8) / 1.8, // 6.0
	}
	wantOffsets := []float64{0, 50, 100}
	for i := range got {
		if got[i].TOffset != wantOffsets[i] {
			t.Fatalf("point %d offset=%v, want %v", i, got[i].TOffset, wantOffsets[i])
		}
		// Three points are fewer than the smoothing window, so the weighted
		// means pass through unsmoothed.
		if !almostEqual(got[i].Score, wantScores[i]) {
			t.Fatalf("point %d score=%v, want %v", i, got[i].Score, wantScores[i])
		}
	}
}

func TestMergeEmptyInput(t *testing.T) {
	if got := Merge(nil); len(got) != 0 {
		t.Fatalf("Merge(nil) produced %d points", len(got))
	}
}
