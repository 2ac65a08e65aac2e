package timeline

import (
	"math"
	"testing"
)

func TestValidatePoint(t *testing.T) {
	cases := []struct {
		name    string
		point   Point
		wantErr bool
	}{
		{name: "valid_midpoint", point: Point{TOffset: 50, Score: 5}},
		{name: "valid_lower_bounds", point: Point{TOffset: 0, Score: 0}},
		{name: "valid_upper_bounds", point: Point{TOffset: 100, Score: 10}},
		{name: "offset_negative", point: Point{TOffset: -0.1, Score: 5}, wantErr: true},
		{name: "offset_over_100", point: Point{TOffset: 100.1, Score: 5}, wantErr: true},
		{name: "score_negative", point: Point{TOffset: 50, Score: -1}, wantErr: true},
		{name: "score_over_10", point: Point{TOffset: 50, Score: 10.5}, wantErr: true},
		{name: "offset_nan", point: Point{TOffset: math.NaN(), Score: 5}, wantErr: true},
		{name: "score_nan", point: Point{TOffset: 50, Score: math.NaN()}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePoint(tc.point)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidatePoint(%+v) err=%v, wantErr=%v", tc.point, err, tc.wantErr)
			}
		})
	}
}

func TestValidatePointsRejectsNotClamps(t *testing.T) {
	points := []Point{{TOffset: 10, Score: 5}, {TOffset: 20, Score: 11}}
	if err := ValidatePoints(points); err == nil {
		t.Fatalf("ValidatePoints accepted an out-of-range score")
	}
	// The input must be untouched: rejection, never clamping.
	if points[1].Score != 11 {
		t.Fatalf("ValidatePoints mutated input score to %v", points[1].Score)
	}
}

func TestNormalizeOffset(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{in: 12.34, want: 12.3},
		{in: 12.35, want: 12.4},
		{in: 0, want: 0},
		{in: 100, want: 100},
		{in: 99.999, want: 100},
		{in: 0.04, want: 0},
	}
	for _, tc := range cases {
		if got := NormalizeOffset(tc.in); got != tc.want {
			t.Fatalf("NormalizeOffset(%v)=%v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAggregationWeight(t *testing.T) {
	cases := []struct {
		source SourceType
		want   float64
	}{
		{source: SourceLiveReaction, want: 1.0},
		{source: SourceManualReview, want: 0.8},
		{source: SourceNLPAnalysis, want: 0.6},
		{source: SourceType("future_source"), want: 0.5},
	}
	for _, tc := range cases {
		if got := AggregationWeight(tc.source); got != tc.want {
			t.Fatalf("AggregationWeight(%q)=%v, want %v", tc.source, got, tc.want)
		}
	}
}
