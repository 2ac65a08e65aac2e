package timeline

import (
	"math"
	"testing"
)

func TestExpandSectionRatingsCoverage(t *testing.T) {
	sr := SectionRatings{Opening: 3, RisingAction: 6, Climax: 9, FallingAction: 7, Resolution: 4}
	points, err := ExpandSectionRatings(sr)
	if err != nil {
		t.Fatalf("ExpandSectionRatings returned error: %v", err)
	}

	if points[0].TOffset != 0 {
		t.Fatalf("first point at offset %v, want 0", points[0].TOffset)
	}
	if points[len(points)-1].TOffset != 100 {
		t.Fatalf("last point at offset %v, want 100", points[len(points)-1].TOffset)
	}
	for i := 1; i < len(points); i++ {
		gap := points[i].TOffset - points[i-1].TOffset
		if gap <= 0 {
			t.Fatalf("offsets not strictly increasing at index %d: %v -> %v", i, points[i-1].TOffset, points[i].TOffset)
		}
		if gap > ExpandStride {
			t.Fatalf("gap %v at index %d exceeds stride %v", gap, i, ExpandStride)
		}
	}
}

func TestExpandSectionRatingsPiecewiseConstant(t *testing.T) {
	sr := SectionRatings{Opening: 2, RisingAction: 4, Climax: 10, FallingAction: 6, Resolution: 8}
	points, err := ExpandSectionRatings(sr)
	if err != nil {
		t.Fatalf("ExpandSectionRatings returned error: %v", err)
	}

	scoreAt := func(offset float64) float64 {
		switch {
		case offset < 20:
			return sr.Opening
		case offset < 50:
			return sr.RisingAction
		case offset < 70:
			return sr.Climax
		case offset < 90:
			return sr.FallingAction
		default:
			return sr.Resolution
		}
	}

	for _, p := range points {
		if want := scoreAt(p.TOffset); p.Score != want {
			t.Fatalf("point at offset %v has score %v, want section rating %v", p.TOffset, p.Score, want)
		}
	}
}

func TestExpandSectionRatingsRejectsOutOfRange(t *testing.T) {
	sr := SectionRatings{Opening: 5, RisingAction: 5, Climax: 10.5, FallingAction: 5, Resolution: 5}
	if _, err := ExpandSectionRatings(sr); err == nil {
		t.Fatalf("ExpandSectionRatings accepted an out-of-range climax rating")
	}
}

func TestOverallRating(t *testing.T) {
	cases := []struct {
		name string
		sr   SectionRatings
		want float64
	}{
		{
			name: "mixed",
			sr:   SectionRatings{Opening: 2, RisingAction: 4, Climax: 10, FallingAction: 6, Resolution: 8},
			want: 6,
		},
		{
			name: "all_neutral",
			sr:   SectionRatings{Opening: 5, RisingAction: 5, Climax: 5, FallingAction: 5, Resolution: 5},
			want: 5,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.sr.OverallRating(); math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("OverallRating()=%v, want %v", got, tc.want)
			}
		})
	}
}
