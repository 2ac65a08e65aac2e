package timeline

import (
	"fmt"
)

// SectionRatings are the five coarse per-section ratings of a manual review,
// each in [0,10].
type SectionRatings struct {
	Opening       float64 `json:"opening"`
	RisingAction  float64 `json:"rising_action"`
	Climax        float64 `json:"climax"`
	FallingAction float64 `json:"falling_action"`
	Resolution    float64 `json:"resolution"`
}

// ExpandStride is the offset distance between expanded points.
const ExpandStride = 5.0

type sectionRange struct {
	name   string
	start  float64
	end    float64 // exclusive, except the final section
	closed bool
}

// Section boundaries are fixed percentages of runtime; only the resolution
// includes its upper bound so the expansion reaches offset 100 exactly once.
var sectionRanges = []sectionRange{
	{name: "opening", start: 0, end: 20},
	{name: "rising_action", start: 20, end: 50},
	{name: "climax", start: 50, end: 70},
	{name: "falling_action", start: 70, end: 90},
	{name: "resolution", start: 90, end: 100, closed: true},
}

func (sr SectionRatings) values() []float64 {
	return []float64{sr.Opening, sr.RisingAction, sr.Climax, sr.FallingAction, sr.Resolution}
}

// Validate rejects any section rating outside [0,10].
func (sr SectionRatings) Validate() error {
	vals := sr.values()
	for i, v := range vals {
		if v < MinScore || v > MaxScore {
			return fmt.Errorf("section %q rating %v out of range [%v,%v]", sectionRanges[i].name, v, MinScore, MaxScore)
		}
	}
	return nil
}

// OverallRating is the arithmetic mean of the five section ratings.
func (sr SectionRatings) OverallRating() float64 {
	var sum float64
	vals := sr.values()
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// ExpandSectionRatings converts the five ratings into a piecewise-constant
// timeline: one point every ExpandStride percent, carrying its section's
// rating unchanged. No interpolation across section boundaries.
func ExpandSectionRatings(sr SectionRatings) ([]Point, error) {
	if err := sr.Validate(); err != nil {
		return nil, err
	}
	vals := sr.values()
	var points []Point
	for i, rng := range sectionRanges {
		for t := rng.start; t < rng.end || (rng.closed && t <= rng.end); t += ExpandStride {
			points = append(points, Point{TOffset: t, Score: vals[i]})
		}
	}
	return points, nil
}
