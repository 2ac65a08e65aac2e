package timeline

import (
	"fmt"
	"math"
)

// Point is a single emotion measurement. TOffset is the position in the
// movie as a percentage of total runtime [0,100]. Score is the emotional
// intensity [0,10], where 0 is very negative, 5 neutral, 10 very positive.
type Point struct {
	TOffset float64 `json:"t_offset"`
	Score   float64 `json:"score"`
}

const (
	MinOffset = 0.0
	MaxOffset = 100.0
	MinScore  = 0.0
	MaxScore  = 10.0

	// NeutralScore is the starting value of every live-reaction session.
	NeutralScore = 5.0
)

// ValidatePoint rejects out-of-range values instead of clamping them, so a
// producer bug surfaces as an error rather than a silently distorted curve.
func ValidatePoint(p Point) error {
	if math.IsNaN(p.TOffset) || p.TOffset < MinOffset || p.TOffset > MaxOffset {
		return fmt.Errorf("t_offset %v out of range [%v,%v]", p.TOffset, MinOffset, MaxOffset)
	}
	if math.IsNaN(p.Score) || p.Score < MinScore || p.Score > MaxScore {
		return fmt.Errorf("score %v out of range [%v,%v]", p.Score, MinScore, MaxScore)
	}
	return nil
}

func ValidatePoints(points []Point) error {
	for i, p := range points {
		if err := ValidatePoint(p); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}
	return nil
}

// NormalizeOffset rounds an offset to one decimal place. Normalized offsets
// are the merge key used by the aggregation engine.
func NormalizeOffset(t float64) float64 {
	return math.Round(t*10) / 10
}
