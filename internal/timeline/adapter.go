package timeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ParseModelTimeline validates and normalizes the raw text a language model
// returns for a review analysis. The model is asked for a bare JSON array of
// {t_offset, score} but routinely wraps it in markdown code fences, which are
// stripped before parsing. Anything that does not parse into a non-empty
// array of in-range points is a hard error; no partial or guessed data is
// ever substituted.
func ParseModelTimeline(raw string) ([]Point, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil, fmt.Errorf("empty model output")
	}

	var points []Point
	if err := json.Unmarshal([]byte(cleaned), &points); err != nil {
		return nil, fmt.Errorf("model output is not a JSON point array: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("model output contains no points")
	}
	if err := ValidatePoints(points); err != nil {
		return nil, fmt.Errorf("model output invalid: %w", err)
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].TOffset < points[j].TOffset })
	return points, nil
}
