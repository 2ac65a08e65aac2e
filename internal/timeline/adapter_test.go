package timeline

import (
	"testing"
)

func TestParseModelTimeline(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantLen int
		wantErr bool
	}{
		{
			name:    "bare_array",
			raw:     `[{"t_offset": 0, "score": 5}, {"t_offset": 50, "score": 8}]`,
			wantLen: 2,
		},
		{
			name:    "fenced_json",
			raw:     "```json\n[{\"t_offset\": 10, \"score\": 3}]\n```",
			wantLen: 1,
		},
		{
			name:    "fenced_plain",
			raw:     "```\n[{\"t_offset\": 10, \"score\": 3}]\n```",
			wantLen: 1,
		},
		{name: "empty_output", raw: "", wantErr: true},
		{name: "empty_array", raw: "[]", wantErr: true},
		{name: "not_an_array", raw: `{"t_offset": 0, "score": 5}`, wantErr: true},
		{name: "prose_not_json", raw: "The movie starts sad and ends happy.", wantErr: true},
		{name: "offset_out_of_range", raw: `[{"t_offset": 120, "score": 5}]`, wantErr: true},
		{name: "score_out_of_range", raw: `[{"t_offset": 50, "score": 12}]`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			points, err := ParseModelTimeline(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseModelTimeline(%q) succeeded, want error", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseModelTimeline(%q) error: %v", tc.raw, err)
			}
			if len(points) != tc.wantLen {
				t.Fatalf("got %d points, want %d", len(points), tc.wantLen)
			}
		})
	}
}

func TestParseModelTimelineSortsByOffset(t *testing.T) {
	raw := `[{"t_offset": 80, "score": 2}, {"t_offset": 10, "score": 7}, {"t_offset": 40, "score": 5}]`
	points, err := ParseModelTimeline(raw)
	if err != nil {
		t.Fatalf("ParseModelTimeline error: %v", err)
	}
	for i := 1; i < len(points); i++ {
		if points[i].TOffset < points[i-1].TOffset {
			t.Fatalf("points not sorted ascending: %v before %v", points[i-1].TOffset, points[i].TOffset)
		}
	}
	if points[0].TOffset != 10 || points[2].TOffset != 80 {
		t.Fatalf("unexpected order: %+v", points)
	}
}
