package timeline

import (
	"testing"
)

// advanceTicks drives the session clock directly, bypassing the wall-clock
// ticker, so tests stay deterministic.
func advanceTicks(r *Recorder, n int) (finished bool, pts []Point) {
	for i := 0; i < n; i++ {
		finished, pts = r.advance()
		if finished {
			return finished, pts
		}
	}
	return finished, pts
}

func startWithoutTicker(r *Recorder) {
	r.mu.Lock()
	r.running = true
	r.stop = make(chan struct{})
	r.mu.Unlock()
}

func TestRecorderStartsNeutral(t *testing.T) {
	r := NewRecorder(nil)
	if got := r.Score(); got != NeutralScore {
		t.Fatalf("initial score=%v, want %v", got, NeutralScore)
	}
	if got := r.Progress(); got != 0 {
		t.Fatalf("initial progress=%v, want 0", got)
	}
	if len(r.Points()) != 0 {
		t.Fatalf("fresh session already has points")
	}
}

func TestRecorderEmitsOnlyOnScoreChange(t *testing.T) {
	r := NewRecorder(nil)
	startWithoutTicker(r)

	advanceTicks(r, 10) // progress 5.0
	if err := r.SetScore(7); err != nil {
		t.Fatalf("SetScore error: %v", err)
	}
	advanceTicks(r, 10) // progress 10.0, no score change, no emission
	if err := r.SetScore(3); err != nil {
		t.Fatalf("SetScore error: %v", err)
	}

	pts := r.Points()
	if len(pts) != 2 {
		t.Fatalf("got %d points, want 2 (one per score change)", len(pts))
	}
	if pts[0].TOffset != 5 || pts[0].Score != 7 {
		t.Fatalf("first point=%+v, want {5 7}", pts[0])
	}
	if pts[1].TOffset != 10 || pts[1].Score != 3 {
		t.Fatalf("second point=%+v, want {10 3}", pts[1])
	}
}

func TestRecorderCollapsesSameOffsetChanges(t *testing.T) {
	r := NewRecorder(nil)
	startWithoutTicker(r)

	advanceTicks(r, 10) // progress 5.0
	if err := r.SetScore(7); err != nil {
		t.Fatalf("SetScore error: %v", err)
	}
	// A second change before the next tick lands on the same offset and must
	// replace the first point, not sit next to it.
	if err := r.SetScore(3); err != nil {
		t.Fatalf("SetScore error: %v", err)
	}

	pts := r.Finish()
	if len(pts) != 1 {
		t.Fatalf("got %d points, want 1 after same-offset change", len(pts))
	}
	if pts[0].TOffset != 5 || pts[0].Score != 3 {
		t.Fatalf("point=%+v, want {5 3} (latest value wins)", pts[0])
	}
}

func TestRecorderNoEmissionWhilePaused(t *testing.T) {
	r := NewRecorder(nil)
	startWithoutTicker(r)
	advanceTicks(r, 4)
	r.Pause()

	if err := r.SetScore(9); err != nil {
		t.Fatalf("SetScore while paused error: %v", err)
	}
	if len(r.Points()) != 0 {
		t.Fatalf("paused score change emitted a point")
	}
	if got := r.Score(); got != 9 {
		t.Fatalf("paused score change not retained, score=%v", got)
	}
	if got := r.Progress(); got != 2 {
		t.Fatalf("progress advanced while paused: %v", got)
	}
}

func TestRecorderRejectsOutOfRangeScore(t *testing.T) {
	r := NewRecorder(nil)
	startWithoutTicker(r)
	if err := r.SetScore(10.5); err == nil {
		t.Fatalf("SetScore accepted 10.5")
	}
	if err := r.SetScore(-0.1); err == nil {
		t.Fatalf("SetScore accepted -0.1")
	}
	if len(r.Points()) != 0 {
		t.Fatalf("rejected score emitted a point")
	}
}

func TestRecorderAutoFinishAt100(t *testing.T) {
	var finishedWith []Point
	r := NewRecorder(func(pts []Point) { finishedWith = pts })
	startWithoutTicker(r)

	// 100 / 0.5 = 200 ticks to completion.
	finished, pts := advanceTicks(r, 200)
	if !finished {
		t.Fatalf("session did not finish after 200 ticks, progress=%v", r.Progress())
	}
	if r.Progress() != 100 {
		t.Fatalf("progress=%v at finish, want 100", r.Progress())
	}
	if !r.Finished() {
		t.Fatalf("Finished()=false after auto-finish")
	}
	if r.Running() {
		t.Fatalf("still running after auto-finish")
	}

	// The run loop hands the snapshot to the callback; mirror that here.
	if finishedWith == nil {
		finishedWith = pts
	}
	if len(finishedWith) != 0 {
		t.Fatalf("untouched slider produced %d points", len(finishedWith))
	}
}

func TestRecorderFinishedRejectsScore(t *testing.T) {
	r := NewRecorder(nil)
	startWithoutTicker(r)
	advanceTicks(r, 200)
	if err := r.SetScore(6); err == nil {
		t.Fatalf("SetScore accepted after finish")
	}
}

func TestRecorderReset(t *testing.T) {
	r := NewRecorder(nil)
	startWithoutTicker(r)
	advanceTicks(r, 20)
	if err := r.SetScore(8); err != nil {
		t.Fatalf("SetScore error: %v", err)
	}
	r.Reset()

	if r.Progress() != 0 {
		t.Fatalf("progress=%v after reset, want 0", r.Progress())
	}
	if r.Score() != NeutralScore {
		t.Fatalf("score=%v after reset, want %v", r.Score(), NeutralScore)
	}
	if len(r.Points()) != 0 {
		t.Fatalf("points survived reset")
	}
	if r.Running() || r.Finished() {
		t.Fatalf("reset session should be idle and unfinished")
	}
}

func TestRecorderPauseResumeContinuity(t *testing.T) {
	r := NewRecorder(nil)
	startWithoutTicker(r)
	advanceTicks(r, 10)
	r.Pause()
	startWithoutTicker(r)
	advanceTicks(r, 10)
	if got := r.Progress(); got != 10 {
		t.Fatalf("progress=%v after 20 ticks across a pause, want 10", got)
	}
}
