package timeline

import (
	"fmt"
	"sync"
	"time"
)

const (
	// TickInterval drives the session clock.
	TickInterval = 100 * time.Millisecond
	// ProgressPerTick is the percentage of runtime each tick advances.
	ProgressPerTick = 0.5
)

// Recorder turns a viewer's slider adjustments during a timed session into a
// timeline. The clock advances from 0 to 100 while running; a point is
// emitted only when the score changes while the clock is running, never on
// pause, resume, or idle, and at most one point survives per normalized
// offset. Reaching 100 finishes the session automatically.
//
// The clock is a cooperative timer: one goroutine processes ticks one at a
// time, Pause stops it before Resume may schedule a new one, so ticks never
// overlap.
type Recorder struct {
	mu       sync.Mutex
	progress float64
	score    float64
	points   []Point
	running  bool
	finished bool
	stop     chan struct{}

	tickInterval time.Duration
	onFinish     func(points []Point)
}

// NewRecorder creates an idle session at offset 0 with a neutral score.
// onFinish, if set, receives the captured points when the clock reaches 100.
func NewRecorder(onFinish func(points []Point)) *Recorder {
	return &Recorder{
		score:        NeutralScore,
		tickInterval: TickInterval,
		onFinish:     onFinish,
	}
}

// Start begins or resumes clock advancement. Starting a running or finished
// session is a no-op.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || r.finished {
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	go r.run(r.stop)
}

// Pause halts the clock. The scheduled tick is cleared before any resume can
// reschedule one.
func (r *Recorder) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.running = false
	close(r.stop)
}

// SetScore records the viewer's current emotion. While the clock is running
// it also emits a point at the current offset; while paused or idle it only
// updates the slider value.
func (r *Recorder) SetScore(score float64) error {
	if score < MinScore || score > MaxScore {
		return fmt.Errorf("score %v out of range [%v,%v]", score, MinScore, MaxScore)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return fmt.Errorf("session already finished")
	}
	r.score = score
	if r.running {
		p := Point{TOffset: r.progress, Score: score}
		// Offsets are keyed at one decimal downstream; a second change within
		// the same tick overwrites the first instead of duplicating the offset.
		if n := len(r.points); n > 0 && NormalizeOffset(r.points[n-1].TOffset) == NormalizeOffset(p.TOffset) {
			r.points[n-1] = p
		} else {
			r.points = append(r.points, p)
		}
	}
	return nil
}

// Reset discards all captured points and clock state, returning the session
// to idle at offset 0 with a neutral score.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.running = false
		close(r.stop)
	}
	r.progress = 0
	r.score = NeutralScore
	r.points = nil
	r.finished = false
}

// Finish stops the clock and returns the captured points.
func (r *Recorder) Finish() []Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.running = false
		close(r.stop)
	}
	r.finished = true
	return r.snapshotLocked()
}

func (r *Recorder) Progress() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress
}

func (r *Recorder) Score() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.score
}

func (r *Recorder) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Recorder) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

// Points returns a snapshot of the captured points.
func (r *Recorder) Points() []Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Recorder) snapshotLocked() []Point {
	out := make([]Point, len(r.points))
	copy(out, r.points)
	return out
}

func (r *Recorder) run(stop chan struct{}) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			done, pts := r.advance()
			if done {
				if r.onFinish != nil {
					r.onFinish(pts)
				}
				return
			}
		}
	}
}

// advance moves the clock one tick. It reports whether the session finished
// on this tick, and if so the captured points.
func (r *Recorder) advance() (bool, []Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return false, nil
	}
	r.progress += ProgressPerTick
	if r.progress < MaxOffset {
		return false, nil
	}
	r.progress = MaxOffset
	r.running = false
	r.finished = true
	return true, r.snapshotLocked()
}
