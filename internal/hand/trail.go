package hand

import "time"

// DefaultTrailCapacity is the number of recent positions kept per fingertip.
const DefaultTrailCapacity = 25

// TrailPoint is one recorded fingertip position.
type TrailPoint struct {
	X float64   `json:"x"`
	Y float64   `json:"y"`
	T time.Time `json:"-"`
}

// Trail is a bounded FIFO of recent positions for a single fingertip.
// The oldest point is dropped once capacity is reached.
type Trail struct {
	points   []TrailPoint
	capacity int
}

// NewTrail creates a trail with the given capacity.
// Capacities less than 1 fall back to DefaultTrailCapacity.
func NewTrail(capacity int) *Trail {
	if capacity < 1 {
		capacity = DefaultTrailCapacity
	}
	return &Trail{
		points:   make([]TrailPoint, 0, capacity),
		capacity: capacity,
	}
}

// Append records a new position, evicting the oldest if the trail is full.
func (t *Trail) Append(x, y float64, now time.Time) {
	if len(t.points) >= t.capacity {
		// Shift left by one, dropping the oldest point
		copy(t.points, t.points[1:])
		t.points = t.points[:t.capacity-1]
	}
	t.points = append(t.points, TrailPoint{X: x, Y: y, T: now})
}

// Points returns the recorded positions, oldest first. The returned slice
// is a copy and safe to retain.
func (t *Trail) Points() []TrailPoint {
	out := make([]TrailPoint, len(t.points))
	copy(out, t.points)
	return out
}

// Len returns the number of recorded positions.
func (t *Trail) Len() int {
	return len(t.points)
}

// Clear discards all recorded positions.
func (t *Trail) Clear() {
	t.points = t.points[:0]
}

// Velocity estimates the fingertip velocity in display units per second
// from the two most recent points. Returns zero until two points exist
// or when the points share a timestamp.
func (t *Trail) Velocity() (vx, vy float64) {
	n := len(t.points)
	if n < 2 {
		return 0, 0
	}
	a := t.points[n-2]
	b := t.points[n-1]
	dt := b.T.Sub(a.T).Seconds()
	if dt <= 0 {
		return 0, 0
	}
	return (b.X - a.X) / dt, (b.Y - a.Y) / dt
}

// TrailSet holds one trail per finger for a single hand.
type TrailSet struct {
	Fingers [5]*Trail
}

// NewTrailSet creates trails for all five fingers with the given capacity.
func NewTrailSet(capacity int) *TrailSet {
	ts := &TrailSet{}
	for i := range ts.Fingers {
		ts.Fingers[i] = NewTrail(capacity)
	}
	return ts
}

// Clear discards all recorded positions on every finger.
func (ts *TrailSet) Clear() {
	for _, t := range ts.Fingers {
		t.Clear()
	}
}
