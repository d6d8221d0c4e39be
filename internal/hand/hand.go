// Package hand converts raw landmark sets from the detector into stable
// per-frame hand samples in display coordinates, and maintains fingertip
// trail history for rendering and velocity estimation.
package hand

import (
	"time"

	"github.com/ayusman/taalam/internal/detector"
)

// FingerIndex identifies one of the five fingers.
type FingerIndex int

// Finger indices, matching the order of detector.TipIndices.
const (
	Thumb FingerIndex = iota
	Index
	Middle
	Ring
	Pinky
)

// Handedness labels which hand a sample belongs to.
type Handedness string

const (
	Left  Handedness = "Left"
	Right Handedness = "Right"
)

// Sample is the per-frame normalized state of one hand. Positions are in
// display coordinates; Z keeps the sensor's depth value unchanged.
// A Sample is immutable once produced and superseded on the next frame.
type Sample struct {
	Palm       detector.Point3D
	Fingertips [detector.NumFingers]detector.Point3D
	Spread     float64
	Handedness Handedness
	Timestamp  time.Time
}

// Fingertip returns the position of the given finger's tip.
func (s *Sample) Fingertip(f FingerIndex) detector.Point3D {
	return s.Fingertips[f]
}

// Frame is the combined two-hand state produced by the Normalizer each tick.
// Prev samples are from the previous frame the same hand was present,
// for velocity estimation; nil when the hand just appeared.
type Frame struct {
	Left      *Sample
	Right     *Sample
	PrevLeft  *Sample
	PrevRight *Sample

	// Absent is set once no hand has been seen for the configured timeout.
	// Downstream components use it to fade out continuous sound.
	Absent bool

	Now time.Time
}

// HandCount returns the number of hands present in the frame.
func (f *Frame) HandCount() int {
	n := 0
	if f.Left != nil {
		n++
	}
	if f.Right != nil {
		n++
	}
	return n
}

// Each calls fn for every present hand in the frame.
func (f *Frame) Each(fn func(s, prev *Sample)) {
	if f.Left != nil {
		fn(f.Left, f.PrevLeft)
	}
	if f.Right != nil {
		fn(f.Right, f.PrevRight)
	}
}
