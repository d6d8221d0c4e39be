// Package detector provides hand landmark detection interfaces and types
// for the Taalam instrument.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// NumFingers is the number of fingers per hand.
const NumFingers = 5

// TipIndices maps finger number (0=thumb .. 4=pinky) to the landmark
// index of that finger's tip.
var TipIndices = [NumFingers]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// PIPIndices maps finger number to the landmark index of the finger's
// middle joint. The thumb has no PIP joint; its IP joint is used instead.
var PIPIndices = [NumFingers]int{ThumbIP, IndexPIP, MiddlePIP, RingPIP, PinkyPIP}

// Point3D represents a 3D point in space with x, y, z coordinates.
// X and Y are normalized to [0,1] by the sensor; Z is depth, more
// negative meaning closer to the camera.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Distance calculates the Euclidean distance between two 3D points.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// PalmCenter returns the centroid of the wrist and the four finger MCP
// knuckles, a stable reference point for the whole hand.
func (h *HandLandmarks) PalmCenter() Point3D {
	idx := [5]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}
	var c Point3D
	for _, i := range idx {
		c.X += h.Points[i].X
		c.Y += h.Points[i].Y
		c.Z += h.Points[i].Z
	}
	c.X /= 5
	c.Y /= 5
	c.Z /= 5
	return c
}

// HandSpan returns the distance from the wrist to the middle finger MCP,
// used as a per-hand scale reference so finger tests are independent of
// how far the hand is from the camera.
func (h *HandLandmarks) HandSpan() float64 {
	return Distance(h.Points[Wrist], h.Points[MiddleMCP])
}
