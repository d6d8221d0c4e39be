package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Preset poses for the gestures the instrument recognizes. All poses are
// built around a wrist at (0.5, 0.8) in normalized sensor coordinates.

// fingerPose describes the four landmark positions of one finger.
type fingerPose [4]Point3D

// curled and extended finger geometries per finger, indexed 0=thumb..4=pinky.
// Extended tips end up well past the middle joint relative to the wrist;
// curled tips fold back toward the palm.
var extendedFingers = [NumFingers]fingerPose{
	{{0.55, 0.75, 0.02}, {0.62, 0.70, 0.03}, {0.68, 0.65, 0.03}, {0.73, 0.60, 0.03}}, // thumb
	{{0.55, 0.68, 0}, {0.57, 0.55, 0}, {0.58, 0.45, 0}, {0.58, 0.35, 0}},             // index
	{{0.50, 0.66, 0}, {0.50, 0.52, 0}, {0.50, 0.40, 0}, {0.50, 0.28, 0}},             // middle
	{{0.45, 0.68, 0}, {0.43, 0.55, 0}, {0.42, 0.45, 0}, {0.42, 0.35, 0}},             // ring
	{{0.40, 0.70, 0}, {0.37, 0.60, 0}, {0.35, 0.50, 0}, {0.34, 0.42, 0}},             // pinky
}

var curledFingers = [NumFingers]fingerPose{
	{{0.55, 0.75, 0}, {0.56, 0.72, -0.02}, {0.55, 0.72, -0.03}, {0.52, 0.74, -0.02}}, // thumb
	{{0.55, 0.70, -0.02}, {0.55, 0.66, -0.05}, {0.52, 0.69, -0.04}, {0.50, 0.72, -0.02}},
	{{0.50, 0.68, -0.02}, {0.50, 0.64, -0.05}, {0.47, 0.67, -0.04}, {0.45, 0.70, -0.02}},
	{{0.45, 0.70, -0.02}, {0.45, 0.66, -0.05}, {0.42, 0.69, -0.04}, {0.40, 0.72, -0.02}},
	{{0.40, 0.72, -0.02}, {0.40, 0.68, -0.05}, {0.37, 0.71, -0.04}, {0.35, 0.74, -0.02}},
}

// handPose assembles a full HandLandmarks from per-finger extension flags.
func handPose(handedness string, extended [NumFingers]bool) HandLandmarks {
	lm := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}
	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0}

	for f := 0; f < NumFingers; f++ {
		pose := curledFingers[f]
		if extended[f] {
			pose = extendedFingers[f]
		}
		base := ThumbCMC + f*4 // each finger occupies 4 consecutive indices
		for j := 0; j < 4; j++ {
			lm.Points[base+j] = pose[j]
		}
	}
	return lm
}

// PointingHandLandmarks returns a pose with only the index finger extended.
func PointingHandLandmarks(handedness string) HandLandmarks {
	return handPose(handedness, [NumFingers]bool{false, true, false, false, false})
}

// PeaceHandLandmarks returns a pose with the index and middle fingers extended.
func PeaceHandLandmarks(handedness string) HandLandmarks {
	return handPose(handedness, [NumFingers]bool{false, true, true, false, false})
}

// OpenPalmLandmarks returns a pose with all five fingers extended.
func OpenPalmLandmarks(handedness string) HandLandmarks {
	return handPose(handedness, [NumFingers]bool{true, true, true, true, true})
}

// FistHandLandmarks returns a pose with all fingers curled.
func FistHandLandmarks(handedness string) HandLandmarks {
	return handPose(handedness, [NumFingers]bool{})
}

// PinchHandLandmarks returns a pose with the thumb and index fingertips
// brought together around (cx, cy), used to exercise knob grabbing.
func PinchHandLandmarks(handedness string, cx, cy float64) HandLandmarks {
	lm := handPose(handedness, [NumFingers]bool{true, true, false, false, false})
	lm.Points[ThumbTip] = Point3D{X: cx - 0.01, Y: cy, Z: 0}
	lm.Points[IndexTip] = Point3D{X: cx + 0.01, Y: cy, Z: 0}
	return lm
}

// TranslatedHand returns a copy of lm with every landmark shifted by (dx, dy, dz).
func TranslatedHand(lm HandLandmarks, dx, dy, dz float64) HandLandmarks {
	out := lm
	for i := range out.Points {
		out.Points[i].X += dx
		out.Points[i].Y += dy
		out.Points[i].Z += dz
	}
	return out
}
