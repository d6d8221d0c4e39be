package engine

import (
	"time"

	"github.com/ayusman/taalam/internal/hand"
)

// Snapshot is the per-frame read-only view handed to the rendering
// surface. It is a copy: rendering never reaches back into engine state.
type Snapshot struct {
	TimestampMs  int64           `json:"timestamp_ms"`
	Mode         string          `json:"mode"`
	HandsAbsent  bool            `json:"hands_absent"`
	HoldGesture  int             `json:"hold_gesture"`
	HoldProgress float64         `json:"hold_progress"`
	Hands        []HandState     `json:"hands"`
	Knobs        []KnobState     `json:"knobs"`
	Pads         []PadState      `json:"pads"`
	Particles    []ParticleState `json:"particles"`
}

// HandState is one hand's render state.
type HandState struct {
	Handedness string               `json:"handedness"`
	Palm       [2]float64           `json:"palm"`
	Fingertips [5][2]float64        `json:"fingertips"`
	Spread     float64              `json:"spread"`
	Trails     [5][]hand.TrailPoint `json:"trails"`
}

// KnobState is one knob's render state.
type KnobState struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Value    float64 `json:"value"`
	AngleDeg float64 `json:"angle_deg"`
	Grabbed  bool    `json:"grabbed"`
}

// PadState is one pad's render state.
type PadState struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Finger int     `json:"finger"`
	Flash  bool    `json:"flash"`
}

// ParticleState is one particle's render state.
type ParticleState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	AgeSec   float64 `json:"age"`
	Size     float64 `json:"size"`
	ColorTag uint8   `json:"color"`
}

// handState builds the render state for one present hand.
func handState(s *hand.Sample, trails *hand.TrailSet) HandState {
	hs := HandState{
		Handedness: string(s.Handedness),
		Palm:       [2]float64{s.Palm.X, s.Palm.Y},
		Spread:     s.Spread,
	}
	for f := 0; f < 5; f++ {
		hs.Fingertips[f] = [2]float64{s.Fingertips[f].X, s.Fingertips[f].Y}
		hs.Trails[f] = trails.Fingers[f].Points()
	}
	return hs
}

func timestampMs(t time.Time) int64 {
	return t.UnixMilli()
}
