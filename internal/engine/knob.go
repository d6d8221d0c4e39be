package engine

import (
	"math"
	"time"

	"github.com/ayusman/taalam/internal/audio"
	"github.com/ayusman/taalam/internal/detector"
	"github.com/ayusman/taalam/internal/hand"
)

// KnobConfig holds the shared pinch-to-angle geometry for all knobs.
type KnobConfig struct {
	// StartDegrees is the reference angle where the knob value is zero,
	// measured from the +x axis with y pointing down the screen.
	StartDegrees float64

	// SweepDegrees is the total angular travel from value 0 to value 1.
	// Angles past the sweep clamp to whichever end is angularly nearer;
	// there is no wraparound.
	SweepDegrees float64
}

// DefaultKnobConfig returns a KnobConfig with sensible default values:
// a 270° sweep starting at 135°, like a hardware rotary pot.
func DefaultKnobConfig() KnobConfig {
	return KnobConfig{
		StartDegrees: 135,
		SweepDegrees: 270,
	}
}

// Knob is one on-screen rotary control driven by a thumb-index pinch.
// Knobs are global: active in every mode, independent of the mode machine.
type Knob struct {
	ID     string
	Label  string
	X, Y   float64
	Radius float64

	// Param binding: Value in [0,1] maps linearly onto [ParamMin, ParamMax].
	Param    audio.Param
	ParamMin float64
	ParamMax float64

	// Value persists across frames and only moves while grabbed.
	Value float64

	grabbedBy hand.Handedness
}

// Grabbed reports whether a hand currently holds the knob.
func (k *Knob) Grabbed() bool {
	return k.grabbedBy != ""
}

// AngleDegrees returns the current indicator angle for rendering.
func (k *Knob) AngleDegrees(config KnobConfig) float64 {
	return config.StartDegrees + k.Value*config.SweepDegrees
}

// KnobController updates all knobs from the per-frame hand state.
type KnobController struct {
	config KnobConfig
	knobs  []*Knob
}

// NewKnobController creates a controller with the given geometry config.
func NewKnobController(config KnobConfig) *KnobController {
	if config.SweepDegrees <= 0 || config.SweepDegrees > 360 {
		config = DefaultKnobConfig()
	}
	return &KnobController{config: config}
}

// Add registers a knob.
func (kc *KnobController) Add(k *Knob) {
	if k != nil {
		kc.knobs = append(kc.knobs, k)
	}
}

// Knobs returns the registered knobs.
func (kc *KnobController) Knobs() []*Knob {
	return kc.knobs
}

// Config returns the shared knob geometry.
func (kc *KnobController) Config() KnobConfig {
	return kc.config
}

// Update processes one frame of hand state and returns the ramped
// parameter updates for knobs whose value moved. A hand grabs a knob
// when both its thumb and index fingertips lie within the knob radius;
// releasing either fingertip freezes the value.
func (kc *KnobController) Update(frame *hand.Frame, ramp time.Duration) []ParamUpdate {
	var out []ParamUpdate

	for _, k := range kc.knobs {
		holder := kc.findHolder(k, frame)
		if holder == nil {
			k.grabbedBy = ""
			continue
		}
		k.grabbedBy = holder.Handedness

		thumb := holder.Fingertip(hand.Thumb)
		index := holder.Fingertip(hand.Index)
		mx := (thumb.X + index.X) / 2
		my := (thumb.Y + index.Y) / 2

		value := kc.valueForAngle(mx-k.X, my-k.Y)
		if value == k.Value {
			continue
		}
		k.Value = value

		out = append(out, ParamUpdate{
			Param:  k.Param,
			Target: k.ParamMin + value*(k.ParamMax-k.ParamMin),
			Ramp:   ramp,
		})
	}
	return out
}

// findHolder returns a present hand whose thumb and index fingertips are
// both inside the knob radius, or nil.
func (kc *KnobController) findHolder(k *Knob, frame *hand.Frame) *hand.Sample {
	for _, s := range []*hand.Sample{frame.Right, frame.Left} {
		if s == nil {
			continue
		}
		if kc.inside(k, s.Fingertip(hand.Thumb)) && kc.inside(k, s.Fingertip(hand.Index)) {
			return s
		}
	}
	return nil
}

func (kc *KnobController) inside(k *Knob, p detector.Point3D) bool {
	dx := p.X - k.X
	dy := p.Y - k.Y
	return dx*dx+dy*dy <= k.Radius*k.Radius
}

// valueForAngle maps the pinch-midpoint direction to a knob value.
// The angle is unwrapped from the start reference and swept over
// SweepDegrees; positions in the dead zone past the sweep clamp to the
// angularly nearer end.
func (kc *KnobController) valueForAngle(dx, dy float64) float64 {
	deg := math.Atan2(dy, dx) * 180 / math.Pi

	a := math.Mod(deg-kc.config.StartDegrees, 360)
	if a < 0 {
		a += 360
	}

	if a <= kc.config.SweepDegrees {
		return a / kc.config.SweepDegrees
	}

	// Dead zone: split it between the two ends.
	if a-kc.config.SweepDegrees < (360-kc.config.SweepDegrees)/2 {
		return 1
	}
	return 0
}
