package engine

import (
	"math"
	"time"

	"github.com/ayusman/taalam/internal/audio"
	"github.com/ayusman/taalam/internal/hand"
)

// ParamUpdate is one ramped parameter command for the audio engine.
type ParamUpdate struct {
	Param  audio.Param
	Target float64
	Ramp   time.Duration
}

// Scale defines the pitch quantization grid for theremin mode.
type Scale struct {
	Name string
	// RootHz is the frequency of degree zero.
	RootHz float64
	// Intervals are semitone offsets from the root, one per scale degree.
	Intervals []int
}

// Scale definitions, intervals as semitones from the root.
var (
	ScalePentatonic = Scale{Name: "pentatonic", RootHz: 220, Intervals: []int{0, 2, 4, 7, 9}}
	ScaleMajor      = Scale{Name: "major", RootHz: 220, Intervals: []int{0, 2, 4, 5, 7, 9, 11}}
	ScaleMinor      = Scale{Name: "minor", RootHz: 220, Intervals: []int{0, 2, 3, 5, 7, 8, 10}}
	ScaleDorian     = Scale{Name: "dorian", RootHz: 220, Intervals: []int{0, 2, 3, 5, 7, 9, 10}}
)

// ScaleByName looks up a built-in scale by name.
func ScaleByName(name string) (Scale, bool) {
	for _, s := range []Scale{ScalePentatonic, ScaleMajor, ScaleMinor, ScaleDorian} {
		if s.Name == name {
			return s, true
		}
	}
	return Scale{}, false
}

// NoteHz returns the frequency of scale degree index k, where k counts
// degrees upward across octaves from the root.
func (s Scale) NoteHz(k int) float64 {
	if len(s.Intervals) == 0 || k < 0 {
		return s.RootHz
	}
	oct := k / len(s.Intervals)
	deg := k % len(s.Intervals)
	semis := float64(s.Intervals[deg] + 12*oct)
	return s.RootHz * math.Exp2(semis/12)
}

// ControlConfig holds the geometry-to-parameter mapping ranges.
type ControlConfig struct {
	// SpreadMin and SpreadMax clamp the raw hand spread (display units)
	// before mapping.
	SpreadMin, SpreadMax float64

	// CutoffMin and CutoffMax bound the filter cutoff in Hz.
	CutoffMin, CutoffMax float64

	// ResonanceMax bounds the resonance mapping; the minimum is 0.
	ResonanceMax float64

	// DelayMixMax bounds the delay wet amount; the minimum is 0.
	DelayMixMax float64

	// PitchOctaves is the width of the theremin pitch window in octaves.
	PitchOctaves int

	// Ramp is the ramp window applied to every parameter send. Ramping
	// is a contract: values are never stepped.
	Ramp time.Duration
}

// DefaultControlConfig returns a ControlConfig with sensible default values.
func DefaultControlConfig() ControlConfig {
	return ControlConfig{
		SpreadMin:    80,
		SpreadMax:    420,
		CutoffMin:    200,
		CutoffMax:    6000,
		ResonanceMax: 0.85,
		DelayMixMax:  0.6,
		PitchOctaves: 3,
		Ramp:         80 * time.Millisecond,
	}
}

// ControlMapper maps hand geometry to continuous parameters per mode.
type ControlMapper struct {
	config ControlConfig
	scale  Scale

	displayWidth  float64
	displayHeight float64

	lastPitchHz float64
}

// NewControlMapper creates a mapper over the given display space.
func NewControlMapper(config ControlConfig, scale Scale, displayWidth, displayHeight float64) *ControlMapper {
	if config.Ramp <= 0 {
		config.Ramp = DefaultControlConfig().Ramp
	}
	if config.PitchOctaves <= 0 {
		config.PitchOctaves = DefaultControlConfig().PitchOctaves
	}
	return &ControlMapper{
		config:        config,
		scale:         scale,
		displayWidth:  displayWidth,
		displayHeight: displayHeight,
		lastPitchHz:   scale.RootHz,
	}
}

// SetScale swaps the active quantization scale.
func (cm *ControlMapper) SetScale(s Scale) {
	if len(s.Intervals) > 0 && s.RootHz > 0 {
		cm.scale = s
	}
}

// Scale returns the active scale.
func (cm *ControlMapper) Scale() Scale {
	return cm.scale
}

// LastPitchHz returns the most recently mapped pitch, used as the chord
// root for the touch side effect.
func (cm *ControlMapper) LastPitchHz() float64 {
	return cm.lastPitchHz
}

// Map produces this frame's parameter updates for the given mode.
func (cm *ControlMapper) Map(mode Mode, frame *hand.Frame) []ParamUpdate {
	switch mode {
	case ModeRibbons:
		return cm.mapRibbons(frame)
	case ModeTheremin:
		return cm.mapTheremin(frame)
	case ModePads:
		// Pads mode has no continuous mappings; knobs remain the only
		// continuous control and they are handled separately.
		return nil
	default:
		return nil
	}
}

// mapRibbons: left-hand spread drives cutoff and resonance, right-hand
// spread drives the delay mix.
func (cm *ControlMapper) mapRibbons(frame *hand.Frame) []ParamUpdate {
	var out []ParamUpdate

	if frame.Left != nil {
		t := cm.spreadT(frame.Left.Spread)
		out = append(out,
			ParamUpdate{audio.ParamCutoff, lerp(cm.config.CutoffMin, cm.config.CutoffMax, t), cm.config.Ramp},
			ParamUpdate{audio.ParamResonance, t * cm.config.ResonanceMax, cm.config.Ramp},
		)
	}
	if frame.Right != nil {
		t := cm.spreadT(frame.Right.Spread)
		out = append(out,
			ParamUpdate{audio.ParamDelayMix, t * cm.config.DelayMixMax, cm.config.Ramp},
		)
	}
	return out
}

// mapTheremin: horizontal palm position maps to pitch through scale
// quantization; vertical position maps to brightness (up is brighter);
// spread maps to resonance. The right hand leads when both are present.
func (cm *ControlMapper) mapTheremin(frame *hand.Frame) []ParamUpdate {
	s := frame.Right
	if s == nil {
		s = frame.Left
	}
	if s == nil {
		return nil
	}

	tx := clamp01(s.Palm.X / cm.displayWidth)
	ty := clamp01(s.Palm.Y / cm.displayHeight)

	pitch := cm.QuantizePitch(tx)
	cm.lastPitchHz = pitch

	// Up means brighter: screen y grows downward, so invert.
	cutoff := lerp(cm.config.CutoffMin, cm.config.CutoffMax, 1-ty)
	resonance := cm.spreadT(s.Spread) * cm.config.ResonanceMax

	return []ParamUpdate{
		{audio.ParamPitch, pitch, cm.config.Ramp},
		{audio.ParamCutoff, cutoff, cm.config.Ramp},
		{audio.ParamResonance, resonance, cm.config.Ramp},
	}
}

// QuantizePitch maps a horizontal position t in [0,1] to the nearest
// note of the active scale across the configured octave window. Exact
// midpoints between two notes resolve to the lower scale-degree index.
func (cm *ControlMapper) QuantizePitch(t float64) float64 {
	degrees := cm.config.PitchOctaves * len(cm.scale.Intervals)
	if degrees == 0 {
		return cm.scale.RootHz
	}

	p := clamp01(t) * float64(degrees)
	k := int(math.Floor(p + 0.5))
	if float64(k) == p+0.5 {
		// Exact midpoint: break the tie toward the lower degree.
		k--
	}
	if k < 0 {
		k = 0
	}
	if k > degrees {
		k = degrees
	}
	return cm.scale.NoteHz(k)
}

// spreadT normalizes a raw spread into [0,1] over the configured range.
func (cm *ControlMapper) spreadT(spread float64) float64 {
	if cm.config.SpreadMax <= cm.config.SpreadMin {
		return 0
	}
	return clamp01((spread - cm.config.SpreadMin) / (cm.config.SpreadMax - cm.config.SpreadMin))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
