package engine

import (
	"math"
	"testing"
	"time"

	"github.com/ayusman/taalam/internal/audio"
	"github.com/ayusman/taalam/internal/detector"
	"github.com/ayusman/taalam/internal/hand"
)

func testMapper() *ControlMapper {
	return NewControlMapper(DefaultControlConfig(), ScalePentatonic, 1280, 720)
}

func frameWith(left, right *hand.Sample) *hand.Frame {
	return &hand.Frame{Left: left, Right: right, Now: time.Now()}
}

func handSample(side hand.Handedness, palmX, palmY, spread float64) *hand.Sample {
	return &hand.Sample{
		Handedness: side,
		Palm:       detector.Point3D{X: palmX, Y: palmY},
		Spread:     spread,
		Timestamp:  time.Now(),
	}
}

func findParam(updates []ParamUpdate, p audio.Param) (ParamUpdate, bool) {
	for _, u := range updates {
		if u.Param == p {
			return u, true
		}
	}
	return ParamUpdate{}, false
}

func TestScale_NoteHz(t *testing.T) {
	s := ScalePentatonic

	if got := s.NoteHz(0); got != 220 {
		t.Errorf("degree 0 should be the root, got %v", got)
	}

	// One full octave up: 5 degrees in the pentatonic scale.
	if got := s.NoteHz(5); math.Abs(got-440) > 0.001 {
		t.Errorf("degree 5 should be the octave (440), got %v", got)
	}

	// Degree 1 is 2 semitones above the root.
	want := 220 * math.Exp2(2.0/12)
	if got := s.NoteHz(1); math.Abs(got-want) > 0.001 {
		t.Errorf("degree 1: expected %v, got %v", want, got)
	}
}

func TestScaleByName(t *testing.T) {
	if s, ok := ScaleByName("minor"); !ok || s.Name != "minor" {
		t.Error("minor should resolve to the built-in minor scale")
	}
	if _, ok := ScaleByName("klingon"); ok {
		t.Error("unknown scale names should not resolve")
	}
}

func TestQuantizePitch_Endpoints(t *testing.T) {
	m := testMapper()

	if got := m.QuantizePitch(0); got != 220 {
		t.Errorf("t=0 should be the root, got %v", got)
	}

	// t=1 is the top of the 3-octave window: 15 degrees = 3 octaves up.
	if got := m.QuantizePitch(1); math.Abs(got-220*8) > 0.001 {
		t.Errorf("t=1 should be three octaves up (1760), got %v", got)
	}

	// Out-of-range inputs clamp.
	if got := m.QuantizePitch(-0.5); got != 220 {
		t.Errorf("t<0 should clamp to the root, got %v", got)
	}
	if got := m.QuantizePitch(2); math.Abs(got-1760) > 0.001 {
		t.Errorf("t>1 should clamp to the top, got %v", got)
	}
}

func TestQuantizePitch_MidpointTieBreaksLow(t *testing.T) {
	// A 4-degree scale over 4 octaves gives 16 degrees, so the midpoint
	// between degrees 0 and 1 sits at exactly t = 1/32.
	config := DefaultControlConfig()
	config.PitchOctaves = 4
	scale := Scale{Name: "test", RootHz: 100, Intervals: []int{0, 3, 6, 9}}
	m := NewControlMapper(config, scale, 1280, 720)

	if got := m.QuantizePitch(1.0 / 32); got != 100 {
		t.Errorf("midpoint should resolve to the lower degree (100), got %v", got)
	}

	// Just past the midpoint rounds up.
	want := 100 * math.Exp2(3.0/12)
	if got := m.QuantizePitch(1.0/32 + 1e-9); math.Abs(got-want) > 0.001 {
		t.Errorf("just past the midpoint should round up to %v, got %v", want, got)
	}
}

func TestMapRibbons_HandRoles(t *testing.T) {
	m := testMapper()

	// Left hand only: cutoff and resonance, no delay.
	updates := m.Map(ModeRibbons, frameWith(handSample(hand.Left, 600, 300, 420), nil))
	if _, ok := findParam(updates, audio.ParamCutoff); !ok {
		t.Error("left spread should drive cutoff")
	}
	if _, ok := findParam(updates, audio.ParamResonance); !ok {
		t.Error("left spread should drive resonance")
	}
	if _, ok := findParam(updates, audio.ParamDelayMix); ok {
		t.Error("delay mix should need the right hand")
	}

	// Fully open left hand pins cutoff to its maximum.
	u, _ := findParam(updates, audio.ParamCutoff)
	if u.Target != 6000 {
		t.Errorf("max spread should map to max cutoff, got %v", u.Target)
	}

	// Right hand only: delay mix.
	updates = m.Map(ModeRibbons, frameWith(nil, handSample(hand.Right, 600, 300, 80)))
	u, ok := findParam(updates, audio.ParamDelayMix)
	if !ok {
		t.Fatal("right spread should drive delay mix")
	}
	if u.Target != 0 {
		t.Errorf("minimum spread should map to zero delay, got %v", u.Target)
	}
}

func TestMapRibbons_UpdatesAreRamped(t *testing.T) {
	m := testMapper()
	updates := m.Map(ModeRibbons, frameWith(handSample(hand.Left, 0, 0, 200), nil))
	for _, u := range updates {
		if u.Ramp <= 0 {
			t.Errorf("param %s sent without a ramp", u.Param)
		}
	}
}

func TestMapTheremin_RightHandLeads(t *testing.T) {
	m := testMapper()

	left := handSample(hand.Left, 0, 360, 200)     // far left: root pitch
	right := handSample(hand.Right, 1280, 360, 200) // far right: top pitch

	updates := m.Map(ModeTheremin, frameWith(left, right))
	u, ok := findParam(updates, audio.ParamPitch)
	if !ok {
		t.Fatal("theremin mode should always send pitch")
	}
	if math.Abs(u.Target-1760) > 0.001 {
		t.Errorf("right hand should lead: expected 1760, got %v", u.Target)
	}
	if m.LastPitchHz() != u.Target {
		t.Error("LastPitchHz should track the mapped pitch")
	}
}

func TestMapTheremin_HeightMapsInverted(t *testing.T) {
	m := testMapper()

	// Hand at the top of the display: maximum brightness.
	top := m.Map(ModeTheremin, frameWith(nil, handSample(hand.Right, 640, 0, 200)))
	u, _ := findParam(top, audio.ParamCutoff)
	if u.Target != 6000 {
		t.Errorf("top of display should be brightest (6000), got %v", u.Target)
	}

	// Bottom of the display: minimum cutoff.
	bottom := m.Map(ModeTheremin, frameWith(nil, handSample(hand.Right, 640, 720, 200)))
	u, _ = findParam(bottom, audio.ParamCutoff)
	if u.Target != 200 {
		t.Errorf("bottom of display should be darkest (200), got %v", u.Target)
	}
}

func TestMapTheremin_NoHands(t *testing.T) {
	m := testMapper()
	if updates := m.Map(ModeTheremin, frameWith(nil, nil)); updates != nil {
		t.Errorf("no hands should produce no updates, got %v", updates)
	}
}

func TestMapPads_NoContinuousMappings(t *testing.T) {
	m := testMapper()
	updates := m.Map(ModePads, frameWith(handSample(hand.Left, 100, 100, 300), handSample(hand.Right, 600, 300, 300)))
	if updates != nil {
		t.Errorf("pads mode should have no continuous mappings, got %v", updates)
	}
}

func TestSetScale_RejectsInvalid(t *testing.T) {
	m := testMapper()

	m.SetScale(Scale{Name: "empty"})
	if m.Scale().Name != "pentatonic" {
		t.Error("a scale without intervals should be rejected")
	}

	m.SetScale(ScaleMinor)
	if m.Scale().Name != "minor" {
		t.Error("valid scale should be accepted")
	}
}
