package engine

import (
	"math"
	"testing"
	"time"

	"github.com/ayusman/taalam/internal/audio"
	"github.com/ayusman/taalam/internal/detector"
	"github.com/ayusman/taalam/internal/hand"
)

func testKnob() *Knob {
	return &Knob{
		ID:       "k1",
		Label:    "Test",
		X:        500,
		Y:        300,
		Radius:   80,
		Param:    audio.ParamDelayMix,
		ParamMin: 0,
		ParamMax: 1,
	}
}

// pinchFrame builds a frame with a right hand pinching at (x, y): thumb
// and index tips a small distance apart around the point, the other
// fingertips far away.
func pinchFrame(x, y float64) *hand.Frame {
	s := &hand.Sample{Handedness: hand.Right, Timestamp: time.Now()}
	s.Fingertips[hand.Thumb] = detector.Point3D{X: x - 5, Y: y}
	s.Fingertips[hand.Index] = detector.Point3D{X: x + 5, Y: y}
	for _, f := range []hand.FingerIndex{hand.Middle, hand.Ring, hand.Pinky} {
		s.Fingertips[f] = detector.Point3D{X: x + 2000, Y: y + 2000}
	}
	s.Palm = detector.Point3D{X: x, Y: y + 100}
	return &hand.Frame{Right: s, Now: time.Now()}
}

func TestKnob_GrabRequiresBothFingertips(t *testing.T) {
	kc := NewKnobController(DefaultKnobConfig())
	k := testKnob()
	kc.Add(k)

	// Pinch inside the radius grabs.
	kc.Update(pinchFrame(540, 300), 50*time.Millisecond)
	if !k.Grabbed() {
		t.Fatal("pinch inside the radius should grab the knob")
	}

	// Index inside but thumb far outside: no grab.
	frame := pinchFrame(540, 300)
	frame.Right.Fingertips[hand.Thumb] = detector.Point3D{X: 900, Y: 900}
	kc.Update(frame, 50*time.Millisecond)
	if k.Grabbed() {
		t.Error("one fingertip outside the radius should release the knob")
	}
}

func TestKnob_AngleToValue(t *testing.T) {
	kc := NewKnobController(DefaultKnobConfig())
	k := testKnob()
	kc.Add(k)

	// Start angle is 135°: pinch down-left of center (y grows downward),
	// which is value 0.
	r := 40.0
	rad := 135 * math.Pi / 180
	kc.Update(pinchFrame(k.X+r*math.Cos(rad), k.Y+r*math.Sin(rad)), 0)
	if k.Value != 0 {
		t.Errorf("start angle should map to value 0, got %v", k.Value)
	}

	// Half sweep: 135° + 135° = 270°, straight up.
	rad = 270 * math.Pi / 180
	updates := kc.Update(pinchFrame(k.X+r*math.Cos(rad), k.Y+r*math.Sin(rad)), 0)
	if math.Abs(k.Value-0.5) > 0.01 {
		t.Errorf("half sweep should map to value 0.5, got %v", k.Value)
	}
	if len(updates) != 1 {
		t.Fatalf("value change should emit one update, got %d", len(updates))
	}
	if math.Abs(updates[0].Target-0.5) > 0.01 {
		t.Errorf("expected target near 0.5, got %v", updates[0].Target)
	}

	// Full sweep: 135° + 270° = 405° = 45°.
	rad = 45 * math.Pi / 180
	kc.Update(pinchFrame(k.X+r*math.Cos(rad), k.Y+r*math.Sin(rad)), 0)
	if math.Abs(k.Value-1) > 0.01 {
		t.Errorf("full sweep should map to value 1, got %v", k.Value)
	}
}

func TestKnob_DeadZoneClampsToNearerEnd(t *testing.T) {
	kc := NewKnobController(DefaultKnobConfig())
	k := testKnob()
	kc.Add(k)

	r := 40.0

	// Just past the end of the sweep (50° from +x axis): clamps to 1.
	rad := 50 * math.Pi / 180
	kc.Update(pinchFrame(k.X+r*math.Cos(rad), k.Y+r*math.Sin(rad)), 0)
	if k.Value != 1 {
		t.Errorf("dead zone near the end should clamp to 1, got %v", k.Value)
	}

	// Just before the start (130°): clamps to 0.
	rad = 130 * math.Pi / 180
	kc.Update(pinchFrame(k.X+r*math.Cos(rad), k.Y+r*math.Sin(rad)), 0)
	if k.Value != 0 {
		t.Errorf("dead zone near the start should clamp to 0, got %v", k.Value)
	}
}

func TestKnob_ValueFreezesOnRelease(t *testing.T) {
	kc := NewKnobController(DefaultKnobConfig())
	k := testKnob()
	kc.Add(k)

	// Grab and turn to half sweep.
	r := 40.0
	rad := 270 * math.Pi / 180
	kc.Update(pinchFrame(k.X+r*math.Cos(rad), k.Y+r*math.Sin(rad)), 0)
	held := k.Value

	// Release: empty frame.
	updates := kc.Update(&hand.Frame{Now: time.Now()}, 0)
	if len(updates) != 0 {
		t.Error("release should emit no updates")
	}
	if k.Grabbed() {
		t.Error("knob should be released")
	}
	if k.Value != held {
		t.Errorf("value should freeze at %v on release, got %v", held, k.Value)
	}
}

func TestKnob_ParamRangeMapping(t *testing.T) {
	kc := NewKnobController(DefaultKnobConfig())
	k := testKnob()
	k.Param = audio.ParamCutoff
	k.ParamMin = 200
	k.ParamMax = 6000
	kc.Add(k)

	r := 40.0
	rad := 45 * math.Pi / 180 // full sweep
	updates := kc.Update(pinchFrame(k.X+r*math.Cos(rad), k.Y+r*math.Sin(rad)), 80*time.Millisecond)

	if len(updates) != 1 {
		t.Fatalf("expected one update, got %d", len(updates))
	}
	if math.Abs(updates[0].Target-6000) > 1 {
		t.Errorf("value 1 should map to ParamMax 6000, got %v", updates[0].Target)
	}
	if updates[0].Ramp != 80*time.Millisecond {
		t.Errorf("update should carry the requested ramp, got %v", updates[0].Ramp)
	}
}
