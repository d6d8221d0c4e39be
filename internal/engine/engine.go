package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/ayusman/taalam/internal/audio"
	"github.com/ayusman/taalam/internal/detector"
	"github.com/ayusman/taalam/internal/gesture"
	"github.com/ayusman/taalam/internal/hand"
	"github.com/ayusman/taalam/internal/particle"
)

// Audio is the command surface the engine drives sound through. The
// engine only ever sends commands; it never inspects the audio side.
type Audio interface {
	// SetParam ramps a continuous parameter to target over ramp.
	SetParam(p audio.Param, target float64, ramp time.Duration)
	// Trigger plays a one-shot sound.
	Trigger(s audio.Sound)
	// StartVoice brings the continuous voice up.
	StartVoice()
	// StopVoice ramps the continuous voice to silence.
	StopVoice(ramp time.Duration)
	// ReleaseVoice frees voice resources after a stop ramp completes.
	ReleaseVoice()
	// PlayChord plays the two-hands-touching harmonic side effect.
	PlayChord(rootHz float64)
}

// Config holds configuration for the whole engine. Everything is loaded
// once at startup; nothing here is consulted from outside the tick.
type Config struct {
	Hand       hand.Config
	Classifier gesture.Config
	Control    ControlConfig
	Knob       KnobConfig
	Pad        PadConfig
	Particle   particle.Config

	// HoldDuration is the hold-to-confirm window for mode gestures.
	HoldDuration time.Duration

	// ReleaseRamp is the fade applied to the continuous voice when
	// leaving theremin mode or losing the hands.
	ReleaseRamp time.Duration

	// Scale is the initial pitch quantization scale.
	Scale Scale

	// Seed makes particle jitter and turbulence deterministic.
	Seed int64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Hand:         hand.DefaultConfig(),
		Classifier:   gesture.DefaultConfig(),
		Control:      DefaultControlConfig(),
		Knob:         DefaultKnobConfig(),
		Pad:          DefaultPadConfig(),
		Particle:     particle.DefaultConfig(),
		HoldDuration: gesture.DefaultHoldDuration,
		ReleaseRamp:  200 * time.Millisecond,
		Scale:        ScalePentatonic,
		Seed:         1,
	}
}

// Engine is the per-frame core: it owns every piece of mutable
// instrument state and mutates it only from the tick goroutine. External
// consumers get command dispatches (audio) and snapshot copies (render).
type Engine struct {
	config Config

	normalizer *hand.Normalizer
	classifier *gesture.Classifier
	hold       *gesture.Hold
	modes      *ModeMachine
	mapper     *ControlMapper
	knobs      *KnobController
	pads       *PadBank
	particles  *particle.Engine
	scheduler  *Scheduler
	audio      Audio

	voiceActive    bool
	pendingRelease uint64
	chordLatched   bool
	lastTick       time.Time
}

// New creates an engine wired to the given audio command sink.
func New(config Config, sink Audio) *Engine {
	if config.HoldDuration <= 0 {
		config.HoldDuration = gesture.DefaultHoldDuration
	}
	if config.ReleaseRamp <= 0 {
		config.ReleaseRamp = DefaultConfig().ReleaseRamp
	}
	if len(config.Scale.Intervals) == 0 {
		config.Scale = ScalePentatonic
	}

	e := &Engine{
		config:     config,
		normalizer: hand.NewNormalizer(config.Hand),
		classifier: gesture.NewClassifier(config.Classifier),
		hold:       gesture.NewHold(config.HoldDuration),
		modes:      NewModeMachine(),
		knobs:      NewKnobController(config.Knob),
		pads:       NewPadBank(config.Pad),
		particles:  particle.NewEngine(config.Particle, config.Seed),
		scheduler:  NewScheduler(),
		audio:      sink,
	}
	e.mapper = NewControlMapper(config.Control, config.Scale,
		config.Hand.DisplayWidth, config.Hand.DisplayHeight)
	return e
}

// Mode returns the active play mode.
func (e *Engine) Mode() Mode {
	return e.modes.Current()
}

// AddKnob registers a knob.
func (e *Engine) AddKnob(k *Knob) {
	e.knobs.Add(k)
}

// AddPad registers a pad.
func (e *Engine) AddPad(p *Pad) {
	e.pads.Add(p)
}

// SetScale swaps the active quantization scale.
func (e *Engine) SetScale(s Scale) {
	e.mapper.SetScale(s)
}

// DefaultLayout installs the stock knob and pad layout: a delay knob and
// a brightness knob in the top corners, and one pad per finger along the
// bottom of the display.
func (e *Engine) DefaultLayout() {
	w := e.config.Hand.DisplayWidth
	h := e.config.Hand.DisplayHeight

	e.AddKnob(&Knob{
		ID: "knob-delay", Label: "Delay",
		X: w * 0.1, Y: h * 0.15, Radius: 70,
		Param: audio.ParamDelayMix, ParamMin: 0, ParamMax: 0.8,
	})
	e.AddKnob(&Knob{
		ID: "knob-bright", Label: "Bright",
		X: w * 0.9, Y: h * 0.15, Radius: 70,
		Param: audio.ParamCutoff, ParamMin: 200, ParamMax: 6000,
		Value: 0.5,
	})

	sounds := [5]audio.Sound{
		audio.SoundPadLow, audio.SoundPadMid, audio.SoundPadHigh,
		audio.SoundPadSnap, audio.SoundPadClick,
	}
	for f := 0; f < 5; f++ {
		e.AddPad(&Pad{
			ID:     fmt.Sprintf("pad-%d", f),
			Label:  fmt.Sprintf("Pad %d", f+1),
			X:      w * (0.2 + 0.15*float64(f)),
			Y:      h * 0.75,
			Radius: 55,
			Finger: hand.FingerIndex(f),
			Sound:  sounds[f],
		})
	}
}

// Step advances the instrument by one frame. Subsystems run in a fixed
// order so their interactions stay deterministic: scheduler drain, hand
// normalization, gesture hold, mode transitions, knobs, continuous
// mapping, pads, particles, snapshot.
func (e *Engine) Step(hands []detector.HandLandmarks, now time.Time) Snapshot {
	var dt float64
	if !e.lastTick.IsZero() {
		dt = now.Sub(e.lastTick).Seconds()
	}
	e.lastTick = now

	e.scheduler.Drain(now)

	frame := e.normalizer.Step(hands, now)

	// Gesture classification and hold-to-confirm
	classification := e.classify(hands, &frame)
	if fired, ok := e.hold.Observe(classification, now); ok {
		e.applyFired(fired, &frame, now)
	}

	// Two-hand touch chord, latched so one contact plays one chord
	e.stepTouch(&frame)

	// Knobs are global: active regardless of mode
	for _, u := range e.knobs.Update(&frame, e.config.Control.Ramp) {
		e.audio.SetParam(u.Param, u.Target, u.Ramp)
	}

	// Continuous voice lifecycle and mode-specific mappings
	e.stepVoice(&frame, now)
	for _, u := range e.mapper.Map(e.modes.Current(), &frame) {
		e.audio.SetParam(u.Param, u.Target, u.Ramp)
	}

	// Pads only listen in pads mode
	if e.modes.Current() == ModePads {
		for _, s := range e.pads.Update(&frame, now) {
			e.audio.Trigger(s)
		}
	}

	e.stepParticles(&frame, now, dt)

	return e.snapshot(&frame, now)
}

// classify picks the classification driving mode gestures: the right
// hand leads when both are present; an absent frame classifies as none.
func (e *Engine) classify(hands []detector.HandLandmarks, frame *hand.Frame) gesture.Count {
	if frame.HandCount() == 0 {
		return gesture.CountNone
	}

	var chosen *detector.HandLandmarks
	for i := range hands {
		h := &hands[i]
		if h.Handedness == string(hand.Right) {
			chosen = h
			break
		}
		if chosen == nil && h.Handedness == string(hand.Left) {
			chosen = h
		}
	}
	return e.classifier.Classify(chosen)
}

// applyFired consumes a fired hold gesture: mode transition plus its
// enter/exit side effects.
func (e *Engine) applyFired(fired gesture.Count, frame *hand.Frame, now time.Time) {
	prev, changed := e.modes.Apply(fired)
	if !changed {
		return
	}
	log.Printf("mode %s -> %s", prev, e.modes.Current())

	if prev == ModeTheremin {
		e.beginRelease(now)
	}

	switch e.modes.Current() {
	case ModeTheremin:
		// Voice starts on the next frame a hand is present; any pending
		// release is force-completed there first.
	case ModePads:
		// Recalibrate pad zones if a five-fingered hand is showing.
		if s := padHand(frame); s != nil {
			e.pads.Recalibrate(s)
		}
	case ModeRibbons:
	}
}

// stepTouch plays the chord side effect on the rising edge of the
// two-hand touching predicate.
func (e *Engine) stepTouch(frame *hand.Frame) {
	t := e.classifier.Touch(frame.Left, frame.Right)
	if t.Touching() {
		if !e.chordLatched {
			e.chordLatched = true
			e.audio.PlayChord(e.mapper.LastPitchHz())
		}
		return
	}
	e.chordLatched = false
}

// stepVoice manages the continuous voice: start it when theremin mode
// has a hand to track, fade it when the hands vanish or the mode exits.
func (e *Engine) stepVoice(frame *hand.Frame, now time.Time) {
	inTheremin := e.modes.Current() == ModeTheremin

	if inTheremin && frame.HandCount() > 0 && !e.voiceActive {
		e.startVoice()
		return
	}

	if e.voiceActive && (frame.Absent || !inTheremin) {
		e.beginRelease(now)
	}
}

// startVoice allocates the continuous voice. Any pending release is
// force-completed first so a quick mode re-entry can never double-voice
// or resurrect a half-released one.
func (e *Engine) startVoice() {
	if e.pendingRelease != 0 {
		e.scheduler.Fire(e.pendingRelease)
		e.pendingRelease = 0
	}
	e.audio.StartVoice()
	e.voiceActive = true
}

// beginRelease fades the voice over the release ramp and schedules the
// resource release for after the ramp has completed.
func (e *Engine) beginRelease(now time.Time) {
	if !e.voiceActive {
		return
	}
	e.voiceActive = false
	e.audio.StopVoice(e.config.ReleaseRamp)
	e.pendingRelease = e.scheduler.After(now, e.config.ReleaseRamp, func() {
		e.audio.ReleaseVoice()
		e.pendingRelease = 0
	})
}

// stepParticles emits from fingertip sources and advances the simulation.
// Emission is time-based per source; missing hands have their baselines
// forgotten so reappearing does not burst.
func (e *Engine) stepParticles(frame *hand.Frame, now time.Time, dt float64) {
	emitFrom := func(s *hand.Sample) {
		trails := e.normalizer.Trails(s.Handedness)
		fingers := e.emitFingers()
		for _, f := range fingers {
			tip := s.Fingertip(f)
			vx, vy := trails.Fingers[f].Velocity()
			id := string(s.Handedness) + "/" + string('0'+rune(f))
			e.particles.EmitFrom(id, tip.X, tip.Y, vx, vy, uint8(f), now)
		}
	}

	for _, side := range []hand.Handedness{hand.Left, hand.Right} {
		var s *hand.Sample
		if side == hand.Left {
			s = frame.Left
		} else {
			s = frame.Right
		}
		if s != nil {
			emitFrom(s)
			continue
		}
		for f := 0; f < 5; f++ {
			e.particles.ForgetSource(string(side) + "/" + string('0'+rune(f)))
		}
	}

	e.particles.Step(now, dt)
}

// emitFingers returns which fingers emit particles in the current mode:
// all five paint in ribbons mode, only the index elsewhere.
func (e *Engine) emitFingers() []hand.FingerIndex {
	if e.modes.Current() == ModeRibbons {
		return []hand.FingerIndex{hand.Thumb, hand.Index, hand.Middle, hand.Ring, hand.Pinky}
	}
	return []hand.FingerIndex{hand.Index}
}

// snapshot assembles the render view for this frame.
func (e *Engine) snapshot(frame *hand.Frame, now time.Time) Snapshot {
	snap := Snapshot{
		TimestampMs:  timestampMs(now),
		Mode:         e.modes.Current().String(),
		HandsAbsent:  frame.Absent,
		HoldGesture:  int(e.hold.Candidate()),
		HoldProgress: e.hold.Progress(now),
	}

	frame.Each(func(s, _ *hand.Sample) {
		snap.Hands = append(snap.Hands, handState(s, e.normalizer.Trails(s.Handedness)))
	})

	cfg := e.knobs.Config()
	for _, k := range e.knobs.Knobs() {
		snap.Knobs = append(snap.Knobs, KnobState{
			ID:       k.ID,
			Label:    k.Label,
			X:        k.X,
			Y:        k.Y,
			Radius:   k.Radius,
			Value:    k.Value,
			AngleDeg: k.AngleDegrees(cfg),
			Grabbed:  k.Grabbed(),
		})
	}

	for _, p := range e.pads.Pads() {
		snap.Pads = append(snap.Pads, PadState{
			ID:     p.ID,
			Label:  p.Label,
			X:      p.X,
			Y:      p.Y,
			Radius: p.Radius,
			Finger: int(p.Finger),
			Flash:  p.Flashing(now),
		})
	}

	for _, p := range e.particles.Particles() {
		snap.Particles = append(snap.Particles, ParticleState{
			X:        p.X,
			Y:        p.Y,
			AgeSec:   now.Sub(p.Birth).Seconds(),
			Size:     p.Size,
			ColorTag: p.ColorTag,
		})
	}

	return snap
}
