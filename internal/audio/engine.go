package audio

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Engine is the audio side of the instrument. It accepts ramped parameter
// updates and one-shot triggers from the core and never exposes its DSP
// internals back. If the output device cannot be opened, the engine runs
// in silent mode: every command is accepted and dropped, so gesture
// classification and the visual simulation keep working without sound.
type Engine struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	voice       *thereminVoice
	initialized bool
	silent      bool
	seed        int64
}

// NewEngine creates the audio engine. Call Initialize before use.
func NewEngine() *Engine {
	return &Engine{
		mixer: &beep.Mixer{},
		voice: newThereminVoice(sampleRate),
	}
}

// Initialize opens the output device and starts the mixer. A device
// failure is not fatal: the engine switches to silent mode and returns
// nil, logging the cause.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		log.Printf("audio unavailable (%v), running silent", err)
		e.silent = true
		e.initialized = true
		return nil
	}

	e.mixer.Add(e.voice)
	speaker.Play(e.mixer)
	e.initialized = true
	return nil
}

// Silent reports whether the engine is running without an output device.
func (e *Engine) Silent() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.silent
}

// Close stops all sound.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized || e.silent {
		e.initialized = false
		return
	}

	speaker.Lock()
	e.mixer.Clear()
	speaker.Unlock()
	e.initialized = false
}

// SetParam ramps a continuous parameter to target over the given window.
// Ramping is the contract: immediate jumps only happen with ramp <= 0.
func (e *Engine) SetParam(p Param, target float64, ramp time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized || e.silent {
		return
	}

	rp := e.voice.param(p)
	if rp == nil {
		return
	}

	speaker.Lock()
	rp.setTarget(target, rampSamples(sampleRate, ramp.Seconds()))
	speaker.Unlock()
}

// StartVoice brings the continuous voice up from silence.
func (e *Engine) StartVoice() {
	e.SetParam(ParamGain, 0.8, 30*time.Millisecond)
}

// StopVoice ramps the continuous voice down to silence over the given
// window. The caller is responsible for scheduling ReleaseVoice after the
// ramp completes.
func (e *Engine) StopVoice(ramp time.Duration) {
	e.SetParam(ParamGain, 0, ramp)
}

// ReleaseVoice clears oscillator, filter, and delay state once a stop
// ramp has finished, so the next note starts clean.
func (e *Engine) ReleaseVoice() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized || e.silent {
		return
	}

	speaker.Lock()
	e.voice.reset()
	speaker.Unlock()
}

// Trigger plays a one-shot sound.
func (e *Engine) Trigger(s Sound) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized || e.silent {
		return
	}

	var streamer beep.Streamer
	switch s {
	case SoundPadLow:
		streamer = newDecayTone(110, 60, 5, 500*time.Millisecond, sampleRate)
	case SoundPadMid:
		streamer = newDecayTone(220, 80, 6, 400*time.Millisecond, sampleRate)
	case SoundPadHigh:
		streamer = newDecayTone(440, 120, 7, 300*time.Millisecond, sampleRate)
	case SoundPadSnap:
		e.seed++
		streamer = newNoiseBurst(10, 200*time.Millisecond, sampleRate, e.seed)
	case SoundPadClick:
		e.seed++
		streamer = newNoiseBurst(22, 80*time.Millisecond, sampleRate, e.seed)
	default:
		return
	}

	speaker.Lock()
	e.mixer.Add(streamer)
	speaker.Unlock()
}

// PlayChord plays the harmonic chord side effect rooted at the given
// frequency, triggered when the two hands touch.
func (e *Engine) PlayChord(rootHz float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized || e.silent {
		return
	}

	speaker.Lock()
	e.mixer.Add(newChordTone(clamp(rootHz, 60, 1200), 900*time.Millisecond, sampleRate))
	speaker.Unlock()
}
