// Package audio renders the instrument's sound: a continuous theremin
// voice with ramped parameters and one-shot percussive pad sounds,
// played through gopxl/beep.
package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// Param identifies a continuous audio parameter the core can update.
type Param string

const (
	// ParamPitch is the continuous voice frequency in Hz.
	ParamPitch Param = "pitch"
	// ParamCutoff is the low-pass filter cutoff in Hz.
	ParamCutoff Param = "cutoff"
	// ParamResonance is the filter resonance in [0,1].
	ParamResonance Param = "resonance"
	// ParamDelayMix is the wet amount of the feedback delay in [0,1].
	ParamDelayMix Param = "delay_mix"
	// ParamGain is the continuous voice output level in [0,1].
	ParamGain Param = "gain"
)

// Sound identifies a one-shot trigger sound.
type Sound string

const (
	SoundPadLow   Sound = "pad.low"
	SoundPadMid   Sound = "pad.mid"
	SoundPadHigh  Sound = "pad.high"
	SoundPadSnap  Sound = "pad.snap"
	SoundPadClick Sound = "pad.click"
)

// rampedParam is a parameter that moves to its target linearly over a
// fixed number of samples instead of stepping, so audible discontinuities
// never reach the output. All access happens under the speaker lock.
type rampedParam struct {
	current float64
	target  float64
	step    float64
	left    int
}

func newRampedParam(initial float64) *rampedParam {
	return &rampedParam{current: initial, target: initial}
}

// setTarget schedules a ramp from the current value to target over the
// given number of samples. Zero or negative counts jump immediately.
func (p *rampedParam) setTarget(target float64, samples int) {
	p.target = target
	if samples <= 0 {
		p.current = target
		p.left = 0
		p.step = 0
		return
	}
	p.step = (target - p.current) / float64(samples)
	p.left = samples
}

// next advances the ramp by one sample and returns the new value.
func (p *rampedParam) next() float64 {
	if p.left > 0 {
		p.current += p.step
		p.left--
		if p.left == 0 {
			p.current = p.target
		}
	}
	return p.current
}

// value returns the current value without advancing.
func (p *rampedParam) value() float64 {
	return p.current
}

// ramping reports whether the parameter is still moving.
func (p *rampedParam) ramping() bool {
	return p.left > 0
}

// clamp bounds v to [lo, hi] and maps NaN to lo, so a bad upstream
// mapping can never reach the oscillator.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// rampSamples converts a ramp duration to a sample count.
func rampSamples(rate beep.SampleRate, seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(seconds * float64(rate))
}
