package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// maxDelaySeconds bounds the feedback delay buffer.
const maxDelaySeconds = 0.35

// thereminVoice is the continuous voice streamer: a sine oscillator into
// a resonant state-variable low-pass filter, with a feedback delay mixed
// in behind it. It stays in the mixer permanently; starting and stopping
// the voice is done by ramping its gain, which is what gives mode exits
// their scheduled fade instead of a click.
type thereminVoice struct {
	rate beep.SampleRate

	pitch     *rampedParam
	cutoff    *rampedParam
	resonance *rampedParam
	delayMix  *rampedParam
	gain      *rampedParam

	phase float64

	// State-variable filter state
	low, band float64

	// Feedback delay line
	delayBuf []float64
	delayPos int
}

func newThereminVoice(rate beep.SampleRate) *thereminVoice {
	return &thereminVoice{
		rate:      rate,
		pitch:     newRampedParam(220),
		cutoff:    newRampedParam(1200),
		resonance: newRampedParam(0.2),
		delayMix:  newRampedParam(0),
		gain:      newRampedParam(0),
		delayBuf:  make([]float64, int(maxDelaySeconds*float64(rate))),
	}
}

// param returns the ramped parameter backing the given Param id, or nil
// for params the voice does not own.
func (v *thereminVoice) param(p Param) *rampedParam {
	switch p {
	case ParamPitch:
		return v.pitch
	case ParamCutoff:
		return v.cutoff
	case ParamResonance:
		return v.resonance
	case ParamDelayMix:
		return v.delayMix
	case ParamGain:
		return v.gain
	default:
		return nil
	}
}

// reset clears filter and delay state. Called when a voice release
// completes so the next note starts from silence.
func (v *thereminVoice) reset() {
	v.phase = 0
	v.low = 0
	v.band = 0
	for i := range v.delayBuf {
		v.delayBuf[i] = 0
	}
	v.delayPos = 0
}

func (v *thereminVoice) Stream(samples [][2]float64) (n int, ok bool) {
	sr := float64(v.rate)

	for i := range samples {
		freq := clamp(v.pitch.next(), 20, 8000)
		cutoff := clamp(v.cutoff.next(), 40, sr*0.45)
		res := clamp(v.resonance.next(), 0, 1)
		mix := clamp(v.delayMix.next(), 0, 1)
		gain := clamp(v.gain.next(), 0, 1)

		// Oscillator
		osc := math.Sin(2 * math.Pi * v.phase)
		v.phase += freq / sr
		v.phase -= math.Floor(v.phase)

		// State-variable low-pass. Resonance narrows the damping.
		f := 2 * math.Sin(math.Pi*cutoff/sr)
		q := 1.1 - res
		v.low += f * v.band
		high := osc - v.low - q*v.band
		v.band += f * high
		dry := v.low

		// Feedback delay
		delayed := v.delayBuf[v.delayPos]
		v.delayBuf[v.delayPos] = dry + delayed*0.45
		v.delayPos++
		if v.delayPos >= len(v.delayBuf) {
			v.delayPos = 0
		}

		val := (dry*(1-mix) + delayed*mix) * gain

		samples[i][0] = val
		samples[i][1] = val
	}
	return len(samples), true
}

func (v *thereminVoice) Err() error { return nil }
