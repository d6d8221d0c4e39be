package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// decayTone is a one-shot streamer: a sine burst with exponential decay,
// optionally with a downward pitch sweep. Used for pad trigger sounds.
type decayTone struct {
	freq     float64
	sweep    float64 // Hz dropped per second, 0 for none
	decay    float64 // amplitude halvings per second
	phase    float64
	position int
	duration int
	rate     beep.SampleRate
}

func newDecayTone(freq, sweep, decay float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &decayTone{
		freq:     freq,
		sweep:    sweep,
		decay:    decay,
		duration: rate.N(duration),
		rate:     rate,
	}
}

func (d *decayTone) Stream(samples [][2]float64) (n int, ok bool) {
	sr := float64(d.rate)
	for i := range samples {
		if d.position >= d.duration {
			return i, false
		}

		t := float64(d.position) / sr
		freq := d.freq - d.sweep*t
		if freq < 20 {
			freq = 20
		}
		env := math.Exp2(-d.decay * t)

		val := math.Sin(2*math.Pi*d.phase) * env
		samples[i][0] = val
		samples[i][1] = val

		d.phase += freq / sr
		d.phase -= math.Floor(d.phase)
		d.position++
	}
	return len(samples), true
}

func (d *decayTone) Err() error { return nil }

// noiseBurst is a one-shot streamer of decaying white noise, for the
// snap/click pad sounds.
type noiseBurst struct {
	decay    float64
	position int
	duration int
	rate     beep.SampleRate
	rng      *rand.Rand
}

func newNoiseBurst(decay float64, duration time.Duration, rate beep.SampleRate, seed int64) beep.Streamer {
	return &noiseBurst{
		decay:    decay,
		duration: rate.N(duration),
		rate:     rate,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (b *noiseBurst) Stream(samples [][2]float64) (n int, ok bool) {
	sr := float64(b.rate)
	for i := range samples {
		if b.position >= b.duration {
			return i, false
		}

		t := float64(b.position) / sr
		env := math.Exp2(-b.decay * t)
		val := (b.rng.Float64()*2 - 1) * env * 0.6

		samples[i][0] = val
		samples[i][1] = val
		b.position++
	}
	return len(samples), true
}

func (b *noiseBurst) Err() error { return nil }

// chordTone plays three sine partials (root, major third, fifth) with a
// shared decay envelope, the harmonic side effect for touching hands.
type chordTone struct {
	freqs    [3]float64
	phases   [3]float64
	decay    float64
	position int
	duration int
	rate     beep.SampleRate
}

func newChordTone(rootHz float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &chordTone{
		freqs:    [3]float64{rootHz, rootHz * 5 / 4, rootHz * 3 / 2},
		decay:    1.6,
		duration: rate.N(duration),
		rate:     rate,
	}
}

func (c *chordTone) Stream(samples [][2]float64) (n int, ok bool) {
	sr := float64(c.rate)
	for i := range samples {
		if c.position >= c.duration {
			return i, false
		}

		t := float64(c.position) / sr
		env := math.Exp2(-c.decay * t)

		var val float64
		for j := range c.freqs {
			val += math.Sin(2 * math.Pi * c.phases[j])
			c.phases[j] += c.freqs[j] / sr
			c.phases[j] -= math.Floor(c.phases[j])
		}
		val = val / 3 * env * 0.7

		samples[i][0] = val
		samples[i][1] = val
		c.position++
	}
	return len(samples), true
}

func (c *chordTone) Err() error { return nil }
