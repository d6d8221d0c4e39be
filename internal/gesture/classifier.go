// Package gesture classifies hand poses into the discrete gestures the
// instrument recognizes and debounces them with a hold-to-confirm timer.
package gesture

import (
	"github.com/ayusman/taalam/internal/detector"
	"github.com/ayusman/taalam/internal/hand"
)

// Count is the classified finger-extension count of one hand.
// Only a small whitelist of patterns is meaningful; everything else is
// CountNone so that half-transitioned poses never trigger anything.
type Count int

const (
	// CountNone means no recognized gesture.
	CountNone Count = 0
	// CountOne is exactly the index finger extended.
	CountOne Count = 1
	// CountTwo is exactly the index and middle fingers extended.
	CountTwo Count = 2
	// CountFive is all five fingers extended.
	CountFive Count = 5
)

// Config holds configuration options for gesture classification.
type Config struct {
	// ExtendRatio is how much farther from the wrist a fingertip must be
	// than its middle joint to count as extended. Ratio-based so the test
	// is independent of hand distance from the camera.
	ExtendRatio float64

	// TouchPalmDistance is the palm-to-palm distance (display units)
	// below which the two hands count as touching.
	TouchPalmDistance float64

	// TouchTipDistance is the tighter fingertip-pair distance (display
	// units) below which any two opposing fingertips count as touching.
	TouchTipDistance float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ExtendRatio:       1.15,
		TouchPalmDistance: 140,
		TouchTipDistance:  50,
	}
}

// Classifier derives discrete gestures from hand state.
type Classifier struct {
	config Config
}

// NewClassifier creates a Classifier with the given configuration.
func NewClassifier(config Config) *Classifier {
	if config.ExtendRatio <= 0 {
		config.ExtendRatio = DefaultConfig().ExtendRatio
	}
	return &Classifier{config: config}
}

// Classify returns the finger count for a single hand, or CountNone when
// the extension pattern is not on the recognized whitelist.
func (c *Classifier) Classify(h *detector.HandLandmarks) Count {
	if h == nil {
		return CountNone
	}

	var mask uint8
	for f := 0; f < detector.NumFingers; f++ {
		if c.extended(h, f) {
			mask |= 1 << f
		}
	}

	// Whitelist: exactly index, exactly index+middle, or all five.
	switch mask {
	case 1 << 1:
		return CountOne
	case 1<<1 | 1<<2:
		return CountTwo
	case 1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<4:
		return CountFive
	default:
		return CountNone
	}
}

// extended reports whether finger f is extended: its tip must be farther
// from the wrist than its middle joint by the configured ratio.
func (c *Classifier) extended(h *detector.HandLandmarks, f int) bool {
	wrist := h.Points[detector.Wrist]
	tip := h.Points[detector.TipIndices[f]]
	mid := h.Points[detector.PIPIndices[f]]

	midDist := detector.Distance(mid, wrist)
	if midDist <= 0 {
		return false
	}
	return detector.Distance(tip, wrist) > c.config.ExtendRatio*midDist
}

// Touch describes how the two hands are in contact.
type Touch struct {
	// Palms is set when the palm centers are within TouchPalmDistance.
	Palms bool
	// Fingertips is set when any fingertip pair (one tip per hand) is
	// within the tighter TouchTipDistance.
	Fingertips bool
}

// Touching reports whether the predicate holds at all. It drives a chord
// side effect, never a mode change.
func (t Touch) Touching() bool {
	return t.Palms || t.Fingertips
}

// Touch evaluates the two-hand touching predicate on normalized samples.
// Either sample may be nil, in which case nothing touches.
func (c *Classifier) Touch(a, b *hand.Sample) Touch {
	var t Touch
	if a == nil || b == nil {
		return t
	}

	if detector.Distance(a.Palm, b.Palm) < c.config.TouchPalmDistance {
		t.Palms = true
	}

	for i := range a.Fingertips {
		for j := range b.Fingertips {
			if detector.Distance(a.Fingertips[i], b.Fingertips[j]) < c.config.TouchTipDistance {
				t.Fingertips = true
				return t
			}
		}
	}
	return t
}
