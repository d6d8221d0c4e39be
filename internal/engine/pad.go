package engine

import (
	"time"

	"github.com/ayusman/taalam/internal/audio"
	"github.com/ayusman/taalam/internal/hand"
)

// PadConfig holds the tap detection tuning shared by all pads.
// Threshold and debounce are configuration, not hardcoded policy.
type PadConfig struct {
	// TapThreshold is the minimum single-frame depth decrease (movement
	// toward the sensor) that counts as a tap.
	TapThreshold float64

	// RetriggerDelay is the minimum time between two firings of the same
	// pad, no matter how long the tap condition keeps holding.
	RetriggerDelay time.Duration
}

// DefaultPadConfig returns a PadConfig with sensible default values.
func DefaultPadConfig() PadConfig {
	return PadConfig{
		TapThreshold:   0.02,
		RetriggerDelay: 100 * time.Millisecond,
	}
}

// Pad is one percussive hit zone bound to exactly one finger.
type Pad struct {
	ID     string
	Label  string
	X, Y   float64
	Radius float64
	Finger hand.FingerIndex
	Sound  audio.Sound

	// lastDepth is the depth baseline inside the hit zone. It resets to
	// nil whenever the finger leaves the zone, so re-entering always
	// needs a fresh baseline frame before a tap can register.
	lastDepth   *float64
	lastTrigger time.Time
	flashUntil  time.Time
}

// Flashing reports whether the pad should render its hit flash.
func (p *Pad) Flashing(now time.Time) bool {
	return now.Before(p.flashUntil)
}

// PadBank runs tap detection over a set of pads.
type PadBank struct {
	config PadConfig
	pads   []*Pad
}

// NewPadBank creates a bank with the given tuning.
func NewPadBank(config PadConfig) *PadBank {
	if config.TapThreshold <= 0 {
		config.TapThreshold = DefaultPadConfig().TapThreshold
	}
	if config.RetriggerDelay <= 0 {
		config.RetriggerDelay = DefaultPadConfig().RetriggerDelay
	}
	return &PadBank{config: config}
}

// Add registers a pad.
func (pb *PadBank) Add(p *Pad) {
	if p != nil {
		pb.pads = append(pb.pads, p)
	}
}

// Pads returns the registered pads.
func (pb *PadBank) Pads() []*Pad {
	return pb.pads
}

// Update runs one frame of tap detection and returns the sounds to
// trigger. For each pad: if its assigned finger is inside the hit zone,
// a depth decrease beyond the threshold fires once per retrigger window;
// leaving the zone clears the depth baseline.
func (pb *PadBank) Update(frame *hand.Frame, now time.Time) []audio.Sound {
	var triggered []audio.Sound

	for _, p := range pb.pads {
		s := padHand(frame)
		if s == nil {
			p.lastDepth = nil
			continue
		}

		tip := s.Fingertip(p.Finger)
		dx := tip.X - p.X
		dy := tip.Y - p.Y
		if dx*dx+dy*dy > p.Radius*p.Radius {
			p.lastDepth = nil
			continue
		}

		depth := tip.Z
		if p.lastDepth != nil {
			delta := *p.lastDepth - depth // decreasing depth = toward sensor
			if delta > pb.config.TapThreshold &&
				(p.lastTrigger.IsZero() || now.Sub(p.lastTrigger) > pb.config.RetriggerDelay) {
				p.lastTrigger = now
				p.flashUntil = now.Add(120 * time.Millisecond)
				triggered = append(triggered, p.Sound)
			}
		}
		p.lastDepth = &depth
	}
	return triggered
}

// Recalibrate re-centers the pads under the fingertips of the given
// hand, called on entry to pads mode when a five-fingered hand is
// present. Baselines reset so the move itself cannot fire a tap.
func (pb *PadBank) Recalibrate(s *hand.Sample) {
	if s == nil {
		return
	}
	for _, p := range pb.pads {
		tip := s.Fingertip(p.Finger)
		p.X = tip.X
		p.Y = tip.Y
		p.lastDepth = nil
	}
}

// padHand picks the hand driving the pads: the right hand leads.
func padHand(frame *hand.Frame) *hand.Sample {
	if frame.Right != nil {
		return frame.Right
	}
	return frame.Left
}
