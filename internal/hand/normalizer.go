package hand

import (
	"time"

	"github.com/ayusman/taalam/internal/detector"
)

// Config holds configuration options for the normalizer.
type Config struct {
	// DisplayWidth and DisplayHeight define the target coordinate space
	// fingertip and palm positions are transformed into.
	DisplayWidth  float64
	DisplayHeight float64

	// AbsenceTimeout is how long no hand may be seen before the frame
	// reports Absent.
	AbsenceTimeout time.Duration

	// TrailCapacity is the per-fingertip trail history length.
	TrailCapacity int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		DisplayWidth:   1280,
		DisplayHeight:  720,
		AbsenceTimeout: 1000 * time.Millisecond,
		TrailCapacity:  DefaultTrailCapacity,
	}
}

// Normalizer converts raw landmark sets into Samples and tracks
// previous-frame samples and fingertip trails. It is not safe for
// concurrent use; the engine calls it from the tick goroutine only.
type Normalizer struct {
	config   Config
	prev     map[Handedness]*Sample
	trails   map[Handedness]*TrailSet
	lastSeen time.Time
	started  bool
}

// NewNormalizer creates a Normalizer with the given configuration.
func NewNormalizer(config Config) *Normalizer {
	if config.DisplayWidth <= 0 || config.DisplayHeight <= 0 {
		def := DefaultConfig()
		config.DisplayWidth = def.DisplayWidth
		config.DisplayHeight = def.DisplayHeight
	}
	if config.AbsenceTimeout <= 0 {
		config.AbsenceTimeout = DefaultConfig().AbsenceTimeout
	}
	return &Normalizer{
		config: config,
		prev:   make(map[Handedness]*Sample),
		trails: make(map[Handedness]*TrailSet),
	}
}

// Step consumes the raw hands detected this frame and produces the
// normalized two-hand Frame. Malformed records (unknown handedness) are
// skipped rather than guessed; if two records claim the same hand only
// the first is kept.
func (n *Normalizer) Step(hands []detector.HandLandmarks, now time.Time) Frame {
	if !n.started {
		n.started = true
		n.lastSeen = now
	}

	frame := Frame{Now: now}

	for i := range hands {
		h := &hands[i]
		side := Handedness(h.Handedness)
		if side != Left && side != Right {
			continue
		}

		sample := n.normalize(h, side, now)

		switch side {
		case Left:
			if frame.Left != nil {
				continue
			}
			frame.Left = sample
			frame.PrevLeft = n.prev[Left]
		case Right:
			if frame.Right != nil {
				continue
			}
			frame.Right = sample
			frame.PrevRight = n.prev[Right]
		}

		n.appendTrails(side, sample, now)
		n.prev[side] = sample
	}

	if frame.HandCount() > 0 {
		n.lastSeen = now
	} else if now.Sub(n.lastSeen) > n.config.AbsenceTimeout {
		frame.Absent = true
		// Stale previous samples would produce bogus velocity spikes
		// when the hands come back.
		n.prev = make(map[Handedness]*Sample)
	}

	return frame
}

// Trails returns the trail set for the given hand, creating it on demand.
func (n *Normalizer) Trails(side Handedness) *TrailSet {
	ts, ok := n.trails[side]
	if !ok {
		ts = NewTrailSet(n.config.TrailCapacity)
		n.trails[side] = ts
	}
	return ts
}

// normalize transforms one raw landmark set into a display-space Sample.
func (n *Normalizer) normalize(h *detector.HandLandmarks, side Handedness, now time.Time) *Sample {
	s := &Sample{
		Handedness: side,
		Timestamp:  now,
	}

	s.Palm = n.toDisplay(h.PalmCenter())
	for f := 0; f < detector.NumFingers; f++ {
		s.Fingertips[f] = n.toDisplay(h.Points[detector.TipIndices[f]])
	}

	// Spread: thumb tip to pinky tip, the "hand openness" proxy.
	s.Spread = detector.Distance(s.Fingertips[Thumb], s.Fingertips[Pinky])

	return s
}

// toDisplay scales normalized sensor coordinates into display space.
// Depth is carried through unscaled.
func (n *Normalizer) toDisplay(p detector.Point3D) detector.Point3D {
	return detector.Point3D{
		X: p.X * n.config.DisplayWidth,
		Y: p.Y * n.config.DisplayHeight,
		Z: p.Z,
	}
}

func (n *Normalizer) appendTrails(side Handedness, s *Sample, now time.Time) {
	ts := n.Trails(side)
	for f := 0; f < detector.NumFingers; f++ {
		ts.Fingers[f].Append(s.Fingertips[f].X, s.Fingertips[f].Y, now)
	}
}
