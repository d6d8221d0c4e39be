package gesture

import "time"

// DefaultHoldDuration is how long a classification must persist unchanged
// before it fires.
const DefaultHoldDuration = 2500 * time.Millisecond

// Hold is the hold-to-confirm debounce for classified gestures. A
// classification must be observed unchanged for the full hold duration
// before it fires; any change, including to CountNone when the hand is
// lost, resets progress to zero. After firing, the candidate resets to
// CountNone so a motionless pose cannot fire twice; the user has to
// leave and re-enter the gesture.
type Hold struct {
	duration  time.Duration
	candidate Count
	since     time.Time
}

// NewHold creates a Hold with the given duration.
// Durations less than or equal to zero fall back to DefaultHoldDuration.
func NewHold(duration time.Duration) *Hold {
	if duration <= 0 {
		duration = DefaultHoldDuration
	}
	return &Hold{duration: duration}
}

// Observe feeds this frame's classification into the timer. It returns
// the fired gesture and true on the single frame the hold completes.
func (h *Hold) Observe(c Count, now time.Time) (Count, bool) {
	if c != h.candidate {
		h.candidate = c
		h.since = now
		return CountNone, false
	}

	if h.candidate == CountNone {
		return CountNone, false
	}

	if now.Sub(h.since) >= h.duration {
		fired := h.candidate
		h.candidate = CountNone
		h.since = now
		return fired, true
	}

	return CountNone, false
}

// Candidate returns the classification currently being held.
func (h *Hold) Candidate() Count {
	return h.candidate
}

// Progress returns how far the current hold has advanced in [0,1], for
// the on-screen countdown indicator. Zero when nothing is held.
func (h *Hold) Progress(now time.Time) float64 {
	if h.candidate == CountNone {
		return 0
	}
	p := float64(now.Sub(h.since)) / float64(h.duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Reset clears the candidate and progress.
func (h *Hold) Reset() {
	h.candidate = CountNone
	h.since = time.Time{}
}
