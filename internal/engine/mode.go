// Package engine ties gesture interpretation, mode state, continuous
// control mapping, knobs, pads, and the particle simulation into one
// per-frame step driven by the application tick.
package engine

import "github.com/ayusman/taalam/internal/gesture"

// Mode is the instrument's play mode. Exactly one mode is active at any
// time; switching exhaustively on Mode keeps adding a mode a
// compile-checked change.
type Mode int

const (
	// ModeRibbons is the initial mode: hand spread shapes the filter and
	// delay while fingertips paint particle ribbons.
	ModeRibbons Mode = iota
	// ModeTheremin maps palm position to a continuous pitched voice.
	ModeTheremin
	// ModePads turns fingertips into percussive tap pads.
	ModePads
)

// String returns the mode name for logs and the render snapshot.
func (m Mode) String() string {
	switch m {
	case ModeRibbons:
		return "ribbons"
	case ModeTheremin:
		return "theremin"
	case ModePads:
		return "pads"
	default:
		return "unknown"
	}
}

// ModeMachine owns the current mode. It is only ever touched from the
// tick goroutine.
type ModeMachine struct {
	current Mode
}

// NewModeMachine creates the machine in ModeRibbons.
func NewModeMachine() *ModeMachine {
	return &ModeMachine{current: ModeRibbons}
}

// Current returns the active mode.
func (m *ModeMachine) Current() Mode {
	return m.current
}

// ModeFor maps a fired gesture to its target mode. The second return is
// false for gestures that do not select a mode.
func ModeFor(c gesture.Count) (Mode, bool) {
	switch c {
	case gesture.CountOne:
		return ModeRibbons, true
	case gesture.CountTwo:
		return ModeTheremin, true
	case gesture.CountFive:
		return ModePads, true
	default:
		return ModeRibbons, false
	}
}

// Apply consumes a fired gesture. Firing the gesture for the currently
// active mode is a no-op. Returns the previous mode and whether the mode
// actually changed.
func (m *ModeMachine) Apply(c gesture.Count) (prev Mode, changed bool) {
	target, ok := ModeFor(c)
	if !ok || target == m.current {
		return m.current, false
	}
	prev = m.current
	m.current = target
	return prev, true
}
