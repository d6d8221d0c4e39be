package engine

import (
	"testing"

	"github.com/ayusman/taalam/internal/gesture"
)

func TestModeMachine_StartsInRibbons(t *testing.T) {
	m := NewModeMachine()
	if m.Current() != ModeRibbons {
		t.Errorf("expected initial mode ribbons, got %v", m.Current())
	}
}

func TestModeFor(t *testing.T) {
	tests := []struct {
		count  gesture.Count
		want   Mode
		wantOK bool
	}{
		{gesture.CountOne, ModeRibbons, true},
		{gesture.CountTwo, ModeTheremin, true},
		{gesture.CountFive, ModePads, true},
		{gesture.CountNone, ModeRibbons, false},
	}

	for _, tt := range tests {
		got, ok := ModeFor(tt.count)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ModeFor(%v) = (%v, %v), want (%v, %v)", tt.count, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestModeMachine_Apply(t *testing.T) {
	m := NewModeMachine()

	prev, changed := m.Apply(gesture.CountTwo)
	if !changed || prev != ModeRibbons || m.Current() != ModeTheremin {
		t.Errorf("expected ribbons -> theremin, got prev=%v changed=%v current=%v", prev, changed, m.Current())
	}

	// Same-mode gesture is a no-op.
	prev, changed = m.Apply(gesture.CountTwo)
	if changed {
		t.Errorf("re-selecting the active mode should not change, got prev=%v", prev)
	}
	if m.Current() != ModeTheremin {
		t.Errorf("mode should stay theremin, got %v", m.Current())
	}

	// Unrecognized gesture is a no-op.
	if _, changed := m.Apply(gesture.CountNone); changed {
		t.Error("CountNone should never change the mode")
	}
}

func TestMode_String(t *testing.T) {
	if ModeRibbons.String() != "ribbons" || ModeTheremin.String() != "theremin" || ModePads.String() != "pads" {
		t.Error("mode names should be stable: they appear in snapshots and logs")
	}
	if Mode(42).String() != "unknown" {
		t.Error("out-of-range mode should stringify as unknown")
	}
}
