package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// newTestStore creates a Store backed by a throwaway database file.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "taalam-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func samplePreset(id, name string) *Preset {
	return &Preset{
		ID:        id,
		Name:      name,
		ScaleName: "pentatonic",
		Knobs: []PresetKnob{
			{KnobID: "knob-delay", Label: "Delay", X: 128, Y: 108, Radius: 60, Param: "delay_mix", ParamMin: 0, ParamMax: 0.8, Value: 0},
			{KnobID: "knob-bright", Label: "Brightness", X: 1152, Y: 108, Radius: 60, Param: "cutoff", ParamMin: 200, ParamMax: 6000, Value: 0.5},
		},
		Pads: []PresetPad{
			{PadID: "pad-0", Label: "Low", X: 256, Y: 540, Radius: 55, Finger: 1, Sound: "pad.low"},
			{PadID: "pad-1", Label: "Mid", X: 448, Y: 540, Radius: 55, Finger: 1, Sound: "pad.mid"},
		},
	}
}

func TestPresetRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	preset := samplePreset("preset-1", "ambient")
	if err := repo.Create(preset); err != nil {
		t.Fatalf("failed to create preset: %v", err)
	}

	if preset.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}
	if preset.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set after create")
	}

	retrieved, err := repo.GetByID("preset-1")
	if err != nil {
		t.Fatalf("failed to get preset by ID: %v", err)
	}

	if retrieved.Name != "ambient" {
		t.Errorf("Name mismatch: got %q, want %q", retrieved.Name, "ambient")
	}
	if retrieved.ScaleName != "pentatonic" {
		t.Errorf("ScaleName mismatch: got %q, want %q", retrieved.ScaleName, "pentatonic")
	}
	if len(retrieved.Knobs) != 2 {
		t.Fatalf("expected 2 knobs, got %d", len(retrieved.Knobs))
	}
	if len(retrieved.Pads) != 2 {
		t.Fatalf("expected 2 pads, got %d", len(retrieved.Pads))
	}

	knob := retrieved.Knobs[1]
	if knob.KnobID != "knob-bright" || knob.Param != "cutoff" {
		t.Errorf("unexpected second knob: %+v", knob)
	}
	if knob.ParamMin != 200 || knob.ParamMax != 6000 || knob.Value != 0.5 {
		t.Errorf("knob range/value mismatch: %+v", knob)
	}

	pad := retrieved.Pads[0]
	if pad.PadID != "pad-0" || pad.Sound != "pad.low" || pad.Finger != 1 {
		t.Errorf("unexpected first pad: %+v", pad)
	}
}

func TestPresetRepository_GetByName(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	if err := repo.Create(samplePreset("preset-1", "ambient")); err != nil {
		t.Fatalf("failed to create preset: %v", err)
	}

	retrieved, err := repo.GetByName("ambient")
	if err != nil {
		t.Fatalf("failed to get preset by name: %v", err)
	}
	if retrieved.ID != "preset-1" {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, "preset-1")
	}

	if _, err := repo.GetByName("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing name, got %v", err)
	}
}

func TestPresetRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Presets().GetByID("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPresetRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	if err := repo.Create(samplePreset("preset-1", "ambient")); err != nil {
		t.Fatalf("failed to create preset: %v", err)
	}
	if err := repo.Create(samplePreset("preset-2", "percussive")); err != nil {
		t.Fatalf("failed to create preset: %v", err)
	}

	presets, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list presets: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(presets))
	}
	for _, p := range presets {
		if len(p.Knobs) != 2 || len(p.Pads) != 2 {
			t.Errorf("preset %q listed without its layout: %d knobs, %d pads",
				p.Name, len(p.Knobs), len(p.Pads))
		}
	}
}

func TestPresetRepository_Update_ReplacesLayout(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	preset := samplePreset("preset-1", "ambient")
	if err := repo.Create(preset); err != nil {
		t.Fatalf("failed to create preset: %v", err)
	}

	preset.Name = "ambient-2"
	preset.ScaleName = "dorian"
	preset.Knobs = []PresetKnob{
		{KnobID: "knob-res", Label: "Resonance", X: 640, Y: 108, Radius: 60, Param: "resonance", ParamMin: 0, ParamMax: 1, Value: 0.2},
	}
	preset.Pads = nil

	if err := repo.Update(preset); err != nil {
		t.Fatalf("failed to update preset: %v", err)
	}

	retrieved, err := repo.GetByID("preset-1")
	if err != nil {
		t.Fatalf("failed to get updated preset: %v", err)
	}
	if retrieved.Name != "ambient-2" || retrieved.ScaleName != "dorian" {
		t.Errorf("updated fields not persisted: %+v", retrieved)
	}
	if len(retrieved.Knobs) != 1 {
		t.Fatalf("old knob rows survived update: %d knobs", len(retrieved.Knobs))
	}
	if retrieved.Knobs[0].KnobID != "knob-res" {
		t.Errorf("unexpected knob after update: %+v", retrieved.Knobs[0])
	}
	if len(retrieved.Pads) != 0 {
		t.Errorf("old pad rows survived update: %d pads", len(retrieved.Pads))
	}
}

func TestPresetRepository_Update_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Presets().Update(samplePreset("ghost", "ghost"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPresetRepository_Delete_CascadesLayout(t *testing.T) {
	s := newTestStore(t)
	repo := s.Presets()

	if err := repo.Create(samplePreset("preset-1", "ambient")); err != nil {
		t.Fatalf("failed to create preset: %v", err)
	}

	if err := repo.Delete("preset-1"); err != nil {
		t.Fatalf("failed to delete preset: %v", err)
	}

	if _, err := repo.GetByID("preset-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Child rows must be gone through the foreign key cascade
	var count int
	err := s.DB().QueryRow(`SELECT COUNT(*) FROM preset_knobs WHERE preset_id = ?`, "preset-1").Scan(&count)
	if err != nil {
		t.Fatalf("failed to count knob rows: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 orphaned knob rows, got %d", count)
	}

	err = s.DB().QueryRow(`SELECT COUNT(*) FROM preset_pads WHERE preset_id = ?`, "preset-1").Scan(&count)
	if err != nil {
		t.Fatalf("failed to count pad rows: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 orphaned pad rows, got %d", count)
	}
}

func TestPresetRepository_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)

	if err := s.Presets().Delete("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
