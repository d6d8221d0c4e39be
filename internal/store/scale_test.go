package store

import (
	"errors"
	"reflect"
	"testing"
)

func TestScaleRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scales()

	scale := &Scale{
		ID:        "scale-1",
		Name:      "dorian",
		RootHz:    220,
		Intervals: []int{0, 2, 3, 5, 7, 9, 10},
	}
	if err := repo.Create(scale); err != nil {
		t.Fatalf("failed to create scale: %v", err)
	}
	if scale.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}

	retrieved, err := repo.GetByName("dorian")
	if err != nil {
		t.Fatalf("failed to get scale: %v", err)
	}
	if retrieved.ID != "scale-1" {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, "scale-1")
	}
	if retrieved.RootHz != 220 {
		t.Errorf("RootHz mismatch: got %v, want 220", retrieved.RootHz)
	}
	if !reflect.DeepEqual(retrieved.Intervals, scale.Intervals) {
		t.Errorf("Intervals mismatch: got %v, want %v", retrieved.Intervals, scale.Intervals)
	}
}

func TestScaleRepository_GetByName_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Scales().GetByName("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestScaleRepository_List_SortedByName(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scales()

	for _, sc := range []*Scale{
		{ID: "scale-1", Name: "pentatonic", RootHz: 220, Intervals: []int{0, 2, 4, 7, 9}},
		{ID: "scale-2", Name: "dorian", RootHz: 220, Intervals: []int{0, 2, 3, 5, 7, 9, 10}},
	} {
		if err := repo.Create(sc); err != nil {
			t.Fatalf("failed to create scale %q: %v", sc.Name, err)
		}
	}

	scales, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list scales: %v", err)
	}
	if len(scales) != 2 {
		t.Fatalf("expected 2 scales, got %d", len(scales))
	}
	if scales[0].Name != "dorian" || scales[1].Name != "pentatonic" {
		t.Errorf("scales not sorted by name: %q, %q", scales[0].Name, scales[1].Name)
	}
}

func TestScaleRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Scales()

	if err := repo.Create(&Scale{ID: "scale-1", Name: "pentatonic", RootHz: 220, Intervals: []int{0, 2, 4, 7, 9}}); err != nil {
		t.Fatalf("failed to create scale: %v", err)
	}

	if err := repo.Delete("scale-1"); err != nil {
		t.Fatalf("failed to delete scale: %v", err)
	}
	if _, err := repo.GetByName("pentatonic"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete("scale-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestIntervalEncoding(t *testing.T) {
	tests := []struct {
		intervals []int
		encoded   string
	}{
		{[]int{0, 2, 4, 7, 9}, "0,2,4,7,9"},
		{[]int{0}, "0"},
		{nil, ""},
	}
	for _, tt := range tests {
		got := encodeIntervals(tt.intervals)
		if got != tt.encoded {
			t.Errorf("encodeIntervals(%v) = %q, want %q", tt.intervals, got, tt.encoded)
		}
		decoded, err := decodeIntervals(got)
		if err != nil {
			t.Errorf("decodeIntervals(%q) failed: %v", got, err)
		}
		if !reflect.DeepEqual(decoded, tt.intervals) {
			t.Errorf("round trip of %v gave %v", tt.intervals, decoded)
		}
	}
}

func TestDecodeIntervals_Invalid(t *testing.T) {
	if _, err := decodeIntervals("0,two,4"); err == nil {
		t.Error("expected an error for a non-numeric interval")
	}
}

func TestSettingsRepository_SetGetDelete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get("active_preset"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := repo.Set("active_preset", "ambient"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}
	value, err := repo.Get("active_preset")
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if value != "ambient" {
		t.Errorf("value = %q, want %q", value, "ambient")
	}

	// Upsert replaces the value
	if err := repo.Set("active_preset", "percussive"); err != nil {
		t.Fatalf("failed to overwrite setting: %v", err)
	}
	value, _ = repo.Get("active_preset")
	if value != "percussive" {
		t.Errorf("value after overwrite = %q, want %q", value, "percussive")
	}

	if err := repo.Delete("active_preset"); err != nil {
		t.Fatalf("failed to delete setting: %v", err)
	}
	if _, err := repo.Get("active_preset"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error
	if err := repo.Delete("active_preset"); err != nil {
		t.Errorf("deleting a missing key should succeed: %v", err)
	}
}
