package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// PresetKnob is a knob position and stored value belonging to a preset.
type PresetKnob struct {
	KnobID   string
	Label    string
	X        float64
	Y        float64
	Radius   float64
	Param    string
	ParamMin float64
	ParamMax float64
	Value    float64
}

// PresetPad is a pad position belonging to a preset.
type PresetPad struct {
	PadID  string
	Label  string
	X      float64
	Y      float64
	Radius float64
	Finger int
	Sound  string
}

// Preset represents a named instrument configuration stored in the database.
type Preset struct {
	ID        string
	Name      string
	ScaleName string
	Knobs     []PresetKnob
	Pads      []PresetPad
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PresetRepository provides CRUD operations for presets.
type PresetRepository struct {
	db *sql.DB
}

// Presets returns the preset repository for this store.
func (s *Store) Presets() *PresetRepository {
	return &PresetRepository{db: s.db}
}

// Create inserts a new preset and its knob and pad rows.
func (r *PresetRepository) Create(p *Preset) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO presets (id, name, scale_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.ScaleName, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertChildren(tx, p); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID retrieves a preset and its layout by ID.
func (r *PresetRepository) GetByID(id string) (*Preset, error) {
	return r.get(`SELECT id, name, scale_name, created_at, updated_at
		 FROM presets WHERE id = ?`, id)
}

// GetByName retrieves a preset and its layout by name.
func (r *PresetRepository) GetByName(name string) (*Preset, error) {
	return r.get(`SELECT id, name, scale_name, created_at, updated_at
		 FROM presets WHERE name = ?`, name)
}

func (r *PresetRepository) get(query, arg string) (*Preset, error) {
	p := &Preset{}

	err := r.db.QueryRow(query, arg).Scan(
		&p.ID, &p.Name, &p.ScaleName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := r.loadChildren(p); err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves all presets with their layouts.
func (r *PresetRepository) List() ([]*Preset, error) {
	rows, err := r.db.Query(
		`SELECT id, name, scale_name, created_at, updated_at
		 FROM presets ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []*Preset
	for rows.Next() {
		p := &Preset{}
		err := rows.Scan(&p.ID, &p.Name, &p.ScaleName, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range presets {
		if err := r.loadChildren(p); err != nil {
			return nil, err
		}
	}

	return presets, nil
}

// Update rewrites a preset's fields and replaces its knob and pad rows.
func (r *PresetRepository) Update(p *Preset) error {
	p.UpdatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE presets SET name = ?, scale_name = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.ScaleName, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM preset_knobs WHERE preset_id = ?`, p.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM preset_pads WHERE preset_id = ?`, p.ID); err != nil {
		return err
	}
	if err := insertChildren(tx, p); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a preset and its layout rows by ID.
func (r *PresetRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func insertChildren(tx *sql.Tx, p *Preset) error {
	for _, k := range p.Knobs {
		_, err := tx.Exec(
			`INSERT INTO preset_knobs (preset_id, knob_id, label, x, y, radius, param, param_min, param_max, value)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, k.KnobID, k.Label, k.X, k.Y, k.Radius, k.Param, k.ParamMin, k.ParamMax, k.Value,
		)
		if err != nil {
			return err
		}
	}

	for _, pad := range p.Pads {
		_, err := tx.Exec(
			`INSERT INTO preset_pads (preset_id, pad_id, label, x, y, radius, finger, sound)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, pad.PadID, pad.Label, pad.X, pad.Y, pad.Radius, pad.Finger, pad.Sound,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *PresetRepository) loadChildren(p *Preset) error {
	rows, err := r.db.Query(
		`SELECT knob_id, label, x, y, radius, param, param_min, param_max, value
		 FROM preset_knobs WHERE preset_id = ? ORDER BY id`,
		p.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var k PresetKnob
		err := rows.Scan(&k.KnobID, &k.Label, &k.X, &k.Y, &k.Radius,
			&k.Param, &k.ParamMin, &k.ParamMax, &k.Value)
		if err != nil {
			return err
		}
		p.Knobs = append(p.Knobs, k)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	padRows, err := r.db.Query(
		`SELECT pad_id, label, x, y, radius, finger, sound
		 FROM preset_pads WHERE preset_id = ? ORDER BY id`,
		p.ID,
	)
	if err != nil {
		return err
	}
	defer padRows.Close()

	for padRows.Next() {
		var pad PresetPad
		err := padRows.Scan(&pad.PadID, &pad.Label, &pad.X, &pad.Y,
			&pad.Radius, &pad.Finger, &pad.Sound)
		if err != nil {
			return err
		}
		p.Pads = append(p.Pads, pad)
	}
	return padRows.Err()
}
