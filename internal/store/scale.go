package store

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Scale represents a pitch quantization scale stored in the database.
// Intervals are semitone offsets from the root within one octave.
type Scale struct {
	ID        string
	Name      string
	RootHz    float64
	Intervals []int
	CreatedAt time.Time
}

// ScaleRepository provides CRUD operations for scales.
type ScaleRepository struct {
	db *sql.DB
}

// Scales returns the scale repository for this store.
func (s *Store) Scales() *ScaleRepository {
	return &ScaleRepository{db: s.db}
}

// Create inserts a new scale into the database.
func (r *ScaleRepository) Create(sc *Scale) error {
	sc.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO scales (id, name, root_hz, intervals, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sc.ID, sc.Name, sc.RootHz, encodeIntervals(sc.Intervals), sc.CreatedAt,
	)
	return err
}

// GetByName retrieves a scale by its name.
func (r *ScaleRepository) GetByName(name string) (*Scale, error) {
	sc := &Scale{}
	var intervals string

	err := r.db.QueryRow(
		`SELECT id, name, root_hz, intervals, created_at
		 FROM scales WHERE name = ?`,
		name,
	).Scan(&sc.ID, &sc.Name, &sc.RootHz, &intervals, &sc.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sc.Intervals, err = decodeIntervals(intervals)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// List retrieves all scales from the database.
func (r *ScaleRepository) List() ([]*Scale, error) {
	rows, err := r.db.Query(
		`SELECT id, name, root_hz, intervals, created_at
		 FROM scales ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scales []*Scale
	for rows.Next() {
		sc := &Scale{}
		var intervals string

		err := rows.Scan(&sc.ID, &sc.Name, &sc.RootHz, &intervals, &sc.CreatedAt)
		if err != nil {
			return nil, err
		}

		sc.Intervals, err = decodeIntervals(intervals)
		if err != nil {
			return nil, err
		}
		scales = append(scales, sc)
	}

	return scales, rows.Err()
}

// Delete removes a scale from the database by its ID.
func (r *ScaleRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM scales WHERE id = ?`, id)
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

// encodeIntervals packs intervals as a comma-separated string.
func encodeIntervals(intervals []int) string {
	parts := make([]string, len(intervals))
	for i, v := range intervals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func decodeIntervals(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	intervals := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, v)
	}
	return intervals, nil
}
