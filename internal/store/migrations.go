package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Presets table - named instrument configurations
		`CREATE TABLE IF NOT EXISTS presets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			scale_name TEXT NOT NULL DEFAULT 'pentatonic',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Preset knobs table - knob layout and stored values per preset
		`CREATE TABLE IF NOT EXISTS preset_knobs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			preset_id TEXT NOT NULL REFERENCES presets(id) ON DELETE CASCADE,
			knob_id TEXT NOT NULL,
			label TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			radius REAL NOT NULL,
			param TEXT NOT NULL,
			param_min REAL NOT NULL,
			param_max REAL NOT NULL,
			value REAL NOT NULL DEFAULT 0
		)`,

		// Preset pads table - pad layout per preset
		`CREATE TABLE IF NOT EXISTS preset_pads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			preset_id TEXT NOT NULL REFERENCES presets(id) ON DELETE CASCADE,
			pad_id TEXT NOT NULL,
			label TEXT NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			radius REAL NOT NULL,
			finger INTEGER NOT NULL,
			sound TEXT NOT NULL
		)`,

		// Scales table - user-defined pitch quantization scales
		`CREATE TABLE IF NOT EXISTS scales (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			root_hz REAL NOT NULL DEFAULT 220,
			intervals TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_preset_knobs_preset_id ON preset_knobs(preset_id)`,
		`CREATE INDEX IF NOT EXISTS idx_preset_pads_preset_id ON preset_pads(preset_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
