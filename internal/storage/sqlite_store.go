package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cucharita-app/cucharita/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists the aggregate in normalized tables, written in a
// single transaction per Save. Selected when the config path ends in .db.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Path() string { return s.path }

const schema = `
CREATE TABLE IF NOT EXISTS state_meta (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	version INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS baby_profile (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	birth_date TEXT NOT NULL DEFAULT '',
	gestation_weeks INTEGER,
	due_date TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS milestones (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	seated INTEGER NOT NULL,
	no_extrusion INTEGER NOT NULL,
	interest_in_food INTEGER NOT NULL,
	hand_to_mouth INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS allergen_status (
	allergen TEXT PRIMARY KEY,
	status TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS diary_entries (
	position INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	date TEXT NOT NULL,
	food_id TEXT NOT NULL,
	quantity TEXT NOT NULL,
	texture TEXT NOT NULL,
	reaction TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

func (s *SQLiteStore) open() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	s.db = db
	return db, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// corrupt copies the database file to a timestamped sidecar so a schema
// mismatch never silently destroys data, then reports the failure.
func (s *SQLiteStore) corrupt(cause error) error {
	preserved := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
	data, err := os.ReadFile(s.path)
	if err != nil {
		preserved = ""
	} else if err := os.WriteFile(preserved, data, 0600); err != nil {
		preserved = ""
	}
	return &CorruptError{Path: s.path, Preserved: preserved, Err: cause}
}

func (s *SQLiteStore) Load() (*models.StoreState, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}

	state := &models.StoreState{}
	var createdAt, updatedAt string
	err = db.QueryRow("SELECT version, created_at, updated_at FROM state_meta WHERE id = 1").
		Scan(&state.Version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state meta: %w", err)
	}
	if state.Version != models.CurrentVersion {
		return nil, s.corrupt(fmt.Errorf("unsupported state version %d (want %d)", state.Version, models.CurrentVersion))
	}
	if state.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, s.corrupt(fmt.Errorf("invalid created_at: %w", err))
	}
	if state.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, s.corrupt(fmt.Errorf("invalid updated_at: %w", err))
	}

	var gestation sql.NullInt64
	err = db.QueryRow("SELECT birth_date, gestation_weeks, due_date FROM baby_profile WHERE id = 1").
		Scan(&state.BabyProfile.BirthDate, &gestation, &state.BabyProfile.DueDate)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if gestation.Valid {
		gw := int(gestation.Int64)
		state.BabyProfile.GestationWeeks = &gw
	}

	err = db.QueryRow("SELECT seated, no_extrusion, interest_in_food, hand_to_mouth FROM milestones WHERE id = 1").
		Scan(&state.Milestones.Seated, &state.Milestones.NoExtrusion, &state.Milestones.InterestInFood, &state.Milestones.HandToMouth)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read milestones: %w", err)
	}

	state.Allergens.Statuses = map[models.Allergen]models.AllergenStatus{}
	rows, err := db.Query("SELECT allergen, status FROM allergen_status")
	if err != nil {
		return nil, fmt.Errorf("failed to read allergen statuses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var allergen, status string
		if err := rows.Scan(&allergen, &status); err != nil {
			return nil, fmt.Errorf("failed to scan allergen status: %w", err)
		}
		state.Allergens.Statuses[models.Allergen(allergen)] = models.AllergenStatus(status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read allergen statuses: %w", err)
	}

	entries, err := s.loadEntries(db)
	if err != nil {
		return nil, err
	}
	state.Diary.Entries = entries
	state.Normalize()
	return state, nil
}

func (s *SQLiteStore) loadEntries(db *sql.DB) ([]models.DiaryEntry, error) {
	rows, err := db.Query(`SELECT id, date, food_id, quantity, texture, reaction, notes, created_at, updated_at
		FROM diary_entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to read diary entries: %w", err)
	}
	defer rows.Close()

	entries := []models.DiaryEntry{}
	for rows.Next() {
		var e models.DiaryEntry
		var createdAt, updatedAt string
		if err := rows.Scan(&e.ID, &e.Date, &e.FoodID, &e.Quantity, &e.Texture, &e.Reaction, &e.Notes, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan diary entry: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, s.corrupt(fmt.Errorf("entry %s has invalid created_at: %w", e.ID, err))
		}
		if e.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, s.corrupt(fmt.Errorf("entry %s has invalid updated_at: %w", e.ID, err))
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read diary entries: %w", err)
	}
	return entries, nil
}

// LoadLegacy always reports no legacy data: the bare-array format only
// ever existed as a JSON document.
func (s *SQLiteStore) LoadLegacy() ([]models.DiaryEntry, bool, error) {
	return nil, false, nil
}

func (s *SQLiteStore) Save(state models.StoreState) error {
	db, err := s.open()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"state_meta", "baby_profile", "milestones", "allergen_status", "diary_entries"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	_, err = tx.Exec("INSERT INTO state_meta (id, version, created_at, updated_at) VALUES (1, ?, ?, ?)",
		state.Version, state.CreatedAt.Format(time.RFC3339), state.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write state meta: %w", err)
	}

	var gestation sql.NullInt64
	if state.BabyProfile.GestationWeeks != nil {
		gestation = sql.NullInt64{Int64: int64(*state.BabyProfile.GestationWeeks), Valid: true}
	}
	_, err = tx.Exec("INSERT INTO baby_profile (id, birth_date, gestation_weeks, due_date) VALUES (1, ?, ?, ?)",
		state.BabyProfile.BirthDate, gestation, state.BabyProfile.DueDate)
	if err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	_, err = tx.Exec("INSERT INTO milestones (id, seated, no_extrusion, interest_in_food, hand_to_mouth) VALUES (1, ?, ?, ?, ?)",
		state.Milestones.Seated, state.Milestones.NoExtrusion, state.Milestones.InterestInFood, state.Milestones.HandToMouth)
	if err != nil {
		return fmt.Errorf("failed to write milestones: %w", err)
	}

	for allergen, status := range state.Allergens.Statuses {
		if _, err := tx.Exec("INSERT INTO allergen_status (allergen, status) VALUES (?, ?)", string(allergen), string(status)); err != nil {
			return fmt.Errorf("failed to write allergen status: %w", err)
		}
	}

	for _, e := range state.Diary.Entries {
		_, err := tx.Exec(`INSERT INTO diary_entries (id, date, food_id, quantity, texture, reaction, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Date, e.FoodID, string(e.Quantity), string(e.Texture), string(e.Reaction), e.Notes,
			e.CreatedAt.Format(time.RFC3339), e.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to write diary entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Reset() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	for _, table := range []string{"state_meta", "baby_profile", "milestones", "allergen_status", "diary_entries"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}
