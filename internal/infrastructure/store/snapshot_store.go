// Package store provides SQLite persistence for trained category sets. The
// engines never touch disk themselves; they exchange Snapshot values with
// this collaborator.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// Config configures the snapshot store.
type Config struct {
	// DBPath is the SQLite database path; ":memory:" for ephemeral stores.
	DBPath string `json:"dbPath" yaml:"dbPath"`

	// MaxSnapshots bounds retained snapshots per module; Prune enforces it.
	MaxSnapshots int `json:"maxSnapshots" yaml:"maxSnapshots"`
}

// DefaultConfig returns an in-memory store configuration.
func DefaultConfig() Config {
	return Config{DBPath: ":memory:", MaxSnapshots: 32}
}

// Validate checks the store configuration.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: empty dbPath", domainART.ErrInvalidArgument)
	}
	if c.MaxSnapshots <= 0 {
		return fmt.Errorf("%w: maxSnapshots must be positive, got %d", domainART.ErrInvalidArgument, c.MaxSnapshots)
	}
	return nil
}

// Record describes one stored snapshot.
type Record struct {
	ID         string    `json:"id"`
	ModuleID   string    `json:"moduleId"`
	CreatedAt  time.Time `json:"createdAt"`
	Dimension  int       `json:"dimension"`
	Vigilance  float64   `json:"vigilance"`
	Categories int       `json:"categories"`
}

// SnapshotStore persists category-set snapshots in SQLite.
type SnapshotStore struct {
	mu     sync.Mutex
	db     *sql.DB
	config Config
	closed bool
}

// New opens (or creates) the store and initializes its schema.
func New(config Config) (*SnapshotStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SnapshotStore{db: db, config: config}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// initSchema creates the snapshot table.
func (s *SnapshotStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			module_id TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			dimension INTEGER NOT NULL,
			vigilance REAL NOT NULL,
			categories_json TEXT NOT NULL,
			map_field_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_snapshots_module
			ON snapshots(module_id, created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save persists a snapshot and returns its generated id.
func (s *SnapshotStore) Save(snap domainART.Snapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", fmt.Errorf("%w: store closed", domainART.ErrIllegalState)
	}

	categoriesJSON, err := json.Marshal(snap.Categories)
	if err != nil {
		return "", fmt.Errorf("failed to encode categories: %w", err)
	}
	var mapFieldJSON []byte
	if snap.MapField != nil {
		mapFieldJSON, err = json.Marshal(snap.MapField)
		if err != nil {
			return "", fmt.Errorf("failed to encode map field: %w", err)
		}
	}

	id := uuid.New().String()
	_, err = s.db.Exec(
		`INSERT INTO snapshots (id, module_id, created_at, dimension, vigilance, categories_json, map_field_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, snap.ModuleID, time.Now().UnixMilli(), snap.Dimension, snap.Vigilance,
		string(categoriesJSON), nullableString(mapFieldJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return id, nil
}

// Load reads one snapshot by id.
func (s *SnapshotStore) Load(id string) (domainART.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domainART.Snapshot{}, fmt.Errorf("%w: store closed", domainART.ErrIllegalState)
	}

	row := s.db.QueryRow(
		`SELECT module_id, dimension, vigilance, categories_json, map_field_json
		 FROM snapshots WHERE id = ?`, id,
	)

	var snap domainART.Snapshot
	var categoriesJSON string
	var mapFieldJSON sql.NullString
	if err := row.Scan(&snap.ModuleID, &snap.Dimension, &snap.Vigilance, &categoriesJSON, &mapFieldJSON); err != nil {
		if err == sql.ErrNoRows {
			return domainART.Snapshot{}, fmt.Errorf("%w: snapshot %s not found", domainART.ErrInvalidArgument, id)
		}
		return domainART.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(categoriesJSON), &snap.Categories); err != nil {
		return domainART.Snapshot{}, fmt.Errorf("failed to decode categories: %w", err)
	}
	if mapFieldJSON.Valid && mapFieldJSON.String != "" {
		if err := json.Unmarshal([]byte(mapFieldJSON.String), &snap.MapField); err != nil {
			return domainART.Snapshot{}, fmt.Errorf("failed to decode map field: %w", err)
		}
	}
	return snap, nil
}

// List returns snapshot records for a module, newest first. An empty
// moduleID lists everything.
func (s *SnapshotStore) List(moduleID string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("%w: store closed", domainART.ErrIllegalState)
	}

	query := `SELECT id, module_id, created_at, dimension, vigilance, categories_json
		 FROM snapshots`
	args := []interface{}{}
	if moduleID != "" {
		query += ` WHERE module_id = ?`
		args = append(args, moduleID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var createdAt int64
		var categoriesJSON string
		if err := rows.Scan(&r.ID, &r.ModuleID, &createdAt, &r.Dimension, &r.Vigilance, &categoriesJSON); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		r.CreatedAt = time.UnixMilli(createdAt)
		var cats []domainART.CategorySnapshot
		if err := json.Unmarshal([]byte(categoriesJSON), &cats); err == nil {
			r.Categories = len(cats)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Prune keeps the newest MaxSnapshots per module and deletes the rest,
// returning the number of deleted rows.
func (s *SnapshotStore) Prune() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, fmt.Errorf("%w: store closed", domainART.ErrIllegalState)
	}

	res, err := s.db.Exec(`
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY module_id ORDER BY created_at DESC
				) AS rn FROM snapshots
			) WHERE rn <= ?
		)`, s.config.MaxSnapshots)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// nullableString maps empty JSON to NULL.
func nullableString(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
