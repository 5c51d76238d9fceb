// Package store persists the engine's durable records in SQLite: versioned
// affect snapshots with an active pointer, the sensitivity bank, rolling
// averages, and the weight-adjustment audit log. Everything round-trips
// exactly; the engine itself never touches I/O.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/solien-labs/affective-state/internal/affect"
	"github.com/solien-labs/affective-state/internal/stimulus"
	"github.com/solien-labs/affective-state/internal/thresholds"
	"github.com/solien-labs/affective-state/internal/weights"
)

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS affect_snapshots (
	version_id  TEXT PRIMARY KEY,
	parent_id   TEXT,
	dominant    TEXT NOT NULL,
	state_json  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES affect_snapshots(version_id)
);

CREATE TABLE IF NOT EXISTS active_affect (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	version_id  TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES affect_snapshots(version_id)
);

CREATE TABLE IF NOT EXISTS sensitivity_bank (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	bank_json   TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rolling_averages (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	rolling_json TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS weight_audit (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	category    TEXT NOT NULL,
	before      REAL NOT NULL,
	after       REAL NOT NULL,
	reason      TEXT,
	created_at  TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct

// DefaultHistoryDepth bounds how many snapshots survive trimming.
const DefaultHistoryDepth = 72

// Store manages the engine's records in SQLite.
type Store struct {
	db           *sql.DB
	historyDepth int
}

// NewStore opens a SQLite database, runs migrations, and returns a store.
func NewStore(dbPath string, historyDepth int) (*Store, error) {
	if historyDepth <= 0 {
		historyDepth = DefaultHistoryDepth
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, historyDepth: historyDepth}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for inspection tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store-struct

// #region affect-state

// EnsureInitialState creates and activates a resting snapshot when no active
// state exists, and returns the current state either way.
func (s *Store) EnsureInitialState(now time.Time) (affect.State, error) {
	cur, err := s.CurrentState()
	if err == nil {
		return cur, nil
	}
	initial := affect.NewRestingState(now)
	if err := s.CommitState(initial, now); err != nil {
		return affect.State{}, fmt.Errorf("create initial state: %w", err)
	}
	return initial, nil
}

// CurrentState reads the active affect snapshot.
func (s *Store) CurrentState() (affect.State, error) {
	var versionID string
	err := s.db.QueryRow(`SELECT version_id FROM active_affect WHERE id = 1`).Scan(&versionID)
	if err != nil {
		return affect.State{}, fmt.Errorf("get active snapshot: %w", err)
	}

	var stateJSON string
	err = s.db.QueryRow(
		`SELECT state_json FROM affect_snapshots WHERE version_id = ?`, versionID,
	).Scan(&stateJSON)
	if err != nil {
		return affect.State{}, fmt.Errorf("get snapshot %s: %w", versionID, err)
	}
	return decodeState(stateJSON)
}

// CommitState inserts a new snapshot as a child of the active one, moves the
// active pointer, and trims history past the configured depth.
func (s *Store) CommitState(st affect.State, now time.Time) error {
	stateJSON, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var parentPtr interface{}
	var parentID string
	if err := tx.QueryRow(`SELECT version_id FROM active_affect WHERE id = 1`).Scan(&parentID); err == nil {
		parentPtr = parentID
	}

	id := uuid.New().String()
	_, err = tx.Exec(
		`INSERT INTO affect_snapshots (version_id, parent_id, dominant, state_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, parentPtr, string(st.Dominant), string(stateJSON), now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_affect (id, version_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version_id = excluded.version_id`,
		id,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	// Trim: orphan then delete everything past the history depth. Parent
	// links of survivors pointing at trimmed rows are nulled first so the
	// foreign key holds.
	_, err = tx.Exec(
		`UPDATE affect_snapshots SET parent_id = NULL WHERE parent_id IN (
			SELECT version_id FROM affect_snapshots
			ORDER BY created_at DESC, rowid DESC
			LIMIT -1 OFFSET ?
		)`, s.historyDepth,
	)
	if err != nil {
		return fmt.Errorf("unlink trimmed snapshots: %w", err)
	}
	_, err = tx.Exec(
		`DELETE FROM affect_snapshots WHERE version_id IN (
			SELECT version_id FROM affect_snapshots
			ORDER BY created_at DESC, rowid DESC
			LIMIT -1 OFFSET ?
		)`, s.historyDepth,
	)
	if err != nil {
		return fmt.Errorf("trim snapshots: %w", err)
	}

	return tx.Commit()
}

// ListStates returns the most recent snapshots, newest first.
func (s *Store) ListStates(limit int) ([]affect.State, error) {
	rows, err := s.db.Query(
		`SELECT state_json FROM affect_snapshots
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var states []affect.State
	for rows.Next() {
		var stateJSON string
		if err := rows.Scan(&stateJSON); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		st, err := decodeState(stateJSON)
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

func decodeState(stateJSON string) (affect.State, error) {
	var st affect.State
	if err := json.Unmarshal([]byte(stateJSON), &st); err != nil {
		return affect.State{}, fmt.Errorf("unmarshal state: %w", err)
	}
	st.Emotions = st.Emotions.Clone()
	return st, nil
}

// #endregion affect-state

// #region bank

// LoadBank reads the sensitivity bank, creating a neutral one on first use.
func (s *Store) LoadBank(now time.Time) (weights.Bank, error) {
	var bankJSON string
	err := s.db.QueryRow(`SELECT bank_json FROM sensitivity_bank WHERE id = 1`).Scan(&bankJSON)
	if err == sql.ErrNoRows {
		b := weights.NewBank(now)
		if err := s.SaveBank(b); err != nil {
			return weights.Bank{}, err
		}
		return b, nil
	}
	if err != nil {
		return weights.Bank{}, fmt.Errorf("get bank: %w", err)
	}

	var b weights.Bank
	if err := json.Unmarshal([]byte(bankJSON), &b); err != nil {
		return weights.Bank{}, fmt.Errorf("unmarshal bank: %w", err)
	}
	return b, nil
}

// SaveBank upserts the sensitivity bank row.
func (s *Store) SaveBank(b weights.Bank) error {
	bankJSON, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO sensitivity_bank (id, bank_json, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET bank_json = excluded.bank_json, updated_at = excluded.updated_at`,
		string(bankJSON), b.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save bank: %w", err)
	}
	return nil
}

// #endregion bank

// #region rolling

// LoadRolling reads the rolling averages, empty on first use.
func (s *Store) LoadRolling() (thresholds.Rolling, error) {
	var rollingJSON string
	err := s.db.QueryRow(`SELECT rolling_json FROM rolling_averages WHERE id = 1`).Scan(&rollingJSON)
	if err == sql.ErrNoRows {
		return thresholds.NewRolling(), nil
	}
	if err != nil {
		return thresholds.Rolling{}, fmt.Errorf("get rolling averages: %w", err)
	}

	var r thresholds.Rolling
	if err := json.Unmarshal([]byte(rollingJSON), &r); err != nil {
		return thresholds.Rolling{}, fmt.Errorf("unmarshal rolling averages: %w", err)
	}
	if r.Averages == nil {
		r.Averages = make(map[thresholds.Metric]thresholds.Average)
	}
	return r, nil
}

// SaveRolling upserts the rolling averages row.
func (s *Store) SaveRolling(r thresholds.Rolling) error {
	rollingJSON, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal rolling averages: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO rolling_averages (id, rolling_json, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET rolling_json = excluded.rolling_json, updated_at = excluded.updated_at`,
		string(rollingJSON), r.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save rolling averages: %w", err)
	}
	return nil
}

// #endregion rolling

// #region audit

// LogWeightAudit appends applied-adjustment entries to the audit log.
func (s *Store) LogWeightAudit(entries []weights.AuditEntry) error {
	for _, e := range entries {
		_, err := s.db.Exec(
			`INSERT INTO weight_audit (category, before, after, reason, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			string(e.Category), e.Before, e.After, nullIfEmpty(e.Reason),
			e.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("log weight audit: %w", err)
		}
	}
	return nil
}

// ListWeightAudit returns the most recent audit entries, newest first.
func (s *Store) ListWeightAudit(limit int) ([]weights.AuditEntry, error) {
	rows, err := s.db.Query(
		`SELECT category, before, after, COALESCE(reason, ''), created_at
		 FROM weight_audit ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list weight audit: %w", err)
	}
	defer rows.Close()

	var entries []weights.AuditEntry
	for rows.Next() {
		var e weights.AuditEntry
		var category, createdStr string
		if err := rows.Scan(&category, &e.Before, &e.After, &e.Reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Category = stimulus.Category(category)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion audit

// #region helpers

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
