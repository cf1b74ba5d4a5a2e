package store

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/danielpatrickdp/rl-optimizer/internal/action"
	"github.com/danielpatrickdp/rl-optimizer/internal/experience"
	"github.com/danielpatrickdp/rl-optimizer/internal/policy"
	_ "modernc.org/sqlite"
)

// #endregion imports

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS qtable_meta (
	id              INTEGER PRIMARY KEY CHECK (id = 1),
	version         INTEGER NOT NULL,
	updated_at      TEXT NOT NULL,
	hyperparams_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS qtable_entries (
	position   INTEGER NOT NULL,
	state_key  TEXT NOT NULL,
	action     TEXT NOT NULL,
	value      REAL NOT NULL,
	PRIMARY KEY (state_key, action)
);
CREATE INDEX IF NOT EXISTS idx_qtable_position ON qtable_entries(position);

CREATE TABLE IF NOT EXISTS experiences (
	position       INTEGER PRIMARY KEY,
	id             TEXT NOT NULL,
	state_key      TEXT NOT NULL,
	action         TEXT NOT NULL,
	reward         REAL NOT NULL,
	next_state_key TEXT NOT NULL,
	terminal       INTEGER NOT NULL,
	timestamp      TEXT NOT NULL,
	objective_hash TEXT NOT NULL,
	applicable     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS session_log (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id       TEXT NOT NULL,
	iteration        INTEGER NOT NULL,
	action           TEXT NOT NULL,
	state_key_prefix TEXT NOT NULL,
	passed           INTEGER NOT NULL,
	feedback_code    TEXT,
	semantics_match  INTEGER NOT NULL,
	semantic_issues  TEXT,
	reward_total     REAL NOT NULL,
	converged        INTEGER NOT NULL,
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_session_log_session ON session_log(session_id);
`

// SnapshotVersion is written into qtable_meta. Bump on layout changes.
const SnapshotVersion = 1

// #endregion schema

// #region store-struct
// Store persists Q-table and experience snapshots in SQLite. Both snapshots
// are rewritten wholesale on every save; concurrent sessions are
// last-writer-wins.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	// Databases created before the applicable column existed lack it; the
	// duplicate-column error on newer databases is expected.
	db.Exec(`ALTER TABLE experiences ADD COLUMN applicable TEXT NOT NULL DEFAULT ''`)
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region qtable-save
// SaveQTable rewrites the Q-table snapshot: meta row plus one row per
// (state, action) pair, positions preserving insertion order for eviction.
func (s *Store) SaveQTable(entries []policy.StateEntry, hp policy.Hyperparams) error {
	hpJSON, err := json.Marshal(hp)
	if err != nil {
		return fmt.Errorf("marshal hyperparams: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO qtable_meta (id, version, updated_at, hyperparams_json) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET version = excluded.version,
		 updated_at = excluded.updated_at, hyperparams_json = excluded.hyperparams_json`,
		SnapshotVersion, time.Now().UTC().Format(time.RFC3339Nano), string(hpJSON),
	)
	if err != nil {
		return fmt.Errorf("upsert meta: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM qtable_entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO qtable_entries (position, state_key, action, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for pos, entry := range entries {
		for act, val := range entry.Values {
			if _, err := stmt.Exec(pos, entry.Key, string(act), val); err != nil {
				return fmt.Errorf("insert entry: %w", err)
			}
		}
	}

	return tx.Commit()
}

// #endregion qtable-save

// #region qtable-load
// LoadQTable reads the persisted snapshot. Returns (nil, nil, nil) when no
// snapshot has been saved yet.
func (s *Store) LoadQTable() ([]policy.StateEntry, *policy.Hyperparams, error) {
	var version int
	var updatedAt, hpJSON string
	err := s.db.QueryRow(`SELECT version, updated_at, hyperparams_json FROM qtable_meta WHERE id = 1`).
		Scan(&version, &updatedAt, &hpJSON)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load meta: %w", err)
	}

	var hp policy.Hyperparams
	if err := json.Unmarshal([]byte(hpJSON), &hp); err != nil {
		return nil, nil, fmt.Errorf("unmarshal hyperparams: %w", err)
	}

	rows, err := s.db.Query(`SELECT position, state_key, action, value FROM qtable_entries ORDER BY position ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	var entries []policy.StateEntry
	index := make(map[string]int)
	for rows.Next() {
		var pos int
		var key, act string
		var val float64
		if err := rows.Scan(&pos, &key, &act, &val); err != nil {
			return nil, nil, fmt.Errorf("scan entry: %w", err)
		}
		i, ok := index[key]
		if !ok {
			entries = append(entries, policy.StateEntry{Key: key, Values: make(map[action.Action]float64)})
			i = len(entries) - 1
			index[key] = i
		}
		entries[i].Values[action.Action(act)] = val
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, &hp, nil
}

// #endregion qtable-load

// #region experience-save
// SaveExperiences rewrites the experience snapshot as an ordered array.
func (s *Store) SaveExperiences(items []experience.Experience) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM experiences`); err != nil {
		return fmt.Errorf("clear experiences: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO experiences (position, id, state_key, action, reward, next_state_key, terminal, timestamp, objective_hash, applicable)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for pos, e := range items {
		terminal := 0
		if e.Terminal {
			terminal = 1
		}
		_, err := stmt.Exec(pos, e.ID, e.StateKey, string(e.Action), e.Reward,
			e.NextStateKey, terminal, e.Timestamp.Format(time.RFC3339Nano), e.ObjectiveHash,
			joinActions(e.Applicable))
		if err != nil {
			return fmt.Errorf("insert experience: %w", err)
		}
	}

	return tx.Commit()
}

// #endregion experience-save

// #region experience-load
// LoadExperiences reads the persisted experience snapshot in original order.
func (s *Store) LoadExperiences() ([]experience.Experience, error) {
	rows, err := s.db.Query(
		`SELECT id, state_key, action, reward, next_state_key, terminal, timestamp, objective_hash, applicable
		 FROM experiences ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load experiences: %w", err)
	}
	defer rows.Close()

	var items []experience.Experience
	for rows.Next() {
		var e experience.Experience
		var act, ts, applicable string
		var terminal int
		if err := rows.Scan(&e.ID, &e.StateKey, &act, &e.Reward, &e.NextStateKey, &terminal, &ts, &e.ObjectiveHash, &applicable); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		e.Action = action.Action(act)
		e.Terminal = terminal != 0
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		e.Applicable = splitActions(applicable)
		items = append(items, e)
	}
	return items, rows.Err()
}

func joinActions(actions []action.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, ",")
}

func splitActions(s string) []action.Action {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]action.Action, len(parts))
	for i, p := range parts {
		out[i] = action.Action(p)
	}
	return out
}

// #endregion experience-load
