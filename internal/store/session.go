package store

// #region imports
import (
	"fmt"
	"strings"
	"time"

	"github.com/danielpatrickdp/rl-optimizer/internal/optimizer"
)

// #endregion imports

// #region log-session
// LogSession appends the session trace to session_log, one row per iteration.
func (s *Store) LogSession(sessionID string, records []optimizer.IterationRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO session_log
		 (session_id, iteration, action, state_key_prefix, passed, feedback_code,
		  semantics_match, semantic_issues, reward_total, converged, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, r := range records {
		_, err := stmt.Exec(
			sessionID,
			r.Iteration,
			string(r.Action),
			r.StateKeyPrefix,
			boolInt(r.Passed),
			nullIfEmpty(r.FeedbackCode),
			boolInt(r.SemanticsMatch),
			nullIfEmpty(strings.Join(r.SemanticIssues, ",")),
			r.Reward.Total,
			boolInt(r.Converged),
			now,
		)
		if err != nil {
			return fmt.Errorf("insert session row: %w", err)
		}
	}
	return tx.Commit()
}

// #endregion log-session

// #region session-stats

// SessionStats summarizes the persisted traces of one session.
type SessionStats struct {
	SessionID  string
	Iterations int
	Converged  bool
	LastReward float64
}

// ListSessions returns per-session aggregates, newest first.
func (s *Store) ListSessions(limit int) ([]SessionStats, error) {
	rows, err := s.db.Query(
		`SELECT session_id, COUNT(*), MAX(converged),
		        (SELECT reward_total FROM session_log s2
		         WHERE s2.session_id = s1.session_id ORDER BY s2.id DESC LIMIT 1)
		 FROM session_log s1 GROUP BY session_id ORDER BY MAX(id) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionStats
	for rows.Next() {
		var st SessionStats
		var converged int
		if err := rows.Scan(&st.SessionID, &st.Iterations, &converged, &st.LastReward); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		st.Converged = converged != 0
		out = append(out, st)
	}
	return out, rows.Err()
}

// #endregion session-stats

// #region helpers
func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
