package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ai-interviewer/backend/internal/interview"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    session_id TEXT PRIMARY KEY,
    user_id TEXT,
    difficulty TEXT NOT NULL,
    history TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_owner ON sessions(user_id, created_at);
`

// SQLiteStore persists sessions in a single SQLite table, history as a
// JSON blob decoded through the tagged entry type at this boundary.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens (creating if needed) the database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateSession(ctx context.Context, sess *interview.Session) error {
	historyJSON, err := json.Marshal(sess.History)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO sessions (session_id, user_id, difficulty, history, created_at) VALUES (?, ?, ?, ?, ?)",
		sess.ID, sess.OwnerID, string(sess.Difficulty), string(historyJSON),
		sess.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*interview.Session, error) {
	var (
		sess       interview.Session
		difficulty string
		historyStr string
		createdAt  string
		ownerID    sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT session_id, user_id, difficulty, history, created_at FROM sessions WHERE session_id = ?",
		id,
	).Scan(&sess.ID, &ownerID, &difficulty, &historyStr, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sess.OwnerID = ownerID.String
	sess.Difficulty = interview.Level(difficulty)
	sess.History = parseHistory(historyStr)
	sess.CreatedAt = parseCreatedAt(createdAt)
	return &sess, nil
}

func (s *SQLiteStore) UpdateSession(ctx context.Context, id string, difficulty interview.Level, history []interview.Entry) error {
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET difficulty = ?, history = ? WHERE session_id = ?",
		string(difficulty), string(historyJSON), id,
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
	return nil
}

func (s *SQLiteStore) ListSessionsByOwner(ctx context.Context, ownerID string) ([]*interview.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT session_id, difficulty, history, created_at FROM sessions WHERE user_id = ? ORDER BY created_at DESC",
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*interview.Session
	for rows.Next() {
		var (
			sess       interview.Session
			difficulty string
			historyStr string
			createdAt  string
		)
		if err := rows.Scan(&sess.ID, &difficulty, &historyStr, &createdAt); err != nil {
			return nil, err
		}

		var history []interview.Entry
		if err := json.Unmarshal([]byte(historyStr), &history); err != nil {
			// Corrupt rows are skipped, not surfaced.
			continue
		}

		sess.OwnerID = ownerID
		sess.Difficulty = interview.Level(difficulty)
		sess.History = history
		sess.CreatedAt = parseCreatedAt(createdAt)
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE created_at < ?",
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// parseHistory decodes a stored history blob, degrading to an empty
// history when the blob is corrupt.
func parseHistory(raw string) []interview.Entry {
	var history []interview.Entry
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil
	}
	return history
}

func parseCreatedAt(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
