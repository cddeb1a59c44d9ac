// Package store is the sqlite-backed checkpoint store. Session state is
// persisted as one JSON snapshot per thread; the conversation log, API users
// and auth tokens live in their own tables.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/learnmate/learnmate/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		thread_id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		thread_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		action TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS app_metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// LoadSession returns the checkpointed state for a thread, or nil when the
// thread has never been saved.
func (s *Store) LoadSession(threadID string) (*model.SessionState, error) {
	var raw string
	err := s.db.QueryRow(`SELECT state FROM sessions WHERE thread_id = ?`, threadID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", threadID, err)
	}
	var state model.SessionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", threadID, err)
	}
	return &state, nil
}

// SaveSession upserts the full state snapshot for a thread.
func (s *Store) SaveSession(state *model.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", state.ThreadID, err)
	}
	now := time.Now()
	_, err = s.db.Exec(
		`INSERT INTO sessions (thread_id, state, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(thread_id) DO UPDATE SET state = ?, updated_at = ?`,
		state.ThreadID, string(raw), now, now, string(raw), now,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", state.ThreadID, err)
	}
	return nil
}

// ListThreadIDs returns all checkpointed thread ids, most recent first.
func (s *Store) ListThreadIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT thread_id FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AppendLog stores one conversation log row.
func (s *Store) AppendLog(msg model.LogMessage) error {
	created := msg.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO messages (thread_id, role, content, action, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ThreadID, msg.Role, msg.Content, msg.Action, created,
	)
	return err
}

// GetLog returns the conversation log for a thread in insertion order.
func (s *Store) GetLog(threadID string) ([]model.LogMessage, error) {
	rows, err := s.db.Query(
		`SELECT id, thread_id, role, content, action, created_at
		 FROM messages WHERE thread_id = ? ORDER BY id`, threadID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var msgs []model.LogMessage
	for rows.Next() {
		var m model.LogMessage
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.Role, &m.Content, &m.Action, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
