package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"aura/pkg/auratypes"
)

// SQLiteStore is the durable session store. The schema mirrors the hosted
// user_sessions table the service originally wrote to: one row per session,
// memory serialized as a JSON document.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the database at path and
// ensures the sessions table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// initialize creates the required table.
func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS user_sessions (
		session_id TEXT PRIMARY KEY,
		project_idea TEXT,
		research_data TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// Load returns the memory for sessionID, or an empty record if none exists.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (auratypes.SessionMemory, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT research_data FROM user_sessions WHERE session_id = ?`, sessionID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return auratypes.SessionMemory{}, nil
	}
	if err != nil {
		return auratypes.SessionMemory{}, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var mem auratypes.SessionMemory
	if err := json.Unmarshal([]byte(raw), &mem); err != nil {
		return auratypes.SessionMemory{}, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return mem, nil
}

// Save upserts the memory for sessionID.
func (s *SQLiteStore) Save(ctx context.Context, sessionID string, mem auratypes.SessionMemory) error {
	raw, err := json.Marshal(mem)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_sessions (session_id, project_idea, research_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			project_idea = excluded.project_idea,
			research_data = excluded.research_data,
			updated_at = excluded.updated_at`,
		sessionID, mem.Title, string(raw), now, now)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
