package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrSessionNotFound is returned when a named session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Session is one saved snapshot of all progress records.
type Session struct {
	Name      string    `db:"session_name" json:"session_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SessionSnapshot is the stored payload of a session.
type SessionSnapshot struct {
	ProgressData map[string]Progress `json:"progress_data"`
	Stats        json.RawMessage     `json:"stats,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// SaveSession stores a named snapshot of all current progress. Saving under
// an existing name overwrites it.
func SaveSession(name string, progress map[string]Progress, stats interface{}) error {
	progressJSON, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encode session progress: %w", err)
	}

	var statsJSON *string
	if stats != nil {
		encoded, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("encode session stats: %w", err)
		}
		s := string(encoded)
		statsJSON = &s
	}

	_, err = DB.Exec(`
		INSERT OR REPLACE INTO sessions (session_name, progress_data, stats_data, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
	`, name, string(progressJSON), statsJSON)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession reads a stored snapshot without applying it.
func LoadSession(name string) (*SessionSnapshot, error) {
	var row struct {
		ProgressData string    `db:"progress_data"`
		StatsData    *string   `db:"stats_data"`
		CreatedAt    time.Time `db:"created_at"`
	}
	err := DB.Get(&row, `SELECT progress_data, stats_data, created_at FROM sessions WHERE session_name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	snapshot := &SessionSnapshot{CreatedAt: row.CreatedAt}
	if err := json.Unmarshal([]byte(row.ProgressData), &snapshot.ProgressData); err != nil {
		return nil, fmt.Errorf("decode session progress: %w", err)
	}
	if row.StatsData != nil {
		snapshot.Stats = json.RawMessage(*row.StatsData)
	}
	return snapshot, nil
}

// RestoreSession loads a snapshot and replaces all current progress with it.
func RestoreSession(name string) (*SessionSnapshot, error) {
	snapshot, err := LoadSession(name)
	if err != nil {
		return nil, err
	}
	if err := ReplaceAllProgress(snapshot.ProgressData); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ListSessions returns all sessions, most recent first.
func ListSessions() ([]Session, error) {
	sessions := make([]Session, 0)
	err := DB.Select(&sessions, `SELECT session_name, created_at FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a named session.
func DeleteSession(name string) error {
	if _, err := DB.Exec(`DELETE FROM sessions WHERE session_name = $1`, name); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
