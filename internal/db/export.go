package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExportDocument is the downloadable snapshot of everything the store holds:
// one entry per fileKey plus all saved sessions.
type ExportDocument struct {
	ExportID   string                     `json:"export_id"`
	ExportedAt time.Time                  `json:"exported_at"`
	Progress   map[string]Progress        `json:"progress"`
	Sessions   map[string]SessionSnapshot `json:"sessions"`
}

// Export serializes all progress records and sessions.
func Export() (*ExportDocument, error) {
	progress, err := GetAllProgress()
	if err != nil {
		return nil, err
	}

	doc := &ExportDocument{
		ExportID:   uuid.New().String(),
		ExportedAt: time.Now().UTC(),
		Progress:   progress,
		Sessions:   make(map[string]SessionSnapshot),
	}

	var rows []struct {
		Name         string    `db:"session_name"`
		ProgressData string    `db:"progress_data"`
		StatsData    *string   `db:"stats_data"`
		CreatedAt    time.Time `db:"created_at"`
	}
	if err := DB.Select(&rows, `SELECT session_name, progress_data, stats_data, created_at FROM sessions`); err != nil {
		return nil, fmt.Errorf("export sessions: %w", err)
	}
	for _, row := range rows {
		snapshot := SessionSnapshot{CreatedAt: row.CreatedAt}
		if err := json.Unmarshal([]byte(row.ProgressData), &snapshot.ProgressData); err != nil {
			// A corrupt session should not sink the rest of the export.
			continue
		}
		if row.StatsData != nil {
			snapshot.Stats = json.RawMessage(*row.StatsData)
		}
		doc.Sessions[row.Name] = snapshot
	}
	return doc, nil
}

// Import writes an exported document back into the store. Progress entries go
// through the regular partial-update path, sessions are stored as-is.
func Import(doc *ExportDocument) error {
	for fileKey, p := range doc.Progress {
		update := ProgressUpdate{
			FileKey:       fileKey,
			Flag:          p.Flag,
			Comment:       &p.Comment,
			Resolved:      &p.Resolved,
			ResolvedDiffs: p.ResolvedDiffs,
		}
		if err := SaveProgress(update); err != nil {
			return fmt.Errorf("import progress for %s: %w", fileKey, err)
		}
	}
	for name, snapshot := range doc.Sessions {
		var stats interface{}
		if len(snapshot.Stats) > 0 {
			stats = snapshot.Stats
		}
		if err := SaveSession(name, snapshot.ProgressData, stats); err != nil {
			return fmt.Errorf("import session %s: %w", name, err)
		}
	}
	return nil
}
