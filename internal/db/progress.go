package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Progress is the persisted review state for one fileKey. ResolvedDiffs maps
// canonical difference paths to their resolved state, independent of the
// coarser file-level Resolved flag.
type Progress struct {
	FileKey       string          `json:"file_key"`
	Flag          *string         `json:"flag"`
	Comment       string          `json:"comment"`
	Resolved      bool            `json:"resolved"`
	ResolvedDiffs map[string]bool `json:"resolved_diffs"`
	LastUpdated   *time.Time      `json:"last_updated"`
}

// ProgressUpdate carries a partial write: only non-nil fields change.
type ProgressUpdate struct {
	FileKey       string          `json:"file_key" validate:"required"`
	Flag          *string         `json:"flag" validate:"omitempty,reviewflag"`
	Comment       *string         `json:"comment"`
	Resolved      *bool           `json:"resolved"`
	ResolvedDiffs map[string]bool `json:"resolved_diffs"`
}

type progressRow struct {
	FileKey       string     `db:"file_key"`
	Flag          *string    `db:"flag"`
	Comment       *string    `db:"comment"`
	Resolved      bool       `db:"resolved"`
	ResolvedDiffs *string    `db:"resolved_diffs"`
	LastUpdated   *time.Time `db:"last_updated"`
}

func (r progressRow) toProgress() Progress {
	p := Progress{
		FileKey:       r.FileKey,
		Flag:          r.Flag,
		Resolved:      r.Resolved,
		ResolvedDiffs: make(map[string]bool),
		LastUpdated:   r.LastUpdated,
	}
	if r.Comment != nil {
		p.Comment = *r.Comment
	}
	if r.ResolvedDiffs != nil && *r.ResolvedDiffs != "" {
		if err := json.Unmarshal([]byte(*r.ResolvedDiffs), &p.ResolvedDiffs); err != nil {
			slog.Warn("discarding unreadable resolved_diffs", "file_key", r.FileKey, "error", err)
			p.ResolvedDiffs = make(map[string]bool)
		}
	}
	return p
}

// SaveProgress creates the record on first write and applies a partial update
// afterwards. Writes are last-write-wins; there is no merge of concurrent
// edits to the same fileKey.
func SaveProgress(u ProgressUpdate) error {
	var exists bool
	err := DB.Get(&exists, `SELECT COUNT(*) > 0 FROM file_progress WHERE file_key = $1`, u.FileKey)
	if err != nil {
		return fmt.Errorf("check progress record: %w", err)
	}

	if !exists {
		var resolvedDiffs *string
		if u.ResolvedDiffs != nil {
			encoded, err := json.Marshal(u.ResolvedDiffs)
			if err != nil {
				return fmt.Errorf("encode resolved diffs: %w", err)
			}
			s := string(encoded)
			resolvedDiffs = &s
		}
		resolved := 0
		if u.Resolved != nil && *u.Resolved {
			resolved = 1
		}
		_, err := DB.Exec(`
			INSERT INTO file_progress (file_key, flag, comment, resolved, resolved_diffs)
			VALUES ($1, $2, $3, $4, $5)
		`, u.FileKey, u.Flag, u.Comment, resolved, resolvedDiffs)
		if err != nil {
			return fmt.Errorf("insert progress record: %w", err)
		}
		return nil
	}

	updates := make([]string, 0, 5)
	params := make([]interface{}, 0, 5)

	if u.Flag != nil {
		updates = append(updates, "flag = ?")
		params = append(params, *u.Flag)
	}
	if u.Comment != nil {
		updates = append(updates, "comment = ?")
		params = append(params, *u.Comment)
	}
	if u.Resolved != nil {
		updates = append(updates, "resolved = ?")
		resolved := 0
		if *u.Resolved {
			resolved = 1
		}
		params = append(params, resolved)
	}
	if u.ResolvedDiffs != nil {
		encoded, err := json.Marshal(u.ResolvedDiffs)
		if err != nil {
			return fmt.Errorf("encode resolved diffs: %w", err)
		}
		updates = append(updates, "resolved_diffs = ?")
		params = append(params, string(encoded))
	}
	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "last_updated = CURRENT_TIMESTAMP")
	params = append(params, u.FileKey)

	query := fmt.Sprintf("UPDATE file_progress SET %s WHERE file_key = ?", strings.Join(updates, ", "))
	if _, err := DB.Exec(query, params...); err != nil {
		return fmt.Errorf("update progress record: %w", err)
	}
	return nil
}

// GetProgress returns the record for a fileKey, or a zero-state record when
// none has been written yet.
func GetProgress(fileKey string) (Progress, error) {
	var row progressRow
	err := DB.Get(&row, `SELECT * FROM file_progress WHERE file_key = $1`, fileKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Absent is not an error for the caller: every file starts unreviewed.
			return Progress{FileKey: fileKey, ResolvedDiffs: make(map[string]bool)}, nil
		}
		return Progress{}, fmt.Errorf("load progress record: %w", err)
	}
	return row.toProgress(), nil
}

// GetAllProgress returns every saved record keyed by fileKey.
func GetAllProgress() (map[string]Progress, error) {
	var rows []progressRow
	if err := DB.Select(&rows, `SELECT * FROM file_progress`); err != nil {
		return nil, fmt.Errorf("select progress records: %w", err)
	}

	all := make(map[string]Progress, len(rows))
	for _, row := range rows {
		all[row.FileKey] = row.toProgress()
	}
	return all, nil
}

// ResetProgress removes a record entirely. This is the only delete path;
// ordinary review actions only create and update.
func ResetProgress(fileKey string) error {
	if _, err := DB.Exec(`DELETE FROM file_progress WHERE file_key = $1`, fileKey); err != nil {
		return fmt.Errorf("reset progress record: %w", err)
	}
	return nil
}

// ReplaceAllProgress swaps the entire progress table for the given snapshot,
// used when a session is restored.
func ReplaceAllProgress(progress map[string]Progress) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM file_progress`); err != nil {
		return fmt.Errorf("clear progress records: %w", err)
	}
	for fileKey, p := range progress {
		encoded, err := json.Marshal(p.ResolvedDiffs)
		if err != nil {
			return fmt.Errorf("encode resolved diffs: %w", err)
		}
		resolved := 0
		if p.Resolved {
			resolved = 1
		}
		_, err = tx.Exec(`
			INSERT INTO file_progress (file_key, flag, comment, resolved, resolved_diffs)
			VALUES ($1, $2, $3, $4, $5)
		`, fileKey, p.Flag, p.Comment, resolved, string(encoded))
		if err != nil {
			return fmt.Errorf("insert progress record: %w", err)
		}
	}
	return tx.Commit()
}
