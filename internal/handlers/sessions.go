package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"apidiff/internal/db"

	"github.com/labstack/echo/v4"
)

type saveSessionRequest struct {
	SessionName string `json:"session_name"`
}

// SaveSession snapshots all current progress under a name.
func SaveSession(c echo.Context) error {
	var req saveSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"success": false, "error": "Invalid request"})
	}
	if req.SessionName == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"success": false, "error": "session_name is required"})
	}

	progress, err := db.GetAllProgress()
	if err != nil {
		slog.Error("failed to collect progress for session", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "Failed to save session"})
	}

	stats, err := service.Scanner().Stats()
	if err != nil {
		slog.Warn("failed to compute stats for session", "error", err)
	}

	if err := db.SaveSession(req.SessionName, progress, stats); err != nil {
		slog.Error("failed to save session", "session", req.SessionName, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "Failed to save session"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Session %q saved successfully", req.SessionName),
	})
}

// LoadSession restores a snapshot, replacing all current progress.
func LoadSession(c echo.Context) error {
	name := c.Param("name")

	snapshot, err := db.RestoreSession(name)
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{"success": false, "error": "Session not found"})
		}
		slog.Error("failed to restore session", "session", name, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "Failed to load session"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    snapshot,
		"message": fmt.Sprintf("Session %q loaded successfully", name),
	})
}

// ListSessions returns all sessions, most recent first.
func ListSessions(c echo.Context) error {
	sessions, err := db.ListSessions()
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "Failed to list sessions"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": sessions})
}

// DeleteSession removes a named session.
func DeleteSession(c echo.Context) error {
	name := c.Param("name")

	if err := db.DeleteSession(name); err != nil {
		slog.Error("failed to delete session", "session", name, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "Failed to delete session"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Session %q deleted successfully", name),
	})
}
