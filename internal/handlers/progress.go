package handlers

import (
	"log/slog"
	"net/http"

	"apidiff/internal/db"
	"apidiff/internal/security"

	"github.com/labstack/echo/v4"
)

// SaveProgress applies a partial progress write for one fileKey. The client
// applies the change optimistically; a failure here is surfaced but nothing
// is rolled back, and retries are user-initiated.
func SaveProgress(c echo.Context) error {
	var req db.ProgressUpdate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"success": false, "error": "Invalid request"})
	}

	if req.FileKey == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"success": false, "error": "file_key is required"})
	}
	if err := security.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "flag must be one of none, low, medium, high",
		})
	}

	if err := db.SaveProgress(req); err != nil {
		slog.Error("failed to save progress", "file_key", req.FileKey, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "Failed to save progress"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Progress saved successfully",
	})
}

// LoadProgress returns saved progress for one fileKey, zero-state when none.
func LoadProgress(c echo.Context) error {
	fileKey := c.Param("fileKey")

	progress, err := db.GetProgress(fileKey)
	if err != nil {
		slog.Error("failed to load progress", "file_key", fileKey, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "Failed to load progress"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": progress})
}

// GetAllProgress returns every saved progress record keyed by fileKey.
func GetAllProgress(c echo.Context) error {
	progress, err := db.GetAllProgress()
	if err != nil {
		slog.Error("failed to load progress records", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "Failed to load progress"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "data": progress})
}

// ResetProgress deletes the record for a fileKey. This is the only way a
// record is removed.
func ResetProgress(c echo.Context) error {
	fileKey := c.Param("fileKey")

	if err := db.ResetProgress(fileKey); err != nil {
		slog.Error("failed to reset progress", "file_key", fileKey, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "Failed to reset progress"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "Progress reset"})
}
