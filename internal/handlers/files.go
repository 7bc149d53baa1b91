package handlers

import (
	"log/slog"
	"net/http"

	"apidiff/internal/db"
	"apidiff/internal/view"

	"github.com/labstack/echo/v4"
)

type fileDiffData struct {
	*view.Comparison
	Progress db.Progress `json:"progress"`
}

// GetStructure returns the sidebar payload: folder groups, overview stats and
// all saved progress for initial rendering.
func GetStructure(c echo.Context) error {
	scanner := service.Scanner()

	structure, err := scanner.Structure()
	if err != nil {
		slog.Error("failed to scan results directory", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to scan results directory"})
	}

	stats, err := scanner.Stats()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute stats"})
	}

	progress, err := db.GetAllProgress()
	if err != nil {
		slog.Error("failed to load saved progress", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load saved progress"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":          true,
		"folder_groups":    structure,
		"stats":            stats,
		"response_times":   scanner.AverageResponseTimes(),
		"initial_progress": progress,
	})
}

// GetFileDiff runs the comparison pipeline for one case and attaches its
// saved progress.
func GetFileDiff(c echo.Context) error {
	fileKey := c.Param("fileKey")
	if fileKey == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"success": false, "error": "fileKey is required"})
	}

	comparison := service.Compare(fileKey)
	if !comparison.Success {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"success": false,
			"error":   comparison.Error,
		})
	}

	progress, err := db.GetProgress(fileKey)
	if err != nil {
		slog.Error("failed to load progress", "file_key", fileKey, "error", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    fileDiffData{Comparison: comparison, Progress: progress},
	})
}
