package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"apidiff/internal/db"

	"github.com/labstack/echo/v4"
)

// ExportData serves a downloadable snapshot of all progress and sessions.
func ExportData(c echo.Context) error {
	doc, err := db.Export()
	if err != nil {
		slog.Error("export failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "Export failed"})
	}

	filename := fmt.Sprintf("apidiff_export_%s.json", time.Now().Format("20060102_150405"))
	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.JSON(http.StatusOK, doc)
}

// ImportData restores progress and sessions from an exported document.
func ImportData(c echo.Context) error {
	var doc db.ExportDocument
	if err := c.Bind(&doc); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"success": false, "error": "Invalid export document"})
	}

	if err := db.Import(&doc); err != nil {
		slog.Error("import failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"success": false, "error": "Import failed"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "Import completed"})
}
