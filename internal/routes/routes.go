package routes

import (
	"apidiff/internal/handlers"
	"apidiff/internal/security"

	"github.com/labstack/echo/v4"
)

func SetupRoutes(api *echo.Group) {
	// Public routes
	api.GET("/health", handlers.HealthCheck)

	// Sidebar structure and per-file comparison
	api.GET("/structure", handlers.GetStructure)
	api.GET("/file/:fileKey", handlers.GetFileDiff)

	// Progress routes; writes are rate limited
	progress := api.Group("/progress")
	progress.POST("/save", handlers.SaveProgress, security.RateLimitMiddleware)
	progress.GET("/load/:fileKey", handlers.LoadProgress)
	progress.GET("/all", handlers.GetAllProgress)
	progress.DELETE("/reset/:fileKey", handlers.ResetProgress, security.RateLimitMiddleware)

	// Session routes
	sessions := api.Group("/session")
	sessions.POST("/save", handlers.SaveSession, security.RateLimitMiddleware)
	sessions.GET("/load/:name", handlers.LoadSession)
	sessions.GET("/list", handlers.ListSessions)
	sessions.DELETE("/delete/:name", handlers.DeleteSession, security.RateLimitMiddleware)

	// Export/import
	api.GET("/export", handlers.ExportData)
	api.POST("/import", handlers.ImportData, security.RateLimitMiddleware)
}
