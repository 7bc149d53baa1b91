package main

import (
	"log"

	"apidiff/internal/capture"
	"apidiff/internal/config"
	"apidiff/internal/db"
	"apidiff/internal/diff"
	"apidiff/internal/handlers"
	"apidiff/internal/migrations"
	"apidiff/internal/routes"
	"apidiff/internal/security"
	"apidiff/internal/view"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// A malformed ignore pattern is fatal here, never mid-comparison
	filter, err := diff.NewIgnoreFilter(cfg.IgnorePatterns)
	if err != nil {
		log.Fatalf("Failed to compile ignore patterns: %v", err)
	}

	// Initialize database schema and connection
	if err := migrations.Up(cfg.DBPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := db.Init(cfg.DBPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize security features
	security.Init()

	// Build the diff pipeline
	scanner := capture.NewScanner(cfg.ResultsDir)
	service := view.NewService(scanner, diff.NewDiffer(filter))
	handlers.Init(service)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	api := e.Group("/api")
	routes.SetupRoutes(api)

	e.Logger.Fatal(e.Start(cfg.Addr))
}
