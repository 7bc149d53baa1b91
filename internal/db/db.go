package db

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var DB *sqlx.DB

// Init opens the progress database. The file is created on first use; the
// schema itself is owned by the migrations package.
func Init(path string) error {
	var err error
	DB, err = sqlx.Connect("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return err
	}

	// Single reviewer, single process: one writer avoids SQLITE_BUSY churn.
	DB.SetMaxOpenConns(1)

	slog.Info("connected to progress database", "path", path)
	return nil
}
