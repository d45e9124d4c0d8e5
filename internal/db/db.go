package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"climate-api/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// Open returns the process-wide read-only handle to the climate dataset.
// The dataset must already exist; nothing here creates or migrates it.
func Open(cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	dsn := buildDSN(cfg)

	var (
		db  *sql.DB
		err error
	)
	if cfg.LogSQL {
		connector, connErr := NewLoggingConnector(dsn, logger)
		if connErr != nil {
			return nil, fmt.Errorf("db connector: %w", connErr)
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// buildDSN opens the dataset read-only:
//   - mode=ro: sqlite refuses writes and fails if the file is missing
//   - _query_only=1: mattn/go-sqlite3 sets PRAGMA query_only on every conn
//   - _busy_timeout: tolerate a concurrent writer holding the file briefly
func buildDSN(cfg config.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	params := []string{
		"mode=ro",
		"_query_only=1",
		"_busy_timeout=5000",
	}

	path := cfg.Path
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&")
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&"))
}
