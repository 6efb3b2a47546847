package db

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres
	_ "github.com/mattn/go-sqlite3" // sqlite3 (cgo)
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // sqlite (pure Go)

	"github.com/nationbuilder/nationbuilder/internal/config"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Open connects to the configured database and verifies it with a ping.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case "sqlite3", "sqlite", "postgres":
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}
	conn, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	// Every pooled connection to :memory: would see its own empty database.
	if isSQLite(cfg.Driver) && strings.Contains(cfg.DSN, ":memory:") {
		conn.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	if isSQLite(cfg.Driver) {
		for _, stmt := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
			if _, err := conn.Exec(stmt); err != nil {
				_ = conn.Close()
				return nil, errors.Wrapf(err, "apply sqlite pragma %q", stmt)
			}
		}
	}
	return conn, nil
}

func isSQLite(driver string) bool {
	return driver == "sqlite3" || driver == "sqlite"
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
