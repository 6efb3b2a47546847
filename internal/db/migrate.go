package db

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    name       TEXT PRIMARY KEY,
    applied_at TEXT NOT NULL
)`

type migrationFile struct {
	name string
	data []byte
}

// RunMigrations applies every .sql file not yet recorded in
// schema_migrations, in name order. Files in dir take precedence over the
// embedded set; an empty or missing dir uses the embedded files. It returns
// the names applied by this call.
func RunMigrations(db *sqlx.DB, dir string) ([]string, error) {
	files, err := loadMigrations(dir)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(migrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var done []string
	if err := db.Select(&done, `SELECT name FROM schema_migrations`); err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(done))
	for _, name := range done {
		applied[name] = true
	}

	var ran []string
	for _, mf := range files {
		if applied[mf.name] || len(mf.data) == 0 {
			continue
		}
		tx, err := db.Beginx()
		if err != nil {
			return ran, fmt.Errorf("begin migration %s: %w", mf.name, err)
		}
		if _, err := tx.Exec(string(mf.data)); err != nil {
			_ = tx.Rollback()
			return ran, fmt.Errorf("exec migration %s: %w", mf.name, err)
		}
		if _, err := tx.Exec(tx.Rebind(`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`),
			mf.name, formatTime(time.Now())); err != nil {
			_ = tx.Rollback()
			return ran, fmt.Errorf("record migration %s: %w", mf.name, err)
		}
		if err := tx.Commit(); err != nil {
			return ran, fmt.Errorf("commit migration %s: %w", mf.name, err)
		}
		ran = append(ran, mf.name)
	}
	return ran, nil
}

func loadMigrations(dir string) ([]migrationFile, error) {
	if dir != "" {
		files, err := readMigrations(os.DirFS(dir), ".")
		if err == nil {
			return files, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read migrations: %w", err)
		}
	}
	files, err := readMigrations(embeddedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}
	return files, nil
}

func readMigrations(fsys fs.FS, root string) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, err
	}
	var files []migrationFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		content, err := fs.ReadFile(fsys, root+"/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		files = append(files, migrationFile{name: entry.Name(), data: content})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}
