// Package database sets up/opens the request history database.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"

	// Package sqlite3 provides interface to SQLite3 databases.
	_ "github.com/mattn/go-sqlite3"
)

const (
	dbDriver = "sqlite3"
)

// Database holds the history database handle.
type Database struct {
	DB *sql.DB
}

// InitDB opens (creating if needed) the database at path and ensures its tables exist.
func InitDB(path string) (d *Database, err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, consts.PermsGenericDir); err != nil {
			return nil, fmt.Errorf("failed to create database directory %q: %w", dir, err)
		}
	}

	d = new(Database)
	d.DB, err = sql.Open(dbDriver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at path %q: %w", path, err)
	}

	pragmas := []struct {
		stmt, desc string
	}{
		{`PRAGMA foreign_keys = ON;`, "enable foreign keys"},
		{`PRAGMA journal_mode = WAL;`, "enable WAL mode"},
		{`PRAGMA busy_timeout = 5000;`, "set busy_timeout"},
		{`PRAGMA synchronous = NORMAL;`, "set synchronous mode"},
	}
	for _, p := range pragmas {
		if _, err := d.DB.Exec(p.stmt); err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to %s: %w", p.desc, err)
		}
	}

	if err := d.initTables(); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	logger.Pl.D(1, "Opened history database at %q", path)
	return d, nil
}

// Close closes the underlying database.
func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// initTables initializes the SQL tables.
func (d *Database) initTables() (err error) {
	tx, err := d.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Pl.E("Panic rollback failed for table creation: %v", rbErr)
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Pl.E("Transaction rollback failed after original error %v: %v", err, rbErr)
			}
		}
	}()

	if err = initHistoryTable(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
