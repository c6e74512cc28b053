// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sqlite.go - Transactional indexed backend over SQLite.
//
// RELIABILITY: WAL journaling plus a single writer connection gives
// crash-safe, transactional record writes without cgo.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteBackend stores records in a SQLite database, one table per
// collection, with secondary indexes on project id and update time.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// NewSQLiteBackend opens (creating on first use) the conversation database
// at dbPath, applies the performance pragmas, initializes the schema, and
// verifies the schema version. Any failure closes the handle and reports a
// wrapped ErrBackend.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create data directory: %v", ErrBackend, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrBackend, err)
	}

	// SQLite performs best with a single writer.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: failed to apply %s: %v", ErrBackend, pragma, err)
		}
	}

	b := &SQLiteBackend{db: db, path: dbPath}

	if err := b.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := b.verifySchemaVersion(); err != nil {
		db.Close()
		return nil, err
	}

	return b, nil
}

func (b *SQLiteBackend) initSchema() error {
	if _, err := b.db.Exec(Schema); err != nil {
		return fmt.Errorf("%w: failed to initialize schema: %v", ErrBackend, err)
	}
	if _, err := b.db.Exec(InitMetadata); err != nil {
		return fmt.Errorf("%w: failed to initialize metadata: %v", ErrBackend, err)
	}
	return nil
}

func (b *SQLiteBackend) verifySchemaVersion() error {
	var stored string
	err := b.db.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&stored)
	if err != nil {
		return fmt.Errorf("%w: failed to read schema version: %v", ErrBackend, err)
	}
	if stored != strconv.Itoa(SchemaVersion) {
		return fmt.Errorf("%w: unsupported schema version %s (want %d)", ErrBackend, stored, SchemaVersion)
	}
	return nil
}

// tableFor maps a collection to its table name. Collections are a closed
// set; anything else is a programming error surfaced as a backend failure.
func tableFor(col Collection) (string, error) {
	switch col {
	case ColConversations:
		return "conversations", nil
	case ColSessions:
		return "sessions", nil
	case ColProjects:
		return "projects", nil
	}
	return "", fmt.Errorf("%w: unknown collection %q", ErrBackend, col)
}

// Get returns the record stored under key, or ErrNotFound.
func (b *SQLiteBackend) Get(ctx context.Context, col Collection, key string) (*Record, error) {
	table, err := tableFor(col)
	if err != nil {
		return nil, err
	}

	rec := &Record{Key: key}
	var updatedAt int64
	err = b.db.QueryRowContext(ctx,
		`SELECT project_id, updated_at, version, data FROM `+table+` WHERE key = ?`, key,
	).Scan(&rec.ProjectID, &updatedAt, &rec.Version, &rec.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s/%s: %v", ErrBackend, col, key, err)
	}
	rec.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return rec, nil
}

// GetAll returns every record in the collection, newest-first.
func (b *SQLiteBackend) GetAll(ctx context.Context, col Collection) ([]*Record, error) {
	table, err := tableFor(col)
	if err != nil {
		return nil, err
	}
	return b.queryRecords(ctx, col,
		`SELECT key, project_id, updated_at, version, data FROM `+table+
			` ORDER BY updated_at DESC, key ASC`)
}

// GetAllByIndex returns the records whose project id matches, newest-first.
// The lookup is index-assisted (idx_<table>_project).
func (b *SQLiteBackend) GetAllByIndex(ctx context.Context, col Collection, projectID string) ([]*Record, error) {
	table, err := tableFor(col)
	if err != nil {
		return nil, err
	}
	return b.queryRecords(ctx, col,
		`SELECT key, project_id, updated_at, version, data FROM `+table+
			` WHERE project_id = ? ORDER BY updated_at DESC, key ASC`, projectID)
}

func (b *SQLiteBackend) queryRecords(ctx context.Context, col Collection, query string, args ...any) ([]*Record, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan %s: %v", ErrBackend, col, err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec := &Record{}
		var updatedAt int64
		if err := rows.Scan(&rec.Key, &rec.ProjectID, &updatedAt, &rec.Version, &rec.Data); err != nil {
			return nil, fmt.Errorf("%w: failed to scan %s row: %v", ErrBackend, col, err)
		}
		rec.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to scan %s: %v", ErrBackend, col, err)
	}
	return records, nil
}

// Put stores rec under rec.Key. Version 1 is an unconditional upsert; higher
// versions are compare-and-swap against the stored version (see Backend).
func (b *SQLiteBackend) Put(ctx context.Context, col Collection, rec *Record) error {
	table, err := tableFor(col)
	if err != nil {
		return err
	}
	if rec.Version < 1 {
		return fmt.Errorf("%w: record version must be >= 1, got %d", ErrBackend, rec.Version)
	}

	if rec.Version == 1 {
		_, err := b.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO `+table+` (key, project_id, updated_at, version, data)
			 VALUES (?, ?, ?, ?, ?)`,
			rec.Key, rec.ProjectID, rec.UpdatedAt.UnixMilli(), rec.Version, rec.Data)
		if err != nil {
			return fmt.Errorf("%w: failed to write %s/%s: %v", ErrBackend, col, rec.Key, err)
		}
		return nil
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", ErrBackend, err)
	}
	defer tx.Rollback()

	var stored int64
	err = tx.QueryRowContext(ctx,
		`SELECT version FROM `+table+` WHERE key = ?`, rec.Key,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: failed to read version of %s/%s: %v", ErrBackend, col, rec.Key, err)
	}
	if stored != rec.Version-1 {
		return ErrConflict
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE `+table+` SET project_id = ?, updated_at = ?, version = ?, data = ? WHERE key = ?`,
		rec.ProjectID, rec.UpdatedAt.UnixMilli(), rec.Version, rec.Data, rec.Key)
	if err != nil {
		return fmt.Errorf("%w: failed to write %s/%s: %v", ErrBackend, col, rec.Key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit %s/%s: %v", ErrBackend, col, rec.Key, err)
	}
	return nil
}

// Name identifies the engine.
func (b *SQLiteBackend) Name() string {
	return BackendSQLite
}

// Path returns the database file location.
func (b *SQLiteBackend) Path() string {
	return b.path
}

// Close closes the database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
