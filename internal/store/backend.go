// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// backend.go - Storage engine abstraction behind the conversation store.
//
// The store selects exactly one Backend at Open time (SQLite preferred,
// snapshot fallback) and routes every operation through this interface; no
// operation branches on which engine is active.

package store

import (
	"context"
	"time"
)

// Collection names one of the three record collections every backend keeps.
type Collection string

const (
	ColConversations Collection = "conversations"
	ColSessions      Collection = "sessions"
	ColProjects      Collection = "projects"
)

// Backend engine names reported by Name and Stats.Backend.
const (
	BackendSQLite   = "sqlite"
	BackendSnapshot = "snapshot"
)

// Record is the storage envelope exchanged with a Backend. ProjectID and
// UpdatedAt are the secondary index values; Data is the JSON-encoded record
// body.
type Record struct {
	Key       string
	ProjectID string
	UpdatedAt time.Time
	Version   int64
	Data      []byte
}

// Backend is the persistence engine behind the Store. Both implementations
// honor the same contract so the store never branches on engine identity.
//
// Ordering: GetAll and GetAllByIndex return records newest-first by
// UpdatedAt, ties broken by key, so both engines enumerate identically.
//
// Versioning: Put with rec.Version == 1 is an unconditional upsert (a key
// collision silently overwrites). Put with rec.Version > 1 succeeds only
// when the stored record's version equals rec.Version-1; it returns
// ErrConflict when a different version is stored and ErrNotFound when
// nothing is stored under the key.
type Backend interface {
	// Get returns the record stored under key, or ErrNotFound.
	Get(ctx context.Context, col Collection, key string) (*Record, error)

	// GetAll returns every record in the collection, newest-first.
	GetAll(ctx context.Context, col Collection) ([]*Record, error)

	// GetAllByIndex returns the records whose project id matches,
	// newest-first.
	GetAllByIndex(ctx context.Context, col Collection, projectID string) ([]*Record, error)

	// Put stores rec under rec.Key with the version semantics above.
	Put(ctx context.Context, col Collection, rec *Record) error

	// Name identifies the engine ("sqlite" or "snapshot").
	Name() string

	// Close releases engine resources. The store is unusable afterwards.
	Close() error
}
