// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// snapshot.go - Flat persisted mapping, the fallback storage engine.
//
// All records live in an in-memory map mirrored to a single JSON document:
// read once at startup, rewritten in full on every mutation. O(total data
// size) per write, which is acceptable at the conversation volumes this
// store sees when SQLite is unavailable.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/jeranaias/convstore/internal/util"
)

// snapshotRecord is the persisted form of one Record inside the snapshot
// document. Data stays raw JSON so the document remains human-readable.
type snapshotRecord struct {
	ProjectID string          `json:"project_id,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
	Version   int64           `json:"version"`
	Data      json.RawMessage `json:"data"`
}

// snapshotEntry serializes as a two-element [key, value] JSON array, the
// document's native pair layout.
type snapshotEntry struct {
	Key    string
	Record snapshotRecord
}

// MarshalJSON renders the entry as ["key", {record}].
func (e snapshotEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Key, e.Record})
}

// UnmarshalJSON parses the ["key", {record}] pair form.
func (e *snapshotEntry) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &e.Key); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Record)
}

// snapshotDocument is the whole-store document written to disk: a schema
// version marker plus three parallel lists of [key, value] pairs.
type snapshotDocument struct {
	Version       int             `json:"version"`
	Conversations []snapshotEntry `json:"conversations"`
	Projects      []snapshotEntry `json:"projects"`
	Sessions      []snapshotEntry `json:"sessions"`
}

// SnapshotBackend is the flat persisted mapping used when the transactional
// engine is unavailable.
type SnapshotBackend struct {
	path string

	mu      sync.RWMutex
	records map[Collection]map[string]*Record
}

// NewSnapshotBackend loads (or initializes) the snapshot document at path.
func NewSnapshotBackend(path string) (*SnapshotBackend, error) {
	b := &SnapshotBackend{
		path: path,
		records: map[Collection]map[string]*Record{
			ColConversations: {},
			ColSessions:      {},
			ColProjects:      {},
		},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read snapshot: %v", ErrBackend, err)
	}
	if len(data) == 0 {
		return b, nil
	}

	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse snapshot: %v", ErrBackend, err)
	}
	if doc.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d (want %d)", ErrBackend, doc.Version, SchemaVersion)
	}

	load := func(col Collection, entries []snapshotEntry) {
		for _, e := range entries {
			b.records[col][e.Key] = &Record{
				Key:       e.Key,
				ProjectID: e.Record.ProjectID,
				UpdatedAt: e.Record.UpdatedAt,
				Version:   e.Record.Version,
				Data:      []byte(e.Record.Data),
			}
		}
	}
	load(ColConversations, doc.Conversations)
	load(ColProjects, doc.Projects)
	load(ColSessions, doc.Sessions)

	return b, nil
}

func copyRecord(rec *Record) *Record {
	out := *rec
	out.Data = append([]byte(nil), rec.Data...)
	return &out
}

// Get returns the record stored under key, or ErrNotFound.
func (b *SnapshotBackend) Get(ctx context.Context, col Collection, key string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	byKey, ok := b.records[col]
	if !ok {
		return nil, fmt.Errorf("%w: unknown collection %q", ErrBackend, col)
	}
	rec, ok := byKey[key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRecord(rec), nil
}

// GetAll returns every record in the collection, newest-first.
func (b *SnapshotBackend) GetAll(ctx context.Context, col Collection) ([]*Record, error) {
	return b.collect(ctx, col, func(*Record) bool { return true })
}

// GetAllByIndex returns the records whose project id matches, newest-first.
// The snapshot engine has no indexes; this is a linear scan.
func (b *SnapshotBackend) GetAllByIndex(ctx context.Context, col Collection, projectID string) ([]*Record, error) {
	return b.collect(ctx, col, func(rec *Record) bool { return rec.ProjectID == projectID })
}

func (b *SnapshotBackend) collect(ctx context.Context, col Collection, keep func(*Record) bool) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	byKey, ok := b.records[col]
	if !ok {
		return nil, fmt.Errorf("%w: unknown collection %q", ErrBackend, col)
	}

	var records []*Record
	for _, rec := range byKey {
		if keep(rec) {
			records = append(records, copyRecord(rec))
		}
	}
	sortRecords(records)
	return records, nil
}

// sortRecords orders newest-first by UpdatedAt, ties broken by key, matching
// the SQLite engine's enumeration order.
func sortRecords(records []*Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].UpdatedAt.Equal(records[j].UpdatedAt) {
			return records[i].UpdatedAt.After(records[j].UpdatedAt)
		}
		return records[i].Key < records[j].Key
	})
}

// Put stores rec under rec.Key (see Backend for version semantics) and
// rewrites the whole snapshot document.
func (b *SnapshotBackend) Put(ctx context.Context, col Collection, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.Version < 1 {
		return fmt.Errorf("%w: record version must be >= 1, got %d", ErrBackend, rec.Version)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	byKey, ok := b.records[col]
	if !ok {
		return fmt.Errorf("%w: unknown collection %q", ErrBackend, col)
	}

	prev, exists := byKey[rec.Key]
	if rec.Version > 1 {
		if !exists {
			return ErrNotFound
		}
		if prev.Version != rec.Version-1 {
			return ErrConflict
		}
	}

	byKey[rec.Key] = copyRecord(rec)
	if err := b.persistLocked(); err != nil {
		// Keep memory and disk consistent on a failed rewrite.
		if exists {
			byKey[rec.Key] = prev
		} else {
			delete(byKey, rec.Key)
		}
		return err
	}
	return nil
}

// persistLocked serializes every record and rewrites the document. Callers
// hold the write lock.
func (b *SnapshotBackend) persistLocked() error {
	dump := func(col Collection) []snapshotEntry {
		byKey := b.records[col]
		entries := make([]snapshotEntry, 0, len(byKey))
		for key, rec := range byKey {
			entries = append(entries, snapshotEntry{
				Key: key,
				Record: snapshotRecord{
					ProjectID: rec.ProjectID,
					UpdatedAt: rec.UpdatedAt,
					Version:   rec.Version,
					Data:      json.RawMessage(rec.Data),
				},
			})
		}
		// Stable file contents regardless of map iteration order.
		sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
		return entries
	}

	doc := snapshotDocument{
		Version:       SchemaVersion,
		Conversations: dump(ColConversations),
		Projects:      dump(ColProjects),
		Sessions:      dump(ColSessions),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to serialize snapshot: %v", ErrBackend, err)
	}
	if err := util.AtomicWriteFile(b.path, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to persist snapshot: %v", ErrBackend, err)
	}
	return nil
}

// Name identifies the engine.
func (b *SnapshotBackend) Name() string {
	return BackendSnapshot
}

// Path returns the snapshot document location.
func (b *SnapshotBackend) Path() string {
	return b.path
}

// Close releases nothing; the snapshot engine holds no open handles between
// writes.
func (b *SnapshotBackend) Close() error {
	return nil
}
