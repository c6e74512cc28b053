// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// schema.go - SQLite schema for the conversation store.

package store

// SchemaVersion is the current schema version. A database reporting a
// different version fails to open; there is no migration path beyond this
// single marker.
const SchemaVersion = 1

// Schema defines the SQLite schema for the conversation store.
//
// The three record collections share one shape: a text primary key, the two
// secondary index columns (project_id, updated_at), the optimistic
// concurrency version, and the JSON record body. Conversations are keyed by
// session id, sessions by session id, projects by project id.
const Schema = `
-- Metadata table for schema versioning and store info
CREATE TABLE IF NOT EXISTS metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Conversations: message history + project context per session
CREATE TABLE IF NOT EXISTS conversations (
    key        TEXT PRIMARY KEY,
    project_id TEXT NOT NULL DEFAULT '',
    updated_at INTEGER NOT NULL,
    version    INTEGER NOT NULL DEFAULT 1,
    data       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversations_project ON conversations(project_id);
CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(updated_at DESC);

-- Sessions: top-level interaction records
CREATE TABLE IF NOT EXISTS sessions (
    key        TEXT PRIMARY KEY,
    project_id TEXT NOT NULL DEFAULT '',
    updated_at INTEGER NOT NULL,
    version    INTEGER NOT NULL DEFAULT 1,
    data       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project_id);
CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at DESC);

-- Projects: declared for forward compatibility, never written
CREATE TABLE IF NOT EXISTS projects (
    key        TEXT PRIMARY KEY,
    project_id TEXT NOT NULL DEFAULT '',
    updated_at INTEGER NOT NULL,
    version    INTEGER NOT NULL DEFAULT 1,
    data       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_updated ON projects(updated_at DESC);
`

// InitMetadata contains initial metadata values inserted on first open.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
INSERT OR IGNORE INTO metadata (key, value) VALUES ('created_at', strftime('%Y-%m-%dT%H:%M:%SZ', 'now'));
`
