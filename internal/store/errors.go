// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "errors"

// Sentinel errors for store operations. Backend failures wrap ErrBackend
// with driver detail; match with errors.Is.
var (
	// ErrNotFound is returned when no record exists for the requested
	// session. Mutating operations return it before performing any write.
	ErrNotFound = errors.New("session not found")

	// ErrConflict is returned when an optimistic version check fails: the
	// conversation was modified between the caller's read and write. The
	// caller may re-read and retry.
	ErrConflict = errors.New("conversation modified concurrently")

	// ErrBackend wraps read/write/open failures reported by the active
	// storage engine. During automatic backend selection it is absorbed
	// and demoted to the fallback engine instead of surfaced.
	ErrBackend = errors.New("storage backend error")

	// ErrInvalidContextType is returned for a context type outside the
	// fixed slot set (requirements, architecture, codebase, compliance).
	ErrInvalidContextType = errors.New("invalid context type")

	// ErrInvalidMessageKind is returned for a message kind outside
	// {user, agent, system}.
	ErrInvalidMessageKind = errors.New("invalid message kind")

	// ErrInvalidAgent is returned for an unknown agent label.
	ErrInvalidAgent = errors.New("invalid agent type")
)
