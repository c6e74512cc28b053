// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists conversational sessions: messages, per-project
// context, and generated artifacts, with a naive token-scored search.
//
// The store routes every operation through one Backend selected at Open
// time: a transactional SQLite engine (preferred) or a flat JSON snapshot
// document (fallback, rewritten in full on every mutation). The choice is
// made once per Store and never revisited.
//
// # Key Types
//
//   - Store: the public operations (CreateSession, AddMessage,
//     UpdateProjectContext, AddArtifact, retrieval, search, stats)
//   - Backend: the storage engine contract with get / getAll /
//     getAllByIndex / put
//   - Session, Conversation, Message, Artifact, ProjectContext: the
//     persisted records
//   - SearchResult, ConversationContext, ConversationMeta, Stats: derived
//     views returned to callers
//
// # Concurrency
//
// Conversations carry an optimistic version stamp. Read-modify-write
// operations persist version+1 and the backend rejects the write with
// ErrConflict when another writer got there first; the caller re-reads and
// retries at its own discretion. CreateSession writes are unconditional, so
// an (astronomically unlikely) id collision silently overwrites.
//
// # Usage
//
//	st, err := store.Open(store.Options{DataDir: dir})
//	if err != nil {
//		return err
//	}
//	defer st.Close()
//
//	sess, err := st.CreateSession(ctx, "", "Checkout flow")
//	if err != nil {
//		return err
//	}
//
//	_, err = st.AddMessage(ctx, sess.ID, store.Message{
//		Content: "Build the payment service",
//	})
//
//	results, err := st.SearchConversations(ctx, "payment", "")
package store
