// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// store.go - Conversation store operations over the selected backend.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// File names inside the data directory.
const (
	sqliteFileName   = "conversations.db"
	snapshotFileName = "conversations.json"
)

// DefaultMessageLimit is the window size GetConversationContext uses when
// the caller has no explicit limit.
const DefaultMessageLimit = 20

// BackendAuto prefers the transactional engine and silently falls back to
// the snapshot engine when it cannot be opened.
const BackendAuto = "auto"

// Options configures Open.
type Options struct {
	// DataDir holds the database file or snapshot document.
	DataDir string
	// Backend selects the engine: BackendAuto (default), BackendSQLite, or
	// BackendSnapshot. Forcing an engine surfaces its open failure instead
	// of falling back.
	Backend string
}

// Store persists sessions, conversations, and artifacts through one Backend
// chosen at construction. Construct with New or Open and pass the instance
// explicitly; there is no package-level store.
type Store struct {
	backend Backend
}

// New wraps an explicitly constructed backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Open selects a storage engine per opts and returns a ready store. The
// choice is one-time and irreversible for the life of the Store; there is no
// runtime backend migration.
func Open(opts Options) (*Store, error) {
	if opts.DataDir == "" {
		return nil, fmt.Errorf("%w: data directory not set", ErrBackend)
	}

	dbPath := filepath.Join(opts.DataDir, sqliteFileName)
	snapPath := filepath.Join(opts.DataDir, snapshotFileName)

	switch opts.Backend {
	case BackendSQLite:
		b, err := NewSQLiteBackend(dbPath)
		if err != nil {
			return nil, err
		}
		return New(b), nil

	case BackendSnapshot:
		b, err := NewSnapshotBackend(snapPath)
		if err != nil {
			return nil, err
		}
		return New(b), nil

	case "", BackendAuto:
		b, err := NewSQLiteBackend(dbPath)
		if err == nil {
			return New(b), nil
		}
		// Demoted, not surfaced: the fallback engine serves the same
		// interface and the caller never sees the probe failure.
		log.Printf("convstore: transactional backend unavailable, using snapshot fallback: %v", err)
		sb, serr := NewSnapshotBackend(snapPath)
		if serr != nil {
			return nil, serr
		}
		return New(sb), nil
	}

	return nil, fmt.Errorf("%w: unknown backend %q", ErrBackend, opts.Backend)
}

// BackendName reports the active engine ("sqlite" or "snapshot").
func (s *Store) BackendName() string {
	return s.backend.Name()
}

// Close releases the backend. The store is unusable afterwards.
func (s *Store) Close() error {
	return s.backend.Close()
}

// newID returns a prefixed UUIDv4, e.g. "sess_1b4e28ba-...". Standard
// 122-bit randomness; no uniqueness check against stored records, so a
// collision silently overwrites.
func newID(prefix string) string {
	return prefix + "_" + uuid.New().String()
}

// =============================================================================
// LIFECYCLE OPERATIONS
// =============================================================================

// CreateSession creates a Session and its empty Conversation sharing a fresh
// session id. A missing projectID gets a generated one; a missing name
// defaults to a timestamped label. Returns the created Session.
//
// The two records are written independently (session first); there is no
// cross-record transaction.
func (s *Store) CreateSession(ctx context.Context, projectID, name string) (*Session, error) {
	now := time.Now().UTC()
	if projectID == "" {
		projectID = newID("proj")
	}
	if name == "" {
		name = "Session " + now.Format("2006-01-02 15:04:05")
	}

	sess := &Session{
		ID:        newID("sess"),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Active:    true,
		Metadata:  map[string]any{},
	}
	conv := &Conversation{
		SessionID:      sess.ID,
		ProjectID:      projectID,
		Messages:       []Message{},
		ProjectContext: ProjectContext{Artifacts: []Artifact{}},
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}

	if err := s.putSession(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.putConversation(ctx, conv); err != nil {
		return nil, err
	}
	return sess, nil
}

// AddMessage appends a message to the session's conversation and returns the
// stored Message. The input's Kind defaults to "user" when empty; ID,
// SessionID, and CreatedAt are assigned here. Fails with ErrNotFound (and
// performs no write) when the session has no conversation.
func (s *Store) AddMessage(ctx context.Context, sessionID string, msg Message) (*Message, error) {
	if msg.Kind == "" {
		msg.Kind = KindUser
	}
	if !msg.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMessageKind, msg.Kind)
	}
	if msg.Agent != "" && !msg.Agent.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAgent, msg.Agent)
	}

	conv, err := s.GetConversation(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := Message{
		ID:        newID("msg"),
		SessionID: sessionID,
		Kind:      msg.Kind,
		Agent:     msg.Agent,
		Content:   msg.Content,
		Artifacts: msg.Artifacts,
		Metadata:  msg.Metadata,
		CreatedAt: now,
	}

	conv.Messages = append(conv.Messages, stored)
	conv.UpdatedAt = now
	conv.Version++

	if err := s.putConversation(ctx, conv); err != nil {
		return nil, err
	}
	return &stored, nil
}

// UpdateProjectContext shallow-merges data into the conversation's entry for
// the given context type: top-level keys overwrite, nested values are
// replaced wholesale. Stamps the entry's update time and returns the merged
// entry. Fails with ErrNotFound when the session has no conversation and
// ErrInvalidContextType for a key outside the fixed slot set.
func (s *Store) UpdateProjectContext(ctx context.Context, sessionID string, contextType ContextType, data map[string]any) (*ContextEntry, error) {
	if !contextType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContextType, contextType)
	}

	conv, err := s.GetConversation(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := conv.ProjectContext.Entry(contextType)
	if entry == nil {
		entry = &ContextEntry{}
		conv.ProjectContext.setEntry(contextType, entry)
	}
	if entry.Data == nil {
		entry.Data = make(map[string]any, len(data))
	}
	for k, v := range data {
		entry.Data[k] = v
	}
	entry.UpdatedAt = now
	conv.UpdatedAt = now
	conv.Version++

	if err := s.putConversation(ctx, conv); err != nil {
		return nil, err
	}
	return entry, nil
}

// AddArtifact appends an artifact to the conversation's project context and
// returns the stored Artifact. The input's Kind defaults to "code" when
// empty; ID and CreatedAt are assigned here. Fails with ErrNotFound (and
// performs no write) when the session has no conversation.
func (s *Store) AddArtifact(ctx context.Context, sessionID string, art Artifact) (*Artifact, error) {
	if art.Kind == "" {
		art.Kind = ArtifactCode
	}
	if art.Agent != "" && !art.Agent.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAgent, art.Agent)
	}

	conv, err := s.GetConversation(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stored := Artifact{
		ID:        newID("art"),
		Kind:      art.Kind,
		Name:      art.Name,
		Content:   art.Content,
		Language:  art.Language,
		Path:      art.Path,
		Agent:     art.Agent,
		CreatedAt: now,
	}

	conv.ProjectContext.Artifacts = append(conv.ProjectContext.Artifacts, stored)
	conv.UpdatedAt = now
	conv.Version++

	if err := s.putConversation(ctx, conv); err != nil {
		return nil, err
	}
	return &stored, nil
}

// =============================================================================
// RETRIEVAL OPERATIONS
// =============================================================================

// GetConversation returns the conversation keyed by sessionID, or
// ErrNotFound.
func (s *Store) GetConversation(ctx context.Context, sessionID string) (*Conversation, error) {
	rec, err := s.backend.Get(ctx, ColConversations, sessionID)
	if err != nil {
		return nil, err
	}
	return decodeConversation(rec)
}

// GetSession returns the session record, or ErrNotFound.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	rec, err := s.backend.Get(ctx, ColSessions, sessionID)
	if err != nil {
		return nil, err
	}
	return decodeSession(rec)
}

// GetProjectConversations returns every conversation belonging to the
// project, newest-first. An unknown project yields an empty result, not an
// error.
func (s *Store) GetProjectConversations(ctx context.Context, projectID string) ([]*Conversation, error) {
	recs, err := s.backend.GetAllByIndex(ctx, ColConversations, projectID)
	if err != nil {
		return nil, err
	}
	return decodeConversations(recs)
}

// GetConversationContext returns the windowed summary for a session: the
// last messageLimit messages in original order, the full project context,
// and the total message count. A non-positive limit, or one at least the
// sequence length, returns every message. ErrNotFound when the session has
// no conversation.
func (s *Store) GetConversationContext(ctx context.Context, sessionID string, messageLimit int) (*ConversationContext, error) {
	conv, err := s.GetConversation(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	total := len(conv.Messages)
	messages := conv.Messages
	if messageLimit > 0 && messageLimit < total {
		messages = messages[total-messageLimit:]
	}

	return &ConversationContext{
		SessionID:      conv.SessionID,
		ProjectID:      conv.ProjectID,
		Messages:       messages,
		ProjectContext: conv.ProjectContext,
		TotalMessages:  total,
	}, nil
}

// ListConversations returns a listing row for every stored conversation,
// newest-first, with session names joined in.
func (s *Store) ListConversations(ctx context.Context) ([]ConversationMeta, error) {
	recs, err := s.backend.GetAll(ctx, ColConversations)
	if err != nil {
		return nil, err
	}

	sessRecs, err := s.backend.GetAll(ctx, ColSessions)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(sessRecs))
	for _, rec := range sessRecs {
		sess, err := decodeSession(rec)
		if err != nil {
			return nil, err
		}
		names[sess.ID] = sess.Name
	}

	metas := make([]ConversationMeta, 0, len(recs))
	for _, rec := range recs {
		conv, err := decodeConversation(rec)
		if err != nil {
			return nil, err
		}
		metas = append(metas, ConversationMeta{
			SessionID:     conv.SessionID,
			ProjectID:     conv.ProjectID,
			Name:          names[conv.SessionID],
			CreatedAt:     conv.CreatedAt,
			UpdatedAt:     conv.UpdatedAt,
			MessageCount:  conv.MessageCount(),
			ArtifactCount: conv.ArtifactCount(),
			Preview:       conv.Preview(),
		})
	}
	return metas, nil
}

// =============================================================================
// RECORD CODEC
// =============================================================================

func (s *Store) putConversation(ctx context.Context, conv *Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("%w: failed to encode conversation %s: %v", ErrBackend, conv.SessionID, err)
	}
	return s.backend.Put(ctx, ColConversations, &Record{
		Key:       conv.SessionID,
		ProjectID: conv.ProjectID,
		UpdatedAt: conv.UpdatedAt,
		Version:   conv.Version,
		Data:      data,
	})
}

func (s *Store) putSession(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: failed to encode session %s: %v", ErrBackend, sess.ID, err)
	}
	return s.backend.Put(ctx, ColSessions, &Record{
		Key:       sess.ID,
		ProjectID: sess.ProjectID,
		UpdatedAt: sess.UpdatedAt,
		Version:   1,
		Data:      data,
	})
}

func decodeConversation(rec *Record) (*Conversation, error) {
	var conv Conversation
	if err := json.Unmarshal(rec.Data, &conv); err != nil {
		return nil, fmt.Errorf("%w: failed to decode conversation %s: %v", ErrBackend, rec.Key, err)
	}
	return &conv, nil
}

func decodeConversations(recs []*Record) ([]*Conversation, error) {
	convs := make([]*Conversation, 0, len(recs))
	for _, rec := range recs {
		conv, err := decodeConversation(rec)
		if err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, nil
}

func decodeSession(rec *Record) (*Session, error) {
	var sess Session
	if err := json.Unmarshal(rec.Data, &sess); err != nil {
		return nil, fmt.Errorf("%w: failed to decode session %s: %v", ErrBackend, rec.Key, err)
	}
	return &sess, nil
}
