// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// types.go - Record types persisted by the conversation store.

package store

import (
	"time"

	"github.com/jeranaias/convstore/internal/util"
)

// =============================================================================
// ENUMS
// =============================================================================

// MessageKind identifies who produced a message.
type MessageKind string

const (
	KindUser   MessageKind = "user"
	KindAgent  MessageKind = "agent"
	KindSystem MessageKind = "system"
)

// String returns the string representation of the message kind.
func (k MessageKind) String() string {
	return string(k)
}

// IsValid checks if the message kind is one of the defined values.
func (k MessageKind) IsValid() bool {
	switch k {
	case KindUser, KindAgent, KindSystem:
		return true
	}
	return false
}

// AgentType labels which agent category produced a message or artifact.
// Empty means no agent attribution (e.g. a user message).
type AgentType string

const (
	AgentProductManager    AgentType = "product_manager"
	AgentBusinessAnalyst   AgentType = "business_analyst"
	AgentSoftwareDeveloper AgentType = "software_developer"
	AgentQAEngineer        AgentType = "qa_engineer"
	AgentDevOpsEngineer    AgentType = "devops_engineer"
)

// String returns the string representation of the agent type.
func (a AgentType) String() string {
	return string(a)
}

// IsValid checks if the agent type is one of the defined values.
// The empty string is not valid; callers treat empty as "no agent".
func (a AgentType) IsValid() bool {
	switch a {
	case AgentProductManager, AgentBusinessAnalyst, AgentSoftwareDeveloper,
		AgentQAEngineer, AgentDevOpsEngineer:
		return true
	}
	return false
}

// ContextType names one of the fixed project-context slots.
type ContextType string

const (
	ContextRequirements ContextType = "requirements"
	ContextArchitecture ContextType = "architecture"
	ContextCodebase     ContextType = "codebase"
	ContextCompliance   ContextType = "compliance"
)

// String returns the string representation of the context type.
func (c ContextType) String() string {
	return string(c)
}

// IsValid checks if the context type is one of the fixed slots.
func (c ContextType) IsValid() bool {
	switch c {
	case ContextRequirements, ContextArchitecture, ContextCodebase, ContextCompliance:
		return true
	}
	return false
}

// ContextTypes returns the fixed slots in display order.
func ContextTypes() []ContextType {
	return []ContextType{
		ContextRequirements,
		ContextArchitecture,
		ContextCodebase,
		ContextCompliance,
	}
}

// Suggested artifact kinds. Artifact.Kind is free-form; these are the values
// the agents are known to emit.
const (
	ArtifactCode     = "code"
	ArtifactDocument = "document"
	ArtifactConfig   = "config"
	ArtifactData     = "data"
)

// =============================================================================
// RECORDS
// =============================================================================

// Session is the top-level record for one user interaction period. Sessions
// are created once and never deleted by the store.
type Session struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Active    bool           `json:"active"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Message is a single entry in a conversation's append-only sequence.
// Messages are immutable once created.
type Message struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Kind      MessageKind `json:"kind"`
	Agent     AgentType   `json:"agent,omitempty"`
	Content   string      `json:"content"`
	// Artifacts holds IDs of artifacts referenced by this message. The
	// Artifact records themselves live in the conversation's ProjectContext.
	Artifacts []string       `json:"artifacts,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Artifact is a generated output (code, document, config) attached to a
// conversation's project context. Immutable once created.
type Artifact struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Language  string    `json:"language,omitempty"`
	Path      string    `json:"path,omitempty"`
	Agent     AgentType `json:"agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContextEntry is the value stored under one context-type slot. Data is
// shallow-merged on update: top-level keys overwrite, nested values are
// replaced wholesale.
type ContextEntry struct {
	Data      map[string]any `json:"data"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ProjectContext is the structured project knowledge carried by a
// conversation: one mergeable entry per fixed context type plus an
// append-only artifact list.
type ProjectContext struct {
	Requirements *ContextEntry `json:"requirements,omitempty"`
	Architecture *ContextEntry `json:"architecture,omitempty"`
	Codebase     *ContextEntry `json:"codebase,omitempty"`
	Compliance   *ContextEntry `json:"compliance,omitempty"`
	Artifacts    []Artifact    `json:"artifacts"`
}

// Entry returns the entry stored under the given context type, or nil.
func (pc *ProjectContext) Entry(ct ContextType) *ContextEntry {
	switch ct {
	case ContextRequirements:
		return pc.Requirements
	case ContextArchitecture:
		return pc.Architecture
	case ContextCodebase:
		return pc.Codebase
	case ContextCompliance:
		return pc.Compliance
	}
	return nil
}

func (pc *ProjectContext) setEntry(ct ContextType, e *ContextEntry) {
	switch ct {
	case ContextRequirements:
		pc.Requirements = e
	case ContextArchitecture:
		pc.Architecture = e
	case ContextCodebase:
		pc.Codebase = e
	case ContextCompliance:
		pc.Compliance = e
	}
}

// Conversation is the message history and project context tied one-to-one to
// a Session. Messages are never reordered or removed once appended.
type Conversation struct {
	SessionID      string         `json:"session_id"`
	ProjectID      string         `json:"project_id"`
	Messages       []Message      `json:"messages"`
	ProjectContext ProjectContext `json:"project_context"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	// Version is the optimistic concurrency stamp, starting at 1 and
	// incremented by every mutation. See Backend.Put.
	Version int64 `json:"version"`
}

// MessageCount returns the number of messages in the conversation.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// ArtifactCount returns the number of artifacts in the project context.
func (c *Conversation) ArtifactCount() int {
	return len(c.ProjectContext.Artifacts)
}

// Preview returns the first user message truncated for display, falling back
// to the first message of any kind.
func (c *Conversation) Preview() string {
	for _, msg := range c.Messages {
		if msg.Kind == KindUser {
			return util.TruncateRunes(util.FirstLine(msg.Content), previewRunes)
		}
	}
	if len(c.Messages) > 0 {
		return util.TruncateRunes(util.FirstLine(c.Messages[0].Content), previewRunes)
	}
	return ""
}

// previewRunes caps the preview length in list output.
const previewRunes = 50

// Project is declared for forward compatibility. No operation populates or
// queries it; the projects collection exists but stays empty.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// =============================================================================
// DERIVED VIEWS
// =============================================================================

// ConversationMeta is a listing row derived from a stored conversation and
// its session, without materializing message bodies for display.
type ConversationMeta struct {
	SessionID     string    `json:"session_id"`
	ProjectID     string    `json:"project_id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	MessageCount  int       `json:"message_count"`
	ArtifactCount int       `json:"artifact_count"`
	Preview       string    `json:"preview"`
}

// ConversationContext is the windowed summary returned by
// GetConversationContext: the most recent messages plus the full project
// context and the total message count.
type ConversationContext struct {
	SessionID      string         `json:"session_id"`
	ProjectID      string         `json:"project_id"`
	Messages       []Message      `json:"messages"`
	ProjectContext ProjectContext `json:"project_context"`
	TotalMessages  int            `json:"total_messages"`
}

// SearchResult is one matching message from SearchConversations.
type SearchResult struct {
	SessionID string  `json:"session_id"`
	ProjectID string  `json:"project_id"`
	Message   Message `json:"message"`
	Relevance int     `json:"relevance"`
}

// Stats aggregates store-wide counts from the active backend.
type Stats struct {
	TotalConversations int    `json:"total_conversations"`
	TotalMessages      int    `json:"total_messages"`
	TotalArtifacts     int    `json:"total_artifacts"`
	Sessions           int    `json:"sessions"`
	Projects           int    `json:"projects"`
	Backend            string `json:"backend"`
}
