// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/convstore/internal/store"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// document is the complete export payload shared by the JSON and YAML
// exporters: the session record plus its full conversation.
type document struct {
	Session      *store.Session      `json:"session"`
	Conversation *store.Conversation `json:"conversation"`
	ExportedAt   string              `json:"exported_at"`
	Generator    string              `json:"generator"`
}

func newDocument(conv *store.Conversation, sess *store.Session) *document {
	return &document{
		Session:      sess,
		Conversation: conv,
		ExportedAt:   time.Now().Format(time.RFC3339),
		Generator:    "convstore",
	}
}

// JSONExporter exports conversations to JSON format.
// NOTE: JSON exports always include the complete conversation data structure
// and do not respect filtering options. This ensures the exported JSON is a
// faithful representation of the stored conversation.
type JSONExporter struct {
	// Options are accepted but currently not used for filtering.
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
// The options parameter is accepted for consistency with other exporters,
// but JSON exports always include complete conversation data.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// Export converts a conversation to JSON format.
// NOTE: This always exports the complete conversation regardless of options.
func (e *JSONExporter) Export(conv *store.Conversation, sess *store.Session) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	if sess == nil {
		return nil, fmt.Errorf("session is nil")
	}

	return json.MarshalIndent(newDocument(conv, sess), "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
