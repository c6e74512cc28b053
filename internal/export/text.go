// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/convstore/internal/store"
)

// =============================================================================
// TEXT EXPORTER
// =============================================================================

const textRuleWidth = 72

// TextExporter exports conversations to plain text, suitable for pagers and
// terminals with no Markdown rendering.
type TextExporter struct {
	options *Options
}

// NewTextExporter creates a new plain-text exporter.
func NewTextExporter(opts *Options) *TextExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &TextExporter{options: opts}
}

// Export converts a conversation to plain text.
func (e *TextExporter) Export(conv *store.Conversation, sess *store.Session) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	if sess == nil {
		return nil, fmt.Errorf("session is nil")
	}

	var sb strings.Builder
	heavy := strings.Repeat("=", textRuleWidth)
	light := strings.Repeat("-", textRuleWidth)

	sb.WriteString(heavy + "\n")
	sb.WriteString(" " + sess.Name + "\n")
	sb.WriteString(heavy + "\n")

	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("Session:  %s\n", sess.ID))
		sb.WriteString(fmt.Sprintf("Project:  %s\n", sess.ProjectID))
		sb.WriteString(fmt.Sprintf("Created:  %s\n", formatTimestamp(conv.CreatedAt)))
		sb.WriteString(fmt.Sprintf("Updated:  %s\n", formatTimestamp(conv.UpdatedAt)))
		sb.WriteString(fmt.Sprintf("Messages: %d\n", conv.MessageCount()))
		if conv.ArtifactCount() > 0 {
			sb.WriteString(fmt.Sprintf("Artifacts: %d\n", conv.ArtifactCount()))
		}
	}
	sb.WriteString("\n")

	if len(conv.Messages) == 0 {
		sb.WriteString("(no messages)\n")
	}

	for _, msg := range conv.Messages {
		sb.WriteString(light + "\n")
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("[%s] %s\n", agentLabel(&msg), formatTimestamp(msg.CreatedAt)))
		} else {
			sb.WriteString(fmt.Sprintf("[%s]\n", agentLabel(&msg)))
		}
		sb.WriteString(light + "\n")
		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")
	}

	if e.options.IncludeArtifacts && conv.ArtifactCount() > 0 {
		sb.WriteString(heavy + "\n")
		sb.WriteString(" Artifacts\n")
		sb.WriteString(heavy + "\n\n")
		for _, art := range conv.ProjectContext.Artifacts {
			sb.WriteString(fmt.Sprintf("%s (%s)", art.Name, art.Kind))
			if art.Path != "" {
				sb.WriteString(" - " + art.Path)
			}
			sb.WriteString("\n")
			sb.WriteString(light + "\n")
			sb.WriteString(strings.TrimRight(art.Content, "\n"))
			sb.WriteString("\n\n")
		}
	}

	sb.WriteString(fmt.Sprintf("Exported from convstore on %s\n",
		time.Now().Format("2006-01-02 15:04:05")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for plain text.
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns the MIME type for plain text.
func (e *TextExporter) MimeType() string {
	return "text/plain"
}
