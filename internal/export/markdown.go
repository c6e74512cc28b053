// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/convstore/internal/store"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a conversation to Markdown format.
func (e *MarkdownExporter) Export(conv *store.Conversation, sess *store.Session) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}
	if sess == nil {
		return nil, fmt.Errorf("session is nil")
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(sess.Name)))
		sb.WriteString(fmt.Sprintf("session: %s\n", sess.ID))
		sb.WriteString(fmt.Sprintf("project: %s\n", sess.ProjectID))
		sb.WriteString(fmt.Sprintf("date: %s\n", conv.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("updated: %s\n", conv.UpdatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", conv.MessageCount()))
		if conv.ArtifactCount() > 0 {
			sb.WriteString(fmt.Sprintf("artifacts: %d\n", conv.ArtifactCount()))
		}
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: convstore\n")
		sb.WriteString("---\n\n")
	}

	// Title
	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(sess.Name)))

	// Metadata section
	if e.options.IncludeMetadata {
		sb.WriteString("## Session Information\n\n")
		sb.WriteString(fmt.Sprintf("- **Session**: %s\n", sess.ID))
		sb.WriteString(fmt.Sprintf("- **Project**: %s\n", sess.ProjectID))
		sb.WriteString(fmt.Sprintf("- **Created**: %s\n", formatTimestamp(conv.CreatedAt)))
		sb.WriteString(fmt.Sprintf("- **Last Updated**: %s\n", formatTimestamp(conv.UpdatedAt)))
		sb.WriteString(fmt.Sprintf("- **Messages**: %d\n", conv.MessageCount()))
		if conv.ArtifactCount() > 0 {
			sb.WriteString(fmt.Sprintf("- **Artifacts**: %d\n", conv.ArtifactCount()))
		}
		sb.WriteString("\n---\n\n")
	}

	// Conversation messages
	sb.WriteString("## Conversation\n\n")

	if len(conv.Messages) == 0 {
		sb.WriteString("*No messages yet.*\n\n")
	}

	for i, msg := range conv.Messages {
		label := "[" + agentLabel(&msg) + "]"
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n",
				label,
				formatShortTimestamp(msg.CreatedAt)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")

		if len(msg.Artifacts) > 0 && e.options.IncludeMetadata {
			sb.WriteString(fmt.Sprintf("<sub>Artifacts: %s</sub>\n\n",
				strings.Join(msg.Artifacts, ", ")))
		}

		// Add separator between messages (except last)
		if i < len(conv.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	// Project context entries
	if e.options.IncludeContext {
		e.writeProjectContext(&sb, &conv.ProjectContext)
	}

	// Artifact contents
	if e.options.IncludeArtifacts && conv.ArtifactCount() > 0 {
		e.writeArtifacts(&sb, conv.ProjectContext.Artifacts)
	}

	// Footer
	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from convstore on %s*\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// writeProjectContext renders the populated context slots as fenced JSON.
func (e *MarkdownExporter) writeProjectContext(sb *strings.Builder, pc *store.ProjectContext) {
	var populated []store.ContextType
	for _, ct := range store.ContextTypes() {
		if pc.Entry(ct) != nil {
			populated = append(populated, ct)
		}
	}
	if len(populated) == 0 {
		return
	}

	sb.WriteString("## Project Context\n\n")
	for _, ct := range populated {
		entry := pc.Entry(ct)
		sb.WriteString(fmt.Sprintf("### %s\n\n", titleCase(ct.String())))
		sb.WriteString(fmt.Sprintf("*Updated %s*\n\n", formatTimestamp(entry.UpdatedAt)))

		data, err := json.MarshalIndent(entry.Data, "", "  ")
		if err != nil {
			data = []byte("{}")
		}
		sb.WriteString("```json\n")
		sb.Write(data)
		sb.WriteString("\n```\n\n")
	}
}

// writeArtifacts renders each artifact with its content fenced by language.
func (e *MarkdownExporter) writeArtifacts(sb *strings.Builder, artifacts []store.Artifact) {
	sb.WriteString("## Artifacts\n\n")

	for _, art := range artifacts {
		sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", escapeMarkdown(art.Name), art.Kind))
		if art.Language != "" {
			sb.WriteString(fmt.Sprintf("- **Language**: %s\n", art.Language))
		}
		if art.Path != "" {
			sb.WriteString(fmt.Sprintf("- **Path**: `%s`\n", art.Path))
		}
		if art.Agent != "" {
			sb.WriteString(fmt.Sprintf("- **Agent**: %s\n", art.Agent))
		}
		sb.WriteString(fmt.Sprintf("- **Created**: %s\n\n", formatTimestamp(art.CreatedAt)))

		// Language names come from stored data; strip backticks so a hostile
		// value cannot break out of the fence line.
		lang := strings.ReplaceAll(art.Language, "`", "")
		sb.WriteString(fmt.Sprintf("```%s\n", lang))
		sb.WriteString(strings.TrimRight(art.Content, "\n"))
		sb.WriteString("\n```\n\n")
	}
}

// titleCase uppercases the first rune of a label.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only escape characters that would break formatting in titles/headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	// Quote if contains special characters (including backslash)
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		// Escape special characters including newlines and backslashes
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
