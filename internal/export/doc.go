// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides conversation export functionality for convstore.
//
// This package supports exporting conversations to various formats with
// metadata, project context, artifact contents, and optional opening in
// external applications.
//
// # Key Types
//
//   - Exporter: Main export interface
//   - Options: Export configuration options
//
// # Supported Formats
//
//   - Markdown: Human-readable with YAML frontmatter
//   - JSON: Machine-readable with full session and conversation data
//   - Text: Plain text for pagers and terminals
//   - YAML: Machine-readable, keys match the JSON form
//
// # Usage
//
// Export a conversation to a file:
//
//	exporter, err := export.NewExporter("markdown", nil)
//	if err != nil {
//	    return err
//	}
//	path, err := export.ExportToFile(conv, sess, exporter, nil)
package export
