// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect provides language and kind detection for artifacts.
//
// Detection combines filename matching with content analysis so artifacts
// added without explicit annotations still carry useful labels.
package detect

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// =============================================================================
// LANGUAGE DETECTION
// =============================================================================

// Language identifies the programming language of an artifact from its path
// and, failing that, its content. Returns the lowercased lexer name
// (e.g. "go", "python", "yaml") or "" when nothing matches.
func Language(path, content string) string {
	var lexer chroma.Lexer

	if path != "" {
		lexer = lexers.Match(filepath.Base(path))
	}
	if lexer == nil && content != "" {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		return ""
	}

	return strings.ToLower(lexer.Config().Name)
}

// =============================================================================
// KIND CLASSIFICATION
// =============================================================================

// Artifact kinds understood by the store.
const (
	kindCode     = "code"
	kindDocument = "document"
	kindConfig   = "config"
	kindData     = "data"
)

// configLanguages are detected languages that describe configuration rather
// than executable code.
var configLanguages = map[string]bool{
	"json":       true,
	"yaml":       true,
	"toml":       true,
	"ini":        true,
	"properties": true,
	"hcl":        true,
	"terraform":  true,
	"docker":     true,
}

// documentLanguages are detected languages for prose documents.
var documentLanguages = map[string]bool{
	"markdown":         true,
	"plaintext":        true,
	"restructuredtext": true,
	"org mode":         true,
}

// dataExtensions mark raw data files that no lexer claims.
var dataExtensions = map[string]bool{
	".csv":     true,
	".tsv":     true,
	".jsonl":   true,
	".ndjson":  true,
	".parquet": true,
}

// Kind suggests an artifact kind ("code", "document", "config", "data") for
// a path and its detected language.
func Kind(path, language string) string {
	if ext := strings.ToLower(filepath.Ext(path)); dataExtensions[ext] {
		return kindData
	}

	switch {
	case language == "":
		return kindDocument
	case configLanguages[language]:
		return kindConfig
	case documentLanguages[language]:
		return kindDocument
	default:
		return kindCode
	}
}
