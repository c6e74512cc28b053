// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared helper functions used across multiple CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/convstore/internal/config"
	"github.com/jeranaias/convstore/internal/store"
)

// =============================================================================
// STORE WIRING
// =============================================================================

// openStore loads configuration, applies global flag overrides, and opens
// the conversation store. Every command that touches the store goes through
// this helper so flag precedence behaves identically everywhere.
func openStore(args Args) (*store.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		if cfg == nil {
			return nil, nil, WrapError(err, "failed to load config")
		}
		// Load falls back to defaults on a broken config file; say so
		// rather than silently ignoring the file.
		StderrPrintln(fmt.Sprintf("Warning: %v (using defaults)", err))
	}

	// CLI flags override config and environment
	if args.Backend != "" {
		cfg.Storage.Backend = args.Backend
	}
	if args.DataDir != "" {
		cfg.Storage.DataDir = args.DataDir
	}
	if args.Backend != "" {
		if err := cfg.Migrate(); err != nil {
			return nil, nil, WrapError(err, "failed to normalize config")
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, nil, WrapError(err, "failed to resolve data directory")
	}

	st, err := store.Open(store.Options{
		DataDir: dataDir,
		Backend: cfg.Storage.Backend,
	})
	if err != nil {
		return nil, nil, WrapError(err, "failed to open store")
	}

	return st, cfg, nil
}

// resolveSessionID turns a list index (as printed by "convstore list") into
// the session ID at that position, newest first. Anything that does not
// parse as a positive integer is returned unchanged and treated as an ID.
func resolveSessionID(ctx context.Context, st *store.Store, idOrIndex string) (string, error) {
	index, err := strconv.Atoi(idOrIndex)
	if err != nil || index < 1 {
		return idOrIndex, nil
	}

	metas, err := st.ListConversations(ctx)
	if err != nil {
		return "", WrapError(err, "failed to list conversations")
	}
	if index > len(metas) {
		return "", &NotFoundError{Resource: "conversation", ID: idOrIndex}
	}
	return metas[index-1].SessionID, nil
}

// =============================================================================
// INPUT HELPERS
// =============================================================================

// resolveContent returns message or artifact content from either a --content
// flag value or a --file path, enforcing that exactly one is provided.
func resolveContent(parser *ArgParser, usage string) (content, fromFile string, err error) {
	text := parser.Flag("content")
	file := parser.Flag("file")

	switch {
	case text != "" && file != "":
		return "", "", NewValidationError("content", "",
			"--content and --file are mutually exclusive")
	case text != "":
		return text, "", nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", "", WrapError(err, fmt.Sprintf("failed to read %s", file))
		}
		return string(data), file, nil
	default:
		return "", "", ErrMissingArgument("content", usage)
	}
}

// parseKeyValuePairs converts "key=value" positionals into a map. Values
// that parse as JSON keep their JSON type (numbers, booleans, objects,
// arrays); everything else stays a string.
func parseKeyValuePairs(pairs []string) (map[string]any, error) {
	data := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, NewValidationErrorWithExample(
				"context data", pair,
				"expected key=value",
				"auth=oauth2 or retries=3",
			)
		}
		var typed any
		if err := json.Unmarshal([]byte(value), &typed); err == nil {
			data[key] = typed
		} else {
			data[key] = value
		}
	}
	return data, nil
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

// formatBytes formats a byte count for display.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}

// formatTimeAgo renders a timestamp as a relative age for table columns.
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}

// messageLabel renders a message's origin for display: the kind, or the
// agent label for agent messages that carry one.
func messageLabel(msg store.Message) string {
	if msg.Kind == store.KindAgent && msg.Agent != "" {
		return string(msg.Agent)
	}
	return strings.ToUpper(string(msg.Kind))
}

// contextEntrySummary lists which context types hold data, for one-line
// display. Returns "(none)" when every slot is empty.
func contextEntrySummary(pc store.ProjectContext) string {
	var set []string
	for _, ct := range store.ContextTypes() {
		if entry := pc.Entry(ct); entry != nil && len(entry.Data) > 0 {
			set = append(set, string(ct))
		}
	}
	if len(set) == 0 {
		return "(none)"
	}
	return strings.Join(set, ", ")
}
