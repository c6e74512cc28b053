// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// context_cmd.go - Project context update CLI command for convstore.
//
// Merges data into one of a conversation's fixed context slots:
// requirements, architecture, codebase, or compliance. The merge is
// shallow: top-level keys overwrite, nested values are replaced wholesale.
//
// Command: context SESSION_ID TYPE [key=value]...
// Short:   Merge data into a project context entry
// Aliases: ctx
//
// Examples:
//   convstore context sess_123 requirements auth=oauth2 storage=postgres
//   convstore context sess_123 architecture --data '{"style":"hexagonal","services":3}'
//   convstore context sess_123 compliance reviewed=true standard=soc2
//
// Flags:
//   --data JSON    JSON object merged before the key=value pairs
//   --json         Output in JSON format
//
// Values in key=value pairs are parsed as JSON when possible (numbers,
// booleans, quoted strings, objects); anything that does not parse is
// stored as a plain string. Pairs override keys from --data.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/convstore/internal/store"
)

const contextUsage = "convstore context SESSION_ID TYPE [key=value]... [--data JSON]"

// ContextOutput is the JSON output format for the context command.
type ContextOutput struct {
	SessionID   string              `json:"session_id"`
	ContextType string              `json:"context_type"`
	Entry       *store.ContextEntry `json:"entry"`
}

// HandleContext handles the "context" command.
func HandleContext(args Args) error {
	parser := NewArgParser(args.Raw)

	sessionID := parser.Positional(0)
	if sessionID == "" {
		return ErrMissingArgument("session ID", contextUsage)
	}

	contextType := strings.ToLower(parser.Positional(1))
	if contextType == "" {
		return NewValidationErrorWithExample("context type", "",
			"one of: requirements, architecture, codebase, compliance",
			contextUsage)
	}

	data, err := collectContextData(parser)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return NewValidationErrorWithExample("context data", "",
			"provide key=value pairs or --data JSON",
			"convstore context sess_123 requirements auth=oauth2")
	}

	st, _, err := openStore(args)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	sessionID, err = resolveSessionID(ctx, st, sessionID)
	if err != nil {
		return err
	}

	entry, err := st.UpdateProjectContext(ctx, sessionID,
		store.ContextType(contextType), data)
	if err != nil {
		return NewCommandError("context", "update project context", err)
	}

	if args.JSON {
		return NewJSONResponse("context", ContextOutput{
			SessionID:   sessionID,
			ContextType: contextType,
			Entry:       entry,
		}).Print()
	}
	outputContextText(sessionID, contextType, entry, args.Quiet)
	return nil
}

// collectContextData builds the merge payload from --data JSON and the
// key=value positionals after the context type. Pairs win over --data.
func collectContextData(parser *ArgParser) (map[string]any, error) {
	data := make(map[string]any)

	if raw := parser.Flag("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, NewValidationErrorWithExample("--data", raw,
				"not a JSON object",
				`--data '{"style":"hexagonal"}'`)
		}
	}

	pairs, err := parseKeyValuePairs(parser.PositionalFrom(2))
	if err != nil {
		return nil, err
	}
	for k, v := range pairs {
		data[k] = v
	}

	return data, nil
}

// outputContextText outputs the merged entry in human-readable format.
func outputContextText(sessionID, contextType string, entry *store.ContextEntry, quiet bool) {
	if quiet {
		return
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println()
	fmt.Println(SuccessStyle.Render("Context updated"))
	fmt.Println()
	fmt.Printf("%s %s\n", RenderLabel("Session:"), sessionID)
	fmt.Printf("%s %s\n", RenderLabel("Type:"), contextType)
	fmt.Printf("%s %s\n", RenderLabel("Keys:"), strings.Join(keys, ", "))
	fmt.Printf("%s %s\n", RenderLabel("Updated:"), entry.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Println()
}
