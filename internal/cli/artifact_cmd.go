// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// artifact_cmd.go - Artifact attach CLI command for convstore.
//
// Attaches a generated output (code, document, config, data) to a
// conversation's project context. Artifacts are immutable and the list is
// append-only. Language and kind are detected from the file name and
// content when not given explicitly.
//
// Command: artifact SESSION_ID
// Short:   Attach a generated artifact to a conversation
// Aliases: art
//
// Examples:
//   convstore artifact sess_123 --file ./login.go --agent software_developer
//   convstore artifact sess_123 --name schema.sql --file ./db/schema.sql
//   convstore artifact sess_123 --name notes --content "..." --kind document
//
// Flags:
//   --name NAME        Artifact name (default: the file's base name)
//   --content TEXT     Artifact body (mutually exclusive with --file)
//   --file PATH        Read the artifact body from a file
//   --kind KIND        code, document, config, data (default: detected)
//   --language LANG    Language tag (default: detected from name/content)
//   --path PATH        Source path to record (default: the --file value)
//   --agent AGENT      Agent label (e.g. software_developer)
//   --json             Output in JSON format

package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jeranaias/convstore/internal/detect"
	"github.com/jeranaias/convstore/internal/store"
)

const artifactUsage = "convstore artifact SESSION_ID --name NAME --content TEXT (or --file PATH)"

// HandleArtifact handles the "artifact" command.
func HandleArtifact(args Args) error {
	parser := NewArgParser(args.Raw)

	sessionID := parser.Positional(0)
	if sessionID == "" {
		return ErrMissingArgument("session ID", artifactUsage)
	}

	content, fromFile, err := resolveContent(parser, artifactUsage)
	if err != nil {
		return err
	}

	name := parser.Flag("name")
	if name == "" && fromFile != "" {
		name = filepath.Base(fromFile)
	}
	if name == "" {
		return ErrMissingArgument("--name", artifactUsage)
	}

	path := parser.FlagOrDefault("path", fromFile)
	language := parser.Flag("language")
	if language == "" {
		language = detect.Language(firstNonEmpty(path, name), content)
	}
	kind := strings.ToLower(parser.Flag("kind"))
	if kind == "" {
		kind = detect.Kind(firstNonEmpty(path, name), language)
	}

	art := store.Artifact{
		Kind:     kind,
		Name:     name,
		Content:  content,
		Language: language,
		Path:     path,
		Agent:    store.AgentType(strings.ToLower(parser.Flag("agent"))),
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

	stored, err := st.AddArtifact(ctx, sessionID, art)
	if err != nil {
		return NewCommandError("artifact", "attach artifact", err)
	}

	if args.JSON {
		return NewJSONResponse("artifact", stored).Print()
	}
	outputArtifactText(sessionID, stored, args.Quiet)
	return nil
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// outputArtifactText outputs the stored artifact in human-readable format.
func outputArtifactText(sessionID string, art *store.Artifact, quiet bool) {
	if quiet {
		fmt.Println(art.ID)
		return
	}

	fmt.Println()
	fmt.Println(SuccessStyle.Render("Artifact attached"))
	fmt.Println()
	fmt.Printf("%s %s\n", RenderLabel("ID:"), art.ID)
	fmt.Printf("%s %s\n", RenderLabel("Session:"), sessionID)
	fmt.Printf("%s %s\n", RenderLabel("Name:"), art.Name)
	fmt.Printf("%s %s\n", RenderLabel("Kind:"), art.Kind)
	if art.Language != "" {
		fmt.Printf("%s %s\n", RenderLabel("Language:"), art.Language)
	}
	if art.Path != "" {
		fmt.Printf("%s %s\n", RenderLabel("Path:"), art.Path)
	}
	fmt.Printf("%s %s\n", RenderLabel("Size:"), formatBytes(int64(len(art.Content))))
	fmt.Println()
}
