// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Transcript export CLI command for convstore.
//
// Writes a conversation transcript to a file (or stdout) in one of four
// formats. The filename is derived from the session name and a timestamp;
// --output only chooses the directory.
//
// Command: export SESSION_ID
// Short:   Write a conversation transcript to a file
//
// SESSION_ID may be a session ID or the numeric index shown by
// "convstore list".
//
// Examples:
//   convstore export sess_123                      Markdown into the export dir
//   convstore export 1 --format yaml               Newest conversation as YAML
//   convstore export sess_123 --format json --stdout | jq .
//   convstore export sess_123 --no-artifacts --open
//
// Flags:
//   --format FORMAT   markdown, json, text, yaml (default: configured)
//   --output DIR      Output directory (default: configured export dir)
//   --stdout          Write to stdout instead of a file
//   --no-context      Omit project context entries
//   --no-artifacts    Omit artifact contents
//   --no-metadata     Omit the session metadata header
//   --no-timestamps   Omit per-message timestamps
//   --open            Open the exported file afterwards
//   --json            Machine-readable result (path, format, size)

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/convstore/internal/export"
)

const exportUsage = "convstore export SESSION_ID [--format markdown|json|text|yaml] [--output DIR]"

// ExportOutput is the JSON output format for the export command.
type ExportOutput struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// HandleExport handles the "export" command.
func HandleExport(args Args) error {
	parser := NewArgParser(args.Raw)

	sessionID := parser.Positional(0)
	if sessionID == "" {
		return ErrMissingArgument("session ID", exportUsage)
	}

	st, cfg, err := openStore(args)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	sessionID, err = resolveSessionID(ctx, st, sessionID)
	if err != nil {
		return err
	}

	conv, err := st.GetConversation(ctx, sessionID)
	if err != nil {
		return NewCommandError("export", "load conversation", err)
	}
	sess, err := st.GetSession(ctx, sessionID)
	if err != nil {
		return NewCommandError("export", "load session", err)
	}

	format := strings.ToLower(parser.FlagOrDefault("format", cfg.Export.Format))

	opts := export.DefaultOptions()
	if dir := parser.FlagOrDefault("output", cfg.Export.Directory); dir != "" {
		opts.OutputDir = dir
	}
	opts.IncludeContext = !parser.BoolFlag("no-context")
	opts.IncludeArtifacts = !parser.BoolFlag("no-artifacts")
	opts.IncludeMetadata = !parser.BoolFlag("no-metadata")
	opts.IncludeTimestamps = !parser.BoolFlag("no-timestamps")
	opts.OpenAfterExport = parser.BoolFlag("open")

	exporter, err := export.NewExporter(format, opts)
	if err != nil {
		return NewValidationErrorWithExample("--format", format,
			"supported formats: markdown, json, text, yaml",
			"convstore export "+sessionID+" --format yaml")
	}

	// --stdout produces the raw transcript for piping; --json would wrap it
	// in an envelope, so stdout mode wins when both are set.
	if parser.BoolFlag("stdout") {
		content, err := exporter.Export(conv, sess)
		if err != nil {
			return NewCommandError("export", "format transcript", err)
		}
		_, err = os.Stdout.Write(content)
		return err
	}

	path, err := export.ExportToFile(conv, sess, exporter, opts)
	if err != nil {
		return NewCommandError("export", "write transcript", err)
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	if args.JSON {
		return NewJSONResponse("export", ExportOutput{
			SessionID: sessionID,
			Format:    format,
			Path:      path,
			SizeBytes: size,
		}).Print()
	}
	outputExportText(path, format, size, args.Quiet)
	return nil
}

// outputExportText outputs the export result in human-readable format.
func outputExportText(path, format string, size int64, quiet bool) {
	if quiet {
		fmt.Println(path)
		return
	}

	fmt.Println()
	fmt.Println(SuccessStyle.Render("Transcript exported"))
	fmt.Println()
	fmt.Printf("%s %s\n", RenderLabel("File:"), path)
	fmt.Printf("%s %s\n", RenderLabel("Format:"), format)
	if size > 0 {
		fmt.Printf("%s %s\n", RenderLabel("Size:"), formatBytes(size))
	}
	fmt.Println()
}
