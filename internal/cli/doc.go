// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for
// convstore.
//
// This package implements all CLI commands for inspecting and mutating the
// conversation store, with separate text and JSON output paths for every
// command.
//
// # Key Types
//
//   - Command: enumeration of all available CLI commands
//   - Args: parsed command-line arguments with global flags
//   - ArgParser: unified flag/positional parsing used by every handler
//   - JSONResponse: the envelope emitted by every command in --json mode
//
// # Usage
//
// Parse and execute commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdNew:
//	    err = cli.HandleNew(args)
//	case cli.CmdAdd:
//	    err = cli.HandleAdd(args)
//	// ... other commands
//	}
//
// # Commands Overview
//
// Write commands:
//   - new: create a session with its empty conversation
//   - add: append a message to a conversation
//   - context: shallow-merge data into a project context entry
//   - artifact: attach a generated artifact to a conversation
//
// Read commands:
//   - show: display a conversation (windowed or full)
//   - list: list all conversations
//   - search: keyword search across message content
//   - stats: store-wide counts
//
// Utility commands:
//   - export: write a conversation transcript (markdown/json/text/yaml)
//   - config: view and modify configuration
//
// All commands support the --json flag for machine-readable output.
package cli
