// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// add_cmd.go - Message append CLI command for convstore.
//
// Appends one message to a session's conversation. Messages are immutable
// once stored and the sequence is append-only, so there is no edit or
// delete counterpart to this command.
//
// Command: add SESSION_ID
// Short:   Append a message to a conversation
// Aliases: message, msg
//
// SESSION_ID may be a session ID or the numeric index shown by
// "convstore list".
//
// Examples:
//   convstore add sess_123 --content "Design the login flow"
//   convstore add sess_123 --content "Use OAuth2" --kind agent --agent product_manager
//   convstore add sess_123 --file ./notes.md --kind system
//   convstore add sess_123 --content "See attached" --artifacts art_1,art_2
//
// Flags:
//   --content TEXT       Message body (mutually exclusive with --file)
//   --file PATH          Read the message body from a file
//   --kind KIND          Message kind: user, agent, system (default: user)
//   --agent AGENT        Agent label for agent messages (e.g. product_manager)
//   --artifacts ID,...   Artifact IDs this message references
//   --json               Output in JSON format

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/convstore/internal/store"
	"github.com/jeranaias/convstore/internal/util"
)

const addUsage = "convstore add SESSION_ID --content TEXT (or --file PATH)"

// HandleAdd handles the "add" command.
func HandleAdd(args Args) error {
	parser := NewArgParser(args.Raw)

	sessionID := parser.Positional(0)
	if sessionID == "" {
		return ErrMissingArgument("session ID", addUsage)
	}

	content, _, err := resolveContent(parser, addUsage)
	if err != nil {
		return err
	}

	msg := store.Message{
		Kind:      store.MessageKind(strings.ToLower(parser.Flag("kind"))),
		Agent:     store.AgentType(strings.ToLower(parser.Flag("agent"))),
		Content:   content,
		Artifacts: SplitListFlag(parser.Flag("artifacts")),
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

	stored, err := st.AddMessage(ctx, sessionID, msg)
	if err != nil {
		return NewCommandError("add", "append message", err)
	}

	if args.JSON {
		return NewJSONResponse("add", stored).Print()
	}
	outputAddText(stored, args.Quiet)
	return nil
}

// outputAddText outputs the stored message in human-readable format.
func outputAddText(msg *store.Message, quiet bool) {
	if quiet {
		fmt.Println(msg.ID)
		return
	}

	fmt.Println()
	fmt.Println(SuccessStyle.Render("Message added"))
	fmt.Println()
	fmt.Printf("%s %s\n", RenderLabel("ID:"), msg.ID)
	fmt.Printf("%s %s\n", RenderLabel("Session:"), msg.SessionID)
	fmt.Printf("%s %s\n", RenderLabel("From:"), messageLabel(*msg))
	if len(msg.Artifacts) > 0 {
		fmt.Printf("%s %s\n", RenderLabel("Artifacts:"), strings.Join(msg.Artifacts, ", "))
	}
	fmt.Printf("%s %s\n", RenderLabel("Content:"),
		util.TruncateRunes(util.FirstLine(msg.Content), 60))
	fmt.Println()
}
