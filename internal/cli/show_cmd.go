// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// show_cmd.go - Conversation display CLI command for convstore.
//
// Shows a conversation's recent messages plus its full project context.
// The default window is the configured message limit (20 unless changed);
// --full switches to the entire stored record including the version stamp.
//
// Command: show SESSION_ID
// Short:   Display a conversation
// Aliases: get
//
// SESSION_ID may be a session ID or the numeric index shown by
// "convstore list".
//
// Examples:
//   convstore show sess_123              Last 20 messages plus context
//   convstore show 1                     Newest conversation by list index
//   convstore show sess_123 --limit 5    Last 5 messages
//   convstore show sess_123 --full       Entire conversation record
//   convstore show sess_123 --json       Machine-readable output
//
// Flags:
//   --limit N    Number of recent messages to include (default: configured)
//   --full       Show every message and the record's version stamp
//   --json       Output in JSON format

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/convstore/internal/store"
)

const showUsage = "convstore show SESSION_ID [--limit N] [--full]"

// ShowOutput is the JSON output format for the show command. Context is set
// for the windowed view, Conversation for --full.
type ShowOutput struct {
	Session      *store.Session             `json:"session"`
	Context      *store.ConversationContext `json:"context,omitempty"`
	Conversation *store.Conversation        `json:"conversation,omitempty"`
}

// HandleShow handles the "show" command.
func HandleShow(args Args) error {
	parser := NewArgParser(args.Raw)

	sessionID := parser.Positional(0)
	if sessionID == "" {
		return ErrMissingArgument("session ID", showUsage)
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

	sess, err := st.GetSession(ctx, sessionID)
	if err != nil {
		return NewCommandError("show", "load session", err)
	}

	if parser.BoolFlag("full") {
		conv, err := st.GetConversation(ctx, sessionID)
		if err != nil {
			return NewCommandError("show", "load conversation", err)
		}
		if args.JSON {
			return NewJSONResponse("show", ShowOutput{Session: sess, Conversation: conv}).Print()
		}
		outputShowFullText(sess, conv)
		return nil
	}

	limit := parser.FlagIntOrDefault("limit", cfg.Context.MessageLimit)
	cc, err := st.GetConversationContext(ctx, sessionID, limit)
	if err != nil {
		return NewCommandError("show", "load conversation context", err)
	}

	if args.JSON {
		return NewJSONResponse("show", ShowOutput{Session: sess, Context: cc}).Print()
	}
	outputShowText(sess, cc)
	return nil
}

// =============================================================================
// TEXT OUTPUT
// =============================================================================

// outputShowText renders the windowed view: recent messages plus context.
func outputShowText(sess *store.Session, cc *store.ConversationContext) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("Session: " + sess.Name))
	fmt.Println(RenderSeparator())
	fmt.Printf("%s %s\n", RenderLabel("ID:"), cc.SessionID)
	fmt.Printf("%s %s\n", RenderLabel("Project:"), cc.ProjectID)
	if len(cc.Messages) < cc.TotalMessages {
		fmt.Printf("%s showing last %d of %d (use --full for all)\n",
			RenderLabel("Messages:"), len(cc.Messages), cc.TotalMessages)
	} else {
		fmt.Printf("%s %d\n", RenderLabel("Messages:"), cc.TotalMessages)
	}
	fmt.Println()

	renderMessages(cc.Messages)
	renderProjectContext(cc.ProjectContext)
}

// outputShowFullText renders the entire stored conversation record.
func outputShowFullText(sess *store.Session, conv *store.Conversation) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("Session: " + sess.Name))
	fmt.Println(RenderSeparator())
	fmt.Printf("%s %s\n", RenderLabel("ID:"), conv.SessionID)
	fmt.Printf("%s %s\n", RenderLabel("Project:"), conv.ProjectID)
	fmt.Printf("%s %d\n", RenderLabel("Messages:"), conv.MessageCount())
	fmt.Printf("%s %s\n", RenderLabel("Created:"), conv.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("%s %s\n", RenderLabel("Updated:"), conv.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("%s %d\n", RenderLabel("Version:"), conv.Version)
	fmt.Println()

	renderMessages(conv.Messages)
	renderProjectContext(conv.ProjectContext)
}

// renderMessages prints the message sequence in original order.
func renderMessages(messages []store.Message) {
	if len(messages) == 0 {
		fmt.Println(DimStyle.Render("  (no messages yet)"))
		fmt.Println()
		return
	}

	for _, msg := range messages {
		header := fmt.Sprintf("[%s]", messageLabel(msg))
		stamp := msg.CreatedAt.Format("2006-01-02 15:04:05")
		fmt.Printf("%s %s\n", SectionStyle.Render(header), DimStyle.Render(stamp))
		fmt.Printf("  %s\n", strings.ReplaceAll(msg.Content, "\n", "\n  "))
		if len(msg.Artifacts) > 0 {
			fmt.Printf("  %s\n", DimStyle.Render("artifacts: "+strings.Join(msg.Artifacts, ", ")))
		}
		fmt.Println()
	}
}

// renderProjectContext prints the context slots and artifact list.
func renderProjectContext(pc store.ProjectContext) {
	fmt.Println(SectionStyle.Render("Project Context"))
	for _, ct := range store.ContextTypes() {
		entry := pc.Entry(ct)
		if entry == nil || len(entry.Data) == 0 {
			fmt.Printf("  %-14s %s\n", ct, DimStyle.Render("(empty)"))
			continue
		}
		fmt.Printf("  %-14s %d key(s), updated %s\n",
			ct, len(entry.Data), formatTimeAgo(entry.UpdatedAt))
	}
	fmt.Println()

	if len(pc.Artifacts) == 0 {
		return
	}
	fmt.Println(SectionStyle.Render(fmt.Sprintf("Artifacts (%d)", len(pc.Artifacts))))
	for _, art := range pc.Artifacts {
		detail := art.Kind
		if art.Language != "" {
			detail += "/" + art.Language
		}
		fmt.Printf("  %-12s %-24s %-16s %s\n",
			art.ID, art.Name, detail, formatBytes(int64(len(art.Content))))
	}
	fmt.Println()
}
