// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// list_cmd.go - Conversation listing CLI command for convstore.
//
// Lists stored conversations newest-first, as a table of index, name,
// counts, age, and a first-user-message preview. The printed index is
// accepted by the other commands in place of a session ID.
//
// Command: list
// Short:   List all conversations
// Aliases: ls, l
//
// Examples:
//   convstore list                       All conversations, newest first
//   convstore list --project proj_456    One project only
//   convstore list --json                Machine-readable output
//
// Flags:
//   --project ID    Only conversations belonging to this project
//   --json          Output in JSON format

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/convstore/internal/store"
	"github.com/jeranaias/convstore/internal/util"
)

// ListOutput is the JSON output format for the list command.
type ListOutput struct {
	Conversations []store.ConversationMeta `json:"conversations"`
	Count         int                      `json:"count"`
	ProjectID     string                   `json:"project_id,omitempty"`
}

// HandleList handles the "list" command.
func HandleList(args Args) error {
	parser := NewArgParser(args.Raw)
	projectID := parser.Flag("project")

	st, _, err := openStore(args)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	var metas []store.ConversationMeta
	if projectID != "" {
		metas, err = listProjectConversations(ctx, st, projectID)
	} else {
		metas, err = st.ListConversations(ctx)
	}
	if err != nil {
		return NewCommandError("list", "list conversations", err)
	}

	if args.JSON {
		return NewJSONResponse("list", ListOutput{
			Conversations: metas,
			Count:         len(metas),
			ProjectID:     projectID,
		}).Print()
	}
	outputListText(metas, projectID)
	return nil
}

// listProjectConversations builds listing rows for one project's
// conversations, joining in session names.
func listProjectConversations(ctx context.Context, st *store.Store, projectID string) ([]store.ConversationMeta, error) {
	convs, err := st.GetProjectConversations(ctx, projectID)
	if err != nil {
		return nil, err
	}

	metas := make([]store.ConversationMeta, 0, len(convs))
	for _, conv := range convs {
		name := ""
		if sess, err := st.GetSession(ctx, conv.SessionID); err == nil {
			name = sess.Name
		}
		metas = append(metas, store.ConversationMeta{
			SessionID:     conv.SessionID,
			ProjectID:     conv.ProjectID,
			Name:          name,
			CreatedAt:     conv.CreatedAt,
			UpdatedAt:     conv.UpdatedAt,
			MessageCount:  conv.MessageCount(),
			ArtifactCount: conv.ArtifactCount(),
			Preview:       conv.Preview(),
		})
	}
	return metas, nil
}

// outputListText outputs conversations in human-readable table format.
func outputListText(metas []store.ConversationMeta, projectID string) {
	if len(metas) == 0 {
		fmt.Println()
		if projectID != "" {
			fmt.Printf("No conversations found for project %s.\n", projectID)
		} else {
			fmt.Println("No conversations found.")
			fmt.Println()
			fmt.Println("Create one with: convstore new --name \"My Session\"")
		}
		fmt.Println()
		return
	}

	title := "Conversations"
	if projectID != "" {
		title = "Conversations in " + projectID
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render(title))
	fmt.Println(RenderSeparator(72))
	fmt.Println()

	fmt.Printf("%-4s %-26s %-6s %-6s %-14s %s\n", "#", "Name", "Msgs", "Arts", "Updated", "Preview")
	fmt.Println(RenderRule(72))

	for i, m := range metas {
		name := util.TruncateRunes(m.Name, 24)
		updated := formatTimeAgo(m.UpdatedAt)
		if len(updated) > 13 {
			updated = m.UpdatedAt.Format("2006-01-02")
		}
		preview := util.TruncateRunes(m.Preview, 30)

		fmt.Printf("%-4d %-26s %-6d %-6d %-14s %s\n",
			i+1, name, m.MessageCount, m.ArtifactCount, updated, preview)
	}

	fmt.Println()
	fmt.Printf("Total: %d conversation(s)\n", len(metas))
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  convstore show <#|id>      View a conversation")
	fmt.Println("  convstore export <#|id>    Export a transcript")
	fmt.Println()
}
