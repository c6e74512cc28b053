// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// search_cmd.go - Message search CLI command for convstore.
//
// Searches message content across all conversations (or one project) with
// case-insensitive substring matching, ranked by relevance. Multi-word
// queries need no quoting: positional arguments are joined with spaces.
//
// Command: search QUERY...
// Short:   Search message content by keyword
// Aliases: find
//
// Examples:
//   convstore search login flow                Ranked matches everywhere
//   convstore search oauth --project proj_456  One project only
//   convstore search "rate limit" --limit 5    Top five matches
//   convstore search timeout --json            Machine-readable output
//
// Flags:
//   --project ID    Only search conversations in this project
//   --limit N       Maximum results to show (default: configured, 50)
//   --json          Output in JSON format

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/convstore/internal/store"
	"github.com/jeranaias/convstore/internal/util"
)

const searchUsage = "convstore search QUERY... [--project ID] [--limit N]"

// SearchOutput is the JSON output format for the search command.
type SearchOutput struct {
	Query     string               `json:"query"`
	ProjectID string               `json:"project_id,omitempty"`
	Results   []store.SearchResult `json:"results"`
	Count     int                  `json:"count"`
}

// HandleSearch handles the "search" command.
func HandleSearch(args Args) error {
	parser := NewArgParser(args.Raw)

	query := JoinPositionalArgs(parser, 0)
	if query == "" {
		return ErrMissingArgument("query", searchUsage)
	}
	projectID := parser.Flag("project")

	st, cfg, err := openStore(args)
	if err != nil {
		return err
	}
	defer st.Close()

	results, err := st.SearchConversations(context.Background(), query, projectID)
	if err != nil {
		return NewCommandError("search", "search conversations", err)
	}

	limit := parser.FlagIntOrDefault("limit", cfg.Search.MaxResults)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if args.JSON {
		return NewJSONResponse("search", SearchOutput{
			Query:     query,
			ProjectID: projectID,
			Results:   results,
			Count:     len(results),
		}).Print()
	}
	outputSearchText(query, results)
	return nil
}

// outputSearchText outputs search results in human-readable format.
func outputSearchText(query string, results []store.SearchResult) {
	if len(results) == 0 {
		fmt.Println()
		fmt.Printf("No matches for %q.\n", query)
		fmt.Println()
		return
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("Search: %q", query)))
	fmt.Println(RenderSeparator(72))
	fmt.Println()

	fmt.Printf("%-6s %-14s %-20s %s\n", "Score", "From", "When", "Match")
	fmt.Println(RenderRule(72))

	for _, r := range results {
		snippet := util.TruncateRunes(util.FirstLine(r.Message.Content), 40)
		fmt.Printf("%-6d %-14s %-20s %s\n",
			r.Relevance,
			util.TruncateRunes(messageLabel(r.Message), 13),
			formatTimeAgo(r.Message.CreatedAt),
			snippet,
		)
		fmt.Printf("       %s\n", DimStyle.Render("session "+r.SessionID))
	}

	fmt.Println()
	fmt.Printf("Total: %d match(es)\n", len(results))
	fmt.Println()
}
