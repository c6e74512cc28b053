// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// stats_cmd.go - Store statistics CLI command for convstore.
//
// Shows store-wide counts: conversations, messages, artifacts, sessions,
// and distinct projects, plus which storage engine is serving them and
// where the data lives on disk.
//
// Command: stats
// Short:   Show store-wide counts
// Aliases: statistics
//
// Examples:
//   convstore stats
//   convstore stats --json
//   convstore stats --backend snapshot    Counts from the snapshot engine
//
// Flags:
//   --json    Output in JSON format

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/convstore/internal/store"
)

// StatsOutput is the JSON output format for the stats command.
type StatsOutput struct {
	store.Stats
	DataDir string `json:"data_dir"`
}

// HandleStats handles the "stats" command.
func HandleStats(args Args) error {
	st, cfg, err := openStore(args)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.GetStats(context.Background())
	if err != nil {
		return NewCommandError("stats", "collect statistics", err)
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		dataDir = ""
	}

	if args.JSON {
		return NewJSONResponse("stats", StatsOutput{Stats: *stats, DataDir: dataDir}).Print()
	}
	outputStatsText(stats, dataDir)
	return nil
}

// outputStatsText outputs statistics in human-readable format.
func outputStatsText(stats *store.Stats, dataDir string) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("Store Statistics"))
	fmt.Println(RenderSeparator())
	fmt.Println()
	fmt.Printf("%s %d\n", RenderLabel("Conversations:"), stats.TotalConversations)
	fmt.Printf("%s %d\n", RenderLabel("Messages:"), stats.TotalMessages)
	fmt.Printf("%s %d\n", RenderLabel("Artifacts:"), stats.TotalArtifacts)
	fmt.Printf("%s %d\n", RenderLabel("Sessions:"), stats.Sessions)
	fmt.Printf("%s %d\n", RenderLabel("Projects:"), stats.Projects)
	fmt.Println()
	fmt.Printf("%s %s\n", RenderLabel("Backend:"), stats.Backend)
	if dataDir != "" {
		fmt.Printf("%s %s\n", RenderLabel("Data dir:"), dataDir)
	}
	fmt.Println()
}
