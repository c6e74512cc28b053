// convstore - conversation persistence for AI coding sessions.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"os"

	"github.com/jeranaias/convstore/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdNew:
		err = cli.HandleNew(args)
	case cli.CmdAdd:
		err = cli.HandleAdd(args)
	case cli.CmdContext:
		err = cli.HandleContext(args)
	case cli.CmdArtifact:
		err = cli.HandleArtifact(args)
	case cli.CmdShow:
		err = cli.HandleShow(args)
	case cli.CmdList:
		err = cli.HandleList(args)
	case cli.CmdSearch:
		err = cli.HandleSearch(args)
	case cli.CmdStats:
		err = cli.HandleStats(args)
	case cli.CmdExport:
		err = cli.HandleExport(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		err = cli.HandleHelp()
	case cli.CmdUnknown:
		err = cli.HandleUnknown(args)
	}

	if err != nil {
		cli.DisplayError(err, args.JSON)
		os.Exit(cli.GetExitCode(err))
	}
}
