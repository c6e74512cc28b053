// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// new_cmd.go - Session creation CLI command for convstore.
//
// Creates a session record and its empty conversation in one step. The
// session ID printed here is the handle every other command takes.
//
// Command: new
// Short:   Create a session and its empty conversation
// Aliases: create
//
// Examples:
//   convstore new                                   Auto-named session, new project
//   convstore new --name "Auth Service Kickoff"     Named session
//   convstore new --project proj_42 --name "API"    Session inside an existing project
//   convstore new -q                                Print only the session ID
//   convstore new --json                            Machine-readable output
//
// Flags:
//   --project ID    Project the session belongs to (default: a fresh project ID)
//   --name NAME     Session name (default: timestamped)
//   --json          Output in JSON format

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/convstore/internal/store"
)

// HandleNew handles the "new" command.
func HandleNew(args Args) error {
	parser := NewArgParser(args.Raw)
	projectID := parser.Flag("project")
	name := parser.Flag("name")

	st, _, err := openStore(args)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := st.CreateSession(context.Background(), projectID, name)
	if err != nil {
		return NewCommandError("new", "create session", err)
	}

	if args.JSON {
		return outputNewJSON(sess, st.BackendName())
	}
	outputNewText(sess, st.BackendName(), args.Quiet)
	return nil
}

// outputNewJSON outputs the created session in JSON format.
func outputNewJSON(sess *store.Session, backend string) error {
	return NewJSONResponse("new", SessionData{
		ID:        sess.ID,
		ProjectID: sess.ProjectID,
		Name:      sess.Name,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
		Active:    sess.Active,
		Backend:   backend,
	}).Print()
}

// outputNewText outputs the created session in human-readable format.
// Quiet mode prints just the session ID so scripts can capture it.
func outputNewText(sess *store.Session, backend string, quiet bool) {
	if quiet {
		fmt.Println(sess.ID)
		return
	}

	fmt.Println()
	fmt.Println(SuccessStyle.Render("Session created"))
	fmt.Println()
	fmt.Printf("%s %s\n", RenderLabel("ID:"), sess.ID)
	fmt.Printf("%s %s\n", RenderLabel("Project:"), sess.ProjectID)
	fmt.Printf("%s %s\n", RenderLabel("Name:"), sess.Name)
	fmt.Printf("%s %s\n", RenderLabel("Backend:"), backend)
	fmt.Println()
	fmt.Println(DimStyle.Render(fmt.Sprintf("Next: convstore add %s --content \"...\"", sess.ID)))
	fmt.Println()
}
