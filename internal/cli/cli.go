// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command-line interface parsing and routing for convstore.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (set at build time via -ldflags)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents a CLI command.
type Command int

const (
	// CmdNew creates a session with its empty conversation
	CmdNew Command = iota
	// CmdAdd appends a message to a conversation
	CmdAdd
	// CmdContext merges data into a project context entry
	CmdContext
	// CmdArtifact attaches an artifact to a conversation
	CmdArtifact
	// CmdShow displays a conversation
	CmdShow
	// CmdList lists all conversations
	CmdList
	// CmdSearch searches message content
	CmdSearch
	// CmdStats shows store-wide counts
	CmdStats
	// CmdExport writes a conversation transcript to a file
	CmdExport
	// CmdConfig views and modifies configuration
	CmdConfig
	// CmdVersion shows version information
	CmdVersion
	// CmdHelp shows usage information
	CmdHelp
	// CmdUnknown is returned for unrecognized commands
	CmdUnknown
)

// Args holds parsed command-line arguments.
type Args struct {
	// Global flags
	Quiet   bool   // -q, --quiet: minimal output
	Verbose bool   // -v, --verbose: debug output
	JSON    bool   // --json: machine-readable output
	Backend string // --backend: override the configured storage engine
	DataDir string // --data-dir: override the configured data directory

	// Command is the raw command word as typed (for unknown-command errors)
	Command string

	// Raw holds the remaining arguments after the command word; each
	// handler parses them with NewArgParser.
	Raw []string
}

// usageText is the help text shown by the help command.
const usageText = `convstore - conversation persistence for AI coding sessions

Stores session transcripts, per-project context, and generated artifacts
in a local database (SQLite when available, a JSON snapshot otherwise).

Usage:
  convstore <command> [arguments] [flags]

Write Commands:
  new                 Create a session (and its empty conversation)
  add                 Append a message to a conversation
  context             Merge data into a project context entry
  artifact            Attach a generated artifact to a conversation

Read Commands:
  show                Display a conversation
  list                List all conversations
  search              Search message content by keyword
  stats               Show store-wide counts

Utility Commands:
  export              Write a conversation transcript to a file
  config              View and modify configuration
  version             Show version information
  help                Show this help

Global Flags:
  --json              Output in JSON format
  --backend ENGINE    Override storage engine (auto|sqlite|snapshot)
  --data-dir PATH     Override data directory
  -q, --quiet         Minimal output
  --verbose           Debug output

Examples:
  # Create a session and add messages
  convstore new --name "Auth Service Kickoff"
  convstore add sess_123 --content "Design the login flow"
  convstore add sess_123 --content "Use OAuth2" --kind agent --agent product_manager

  # Record project context and artifacts
  convstore context sess_123 requirements auth=oauth2 storage=postgres
  convstore context sess_123 architecture --data '{"style":"hexagonal"}'
  convstore artifact sess_123 --name login.go --file ./login.go --agent software_developer

  # Inspect the store
  convstore show sess_123                 Last 20 messages plus context
  convstore show sess_123 --limit 5       Last 5 messages
  convstore show sess_123 --full          Entire conversation record
  convstore list                          All conversations, newest first
  convstore list --project proj_456       One project only
  convstore search "login flow"           Keyword search, scored
  convstore stats                         Store-wide counts

  # Export transcripts
  convstore export sess_123                         Markdown to the export dir
  convstore export sess_123 --format yaml --stdout  YAML to stdout
  convstore export sess_123 --no-artifacts --open   Skip artifacts, then open

  # Configuration
  convstore config show                   Show current configuration
  convstore config set storage.backend sqlite
  convstore config path                   Show config file location

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("convstore version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses os.Args and returns the command and remaining arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list. Split out from Parse so tests
// can drive it without touching os.Args.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdHelp, args
	}

	cmd := strings.ToLower(remaining[0])
	args.Command = cmd
	args.Raw = remaining[1:]

	switch cmd {
	case "new", "create":
		return CmdNew, args

	case "add", "message", "msg":
		return CmdAdd, args

	case "context", "ctx":
		return CmdContext, args

	case "artifact", "art":
		return CmdArtifact, args

	case "show", "get":
		return CmdShow, args

	case "list", "ls", "l":
		return CmdList, args

	case "search", "find":
		return CmdSearch, args

	case "stats", "statistics":
		return CmdStats, args

	case "export":
		return CmdExport, args

	case "config", "cfg":
		return CmdConfig, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		return CmdUnknown, args
	}
}

// parseGlobalFlags extracts global flags from argv and returns remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	i := 0
	for i < len(argv) {
		arg := argv[i]

		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "--backend":
			if i+1 < len(argv) {
				i++
				args.Backend = argv[i]
			}
		case "--data-dir":
			if i+1 < len(argv) {
				i++
				args.DataDir = argv[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--backend="):
				args.Backend = strings.TrimPrefix(arg, "--backend=")
			case strings.HasPrefix(arg, "--data-dir="):
				args.DataDir = strings.TrimPrefix(arg, "--data-dir=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, args
}

// =============================================================================
// SIMPLE COMMAND HANDLERS
// =============================================================================

// HandleVersion handles the "version" command.
func HandleVersion(args Args) error {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		return NewJSONResponse("version", data).Print()
	}
	PrintVersion()
	return nil
}

// HandleHelp handles the "help" command.
func HandleHelp() error {
	PrintUsage()
	return nil
}

// HandleUnknown reports an unrecognized command, suggesting a correction
// when the input is close to a valid command.
func HandleUnknown(args Args) error {
	reason := "not a convstore command"
	if suggestion := SuggestCommand(args.Command); suggestion != "" {
		reason = fmt.Sprintf("not a convstore command (did you mean %q?)", suggestion)
	}
	return &ValidationError{
		Field:   "command",
		Value:   args.Command,
		Reason:  reason,
		Example: "convstore help",
	}
}
