// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution.
//
// This test file covers argument parsing, command routing, typo
// suggestions, and the exit-code mapping used by main.
package cli

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jeranaias/convstore/internal/store"
)

// =============================================================================
// COMMAND ROUTING TESTS (cli.go)
// =============================================================================

func TestParseArgs_Routing(t *testing.T) {
	tests := []struct {
		name        string
		argv        []string
		wantCommand Command
		validate    func(*testing.T, Args)
	}{
		{
			name:        "no arguments shows help",
			argv:        []string{},
			wantCommand: CmdHelp,
		},
		{
			name:        "new command",
			argv:        []string{"new", "--name", "Auth Kickoff"},
			wantCommand: CmdNew,
			validate: func(t *testing.T, a Args) {
				if len(a.Raw) != 2 {
					t.Errorf("Raw = %v, want 2 entries", a.Raw)
				}
			},
		},
		{
			name:        "create alias maps to new",
			argv:        []string{"create"},
			wantCommand: CmdNew,
		},
		{
			name:        "add command",
			argv:        []string{"add", "sess_1", "--content", "hello"},
			wantCommand: CmdAdd,
		},
		{
			name:        "msg alias maps to add",
			argv:        []string{"msg", "sess_1"},
			wantCommand: CmdAdd,
		},
		{
			name:        "context command",
			argv:        []string{"context", "sess_1", "requirements", "auth=oauth2"},
			wantCommand: CmdContext,
		},
		{
			name:        "ctx alias maps to context",
			argv:        []string{"ctx", "sess_1", "requirements"},
			wantCommand: CmdContext,
		},
		{
			name:        "artifact command",
			argv:        []string{"artifact", "sess_1", "--name", "login.go"},
			wantCommand: CmdArtifact,
		},
		{
			name:        "show command",
			argv:        []string{"show", "sess_1"},
			wantCommand: CmdShow,
		},
		{
			name:        "get alias maps to show",
			argv:        []string{"get", "sess_1"},
			wantCommand: CmdShow,
		},
		{
			name:        "list command",
			argv:        []string{"list"},
			wantCommand: CmdList,
		},
		{
			name:        "ls alias maps to list",
			argv:        []string{"ls"},
			wantCommand: CmdList,
		},
		{
			name:        "search command keeps query words",
			argv:        []string{"search", "login", "flow"},
			wantCommand: CmdSearch,
			validate: func(t *testing.T, a Args) {
				if !reflect.DeepEqual(a.Raw, []string{"login", "flow"}) {
					t.Errorf("Raw = %v, want [login flow]", a.Raw)
				}
			},
		},
		{
			name:        "find alias maps to search",
			argv:        []string{"find", "oauth"},
			wantCommand: CmdSearch,
		},
		{
			name:        "stats command",
			argv:        []string{"stats"},
			wantCommand: CmdStats,
		},
		{
			name:        "export command",
			argv:        []string{"export", "sess_1", "--format", "yaml"},
			wantCommand: CmdExport,
		},
		{
			name:        "config command",
			argv:        []string{"config", "set", "storage.backend", "sqlite"},
			wantCommand: CmdConfig,
			validate: func(t *testing.T, a Args) {
				parser := NewArgParser(a.Raw)
				if parser.Subcommand() != "set" {
					t.Errorf("Subcommand() = %q, want set", parser.Subcommand())
				}
				if parser.Positional(1) != "storage.backend" {
					t.Errorf("Positional(1) = %q, want storage.backend", parser.Positional(1))
				}
				if parser.Positional(2) != "sqlite" {
					t.Errorf("Positional(2) = %q, want sqlite", parser.Positional(2))
				}
			},
		},
		{
			name:        "version flag",
			argv:        []string{"--version"},
			wantCommand: CmdVersion,
		},
		{
			name:        "help command",
			argv:        []string{"help"},
			wantCommand: CmdHelp,
		},
		{
			name:        "uppercase command is normalized",
			argv:        []string{"LIST"},
			wantCommand: CmdList,
		},
		{
			name:        "unknown command",
			argv:        []string{"frobnicate"},
			wantCommand: CmdUnknown,
			validate: func(t *testing.T, a Args) {
				if a.Command != "frobnicate" {
					t.Errorf("Command = %q, want frobnicate", a.Command)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != tt.wantCommand {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, cmd, tt.wantCommand)
			}
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		validate func(*testing.T, Args)
	}{
		{
			name: "json flag",
			argv: []string{"list", "--json"},
			validate: func(t *testing.T, a Args) {
				if !a.JSON {
					t.Error("JSON should be true")
				}
			},
		},
		{
			name: "quiet short flag",
			argv: []string{"-q", "stats"},
			validate: func(t *testing.T, a Args) {
				if !a.Quiet {
					t.Error("Quiet should be true")
				}
			},
		},
		{
			name: "verbose flag",
			argv: []string{"list", "--verbose"},
			validate: func(t *testing.T, a Args) {
				if !a.Verbose {
					t.Error("Verbose should be true")
				}
			},
		},
		{
			name: "backend with separate value",
			argv: []string{"stats", "--backend", "snapshot"},
			validate: func(t *testing.T, a Args) {
				if a.Backend != "snapshot" {
					t.Errorf("Backend = %q, want snapshot", a.Backend)
				}
			},
		},
		{
			name: "backend with equals",
			argv: []string{"--backend=sqlite", "stats"},
			validate: func(t *testing.T, a Args) {
				if a.Backend != "sqlite" {
					t.Errorf("Backend = %q, want sqlite", a.Backend)
				}
			},
		},
		{
			name: "data-dir with equals",
			argv: []string{"list", "--data-dir=/tmp/conv"},
			validate: func(t *testing.T, a Args) {
				if a.DataDir != "/tmp/conv" {
					t.Errorf("DataDir = %q, want /tmp/conv", a.DataDir)
				}
			},
		},
		{
			name: "global flags before command do not shift routing",
			argv: []string{"--json", "--backend", "snapshot", "show", "sess_1"},
			validate: func(t *testing.T, a Args) {
				if a.Command != "show" {
					t.Errorf("Command = %q, want show", a.Command)
				}
				if !reflect.DeepEqual(a.Raw, []string{"sess_1"}) {
					t.Errorf("Raw = %v, want [sess_1]", a.Raw)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args := ParseArgs(tt.argv)
			tt.validate(t, args)
		})
	}
}

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"show", "--limit", "5"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("limit") != "5" {
					t.Errorf("Flag(limit) = %q, want %q", p.Flag("limit"), "5")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"export", "--format=yaml"},
			wantSub: "export",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("format") != "yaml" {
					t.Errorf("Flag(format) = %q, want %q", p.Flag("format"), "yaml")
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"show", "--full"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("full") {
					t.Error("BoolFlag(full) should be true")
				}
			},
		},
		{
			name:    "explicit boolean value",
			args:    []string{"show", "--full=false"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("full") {
					t.Error("BoolFlag(full) should be false")
				}
			},
		},
		{
			name:    "multiple positional args",
			args:    []string{"sess_1", "requirements", "auth=oauth2", "storage=postgres"},
			wantSub: "sess_1",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 4 {
					t.Errorf("PositionalCount() = %d, want 4", p.PositionalCount())
				}
				pairs := p.PositionalFrom(2)
				if !reflect.DeepEqual(pairs, []string{"auth=oauth2", "storage=postgres"}) {
					t.Errorf("PositionalFrom(2) = %v", pairs)
				}
			},
		},
		{
			name:    "mixed flags and positional",
			args:    []string{"sess_1", "--kind", "agent", "--agent", "product_manager"},
			wantSub: "sess_1",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("kind") != "agent" {
					t.Errorf("Flag(kind) = %q, want agent", p.Flag("kind"))
				}
				if p.Flag("agent") != "product_manager" {
					t.Errorf("Flag(agent) = %q, want product_manager", p.Flag("agent"))
				}
				if p.Positional(0) != "sess_1" {
					t.Errorf("Positional(0) = %q, want sess_1", p.Positional(0))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			if parser.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", parser.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, parser)
			}
		})
	}
}

func TestArgParser_FlagIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		flagName   string
		defaultVal int
		want       int
	}{
		{
			name:       "flag present",
			args:       []string{"show", "--limit", "10"},
			flagName:   "limit",
			defaultVal: 20,
			want:       10,
		},
		{
			name:       "flag missing uses default",
			args:       []string{"show"},
			flagName:   "limit",
			defaultVal: 20,
			want:       20,
		},
		{
			name:       "invalid int uses default",
			args:       []string{"show", "--limit", "abc"},
			flagName:   "limit",
			defaultVal: 20,
			want:       20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			got := parser.FlagIntOrDefault(tt.flagName, tt.defaultVal)
			if got != tt.want {
				t.Errorf("FlagIntOrDefault(%q, %d) = %d, want %d", tt.flagName, tt.defaultVal, got, tt.want)
			}
		})
	}
}

func TestArgParser_HasFlag(t *testing.T) {
	parser := NewArgParser([]string{"show", "--full", "--limit", "5"})

	if !parser.HasFlag("full") {
		t.Error("HasFlag(full) should be true")
	}
	if !parser.HasFlag("limit") {
		t.Error("HasFlag(limit) should be true")
	}
	if parser.HasFlag("nonexistent") {
		t.Error("HasFlag(nonexistent) should be false")
	}
}

func TestArgParser_EmptyArgs(t *testing.T) {
	parser := NewArgParser([]string{})
	if parser.Subcommand() != "" {
		t.Errorf("Subcommand() = %q, want empty", parser.Subcommand())
	}
	if parser.PositionalCount() != 0 {
		t.Errorf("PositionalCount() = %d, want 0", parser.PositionalCount())
	}
	if parser.Positional(0) != "" {
		t.Error("Positional(0) on empty args should be empty")
	}
}

func TestArgParser_FlagOrDefault(t *testing.T) {
	parser := NewArgParser([]string{"export", "--format", "json"})

	if parser.FlagOrDefault("format", "markdown") != "json" {
		t.Error("FlagOrDefault should return actual value when present")
	}
	if parser.FlagOrDefault("output", "out.md") != "out.md" {
		t.Error("FlagOrDefault should return default when missing")
	}
}

// =============================================================================
// PARSE HELPERS
// =============================================================================

func TestParseBoolString(t *testing.T) {
	trueValues := []string{"true", "TRUE", "yes", "y", "1", "on"}
	falseValues := []string{"false", "FALSE", "no", "n", "0", "off"}

	for _, v := range trueValues {
		t.Run("true_"+v, func(t *testing.T) {
			got, err := ParseBoolString(v)
			if err != nil {
				t.Errorf("ParseBoolString(%q) error = %v", v, err)
			}
			if !got {
				t.Errorf("ParseBoolString(%q) = false, want true", v)
			}
		})
	}

	for _, v := range falseValues {
		t.Run("false_"+v, func(t *testing.T) {
			got, err := ParseBoolString(v)
			if err != nil {
				t.Errorf("ParseBoolString(%q) error = %v", v, err)
			}
			if got {
				t.Errorf("ParseBoolString(%q) = true, want false", v)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		if _, err := ParseBoolString("maybe"); err == nil {
			t.Error("ParseBoolString(maybe) should error")
		}
	})
}

func TestSplitListFlag(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "art_1", []string{"art_1"}},
		{"multiple", "art_1,art_2,art_3", []string{"art_1", "art_2", "art_3"}},
		{"spaces trimmed", " art_1 , art_2 ", []string{"art_1", "art_2"}},
		{"empties dropped", "art_1,,art_2,", []string{"art_1", "art_2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitListFlag(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitListFlag(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseKeyValuePairs(t *testing.T) {
	t.Run("typed values", func(t *testing.T) {
		data, err := parseKeyValuePairs([]string{
			"auth=oauth2",
			"retries=3",
			"strict=true",
			`nested={"style":"hexagonal"}`,
		})
		if err != nil {
			t.Fatalf("parseKeyValuePairs error = %v", err)
		}

		if data["auth"] != "oauth2" {
			t.Errorf("auth = %v, want oauth2", data["auth"])
		}
		if data["retries"] != float64(3) {
			t.Errorf("retries = %v (%T), want 3", data["retries"], data["retries"])
		}
		if data["strict"] != true {
			t.Errorf("strict = %v, want true", data["strict"])
		}
		nested, ok := data["nested"].(map[string]any)
		if !ok || nested["style"] != "hexagonal" {
			t.Errorf("nested = %v, want map with style=hexagonal", data["nested"])
		}
	})

	t.Run("missing equals", func(t *testing.T) {
		if _, err := parseKeyValuePairs([]string{"noequals"}); err == nil {
			t.Error("pair without = should error")
		}
	})

	t.Run("empty key", func(t *testing.T) {
		if _, err := parseKeyValuePairs([]string{"=value"}); err == nil {
			t.Error("pair with empty key should error")
		}
	})
}

// =============================================================================
// COMMAND SUGGESTION TESTS (suggest.go)
// =============================================================================

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"serach", "search"},
		{"lst", "list"},
		{"statz", "stats"},
		{"exprot", "export"},
		{"confg", "config"},
		{"shwo", "show"},
		{"x", ""},          // too short to suggest
		{"frobnicate", ""}, // nothing close
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SuggestCommand(tt.input); got != tt.want {
				t.Errorf("SuggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"search", "search", 0},
		{"serach", "search", 2},
		{"list", "lst", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.s1, tt.s2); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
		}
	}
}

// =============================================================================
// ERROR TYPE AND EXIT CODE TESTS (errors.go)
// =============================================================================

func TestCommandError_Format(t *testing.T) {
	underlying := errors.New("disk full")
	err := NewCommandError("add", "append message", underlying)

	want := "add: failed to append message: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, underlying) {
		t.Error("CommandError should unwrap to the underlying error")
	}
}

func TestValidationError_Format(t *testing.T) {
	err := NewValidationErrorWithExample("kind", "robot",
		"must be user or agent", "convstore add sess_1 --kind agent")

	msg := err.Error()
	for _, want := range []string{"invalid kind", "robot", "Example:"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"generic error", errors.New("boom"), ExitGeneralError},
		{"validation error", NewValidationError("query", "", "empty"), ExitUsageError},
		{"cli not found", &NotFoundError{Resource: "session", ID: "sess_x"}, ExitNotFoundError},
		{"store not found", store.ErrNotFound, ExitNotFoundError},
		{
			"wrapped store not found",
			NewCommandError("show", "load conversation", store.ErrNotFound),
			ExitNotFoundError,
		},
		{"version conflict", store.ErrConflict, ExitConflictError},
		{"backend failure", store.ErrBackend, ExitStorageError},
		{"invalid context type", store.ErrInvalidContextType, ExitUsageError},
		{"invalid message kind", store.ErrInvalidMessageKind, ExitUsageError},
		{"invalid agent", store.ErrInvalidAgent, ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// =============================================================================
// BENCHMARKS
// =============================================================================

func BenchmarkArgParser_Simple(b *testing.B) {
	args := []string{"show", "sess_1"}
	for i := 0; i < b.N; i++ {
		NewArgParser(args)
	}
}

func BenchmarkArgParser_Complex(b *testing.B) {
	args := []string{"add", "sess_1", "--kind", "agent", "--agent", "qa_engineer", "--content", "Run the regression suite", "--artifacts", "art_1,art_2"}
	for i := 0; i < b.N; i++ {
		NewArgParser(args)
	}
}
