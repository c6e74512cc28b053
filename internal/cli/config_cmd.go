// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Config command implementation for convstore.
//
// Command: config [subcommand]
// Short:   View and modify configuration
// Aliases: cfg
//
// Subcommands:
//   show (default)      Display current configuration
//   set <key> <value>   Set a configuration value
//   reset               Reset to default configuration
//   path                Show configuration file path
//
// Examples:
//   convstore config                      Show current config (default)
//   convstore config show --json         Config in JSON format
//   convstore config set storage.backend sqlite
//   convstore config set context.message_limit 50
//   convstore config set export.format yaml
//   convstore config reset                Reset to defaults
//   convstore config path                 Show config file location
//
// Configuration Keys:
//   storage.backend        Storage engine (auto/sqlite/snapshot)
//   storage.data_dir       Directory holding conversation data
//   context.message_limit  Default recent-message count for context
//   search.max_results     Maximum search hits returned
//   export.format          Default export format (markdown/json/text/yaml)
//   export.directory       Directory export files are written to
//
// Flags:
//   --json              Output in JSON format

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/convstore/internal/config"
)

// ConfigData is the JSON shape for the config show command.
type ConfigData struct {
	Version string               `json:"version"`
	Storage config.StorageConfig `json:"storage"`
	Context config.ContextConfig `json:"context"`
	Search  config.SearchConfig  `json:"search"`
	Export  config.ExportConfig  `json:"export"`
	Path    string               `json:"path"`
	DataDir string               `json:"data_dir"`
}

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	parser := NewArgParser(args.Raw)

	switch sub := parser.Subcommand(); sub {
	case "", "show":
		if args.JSON {
			return handleConfigShowJSON()
		}
		return handleConfigShow()

	case "set":
		return handleConfigSet(parser.Positional(1), parser.Positional(2))

	case "reset":
		return handleConfigReset()

	case "path":
		if args.JSON {
			return handleConfigPathJSON()
		}
		return handleConfigPath()

	default:
		return NewValidationErrorWithExample(
			"config subcommand", sub,
			"expected show, set, reset, or path",
			"convstore config show",
		)
	}
}

// configPath returns the TOML config file path, or "" when the home
// directory cannot be determined.
func configPath() string {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return ""
	}
	return path
}

// loadOrWarn loads the configuration, falling back to defaults with a
// stderr warning when the config file is broken.
func loadOrWarn() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		StderrPrintln(fmt.Sprintf("Warning: %v (using defaults)", err))
		if cfg == nil {
			cfg = config.Default()
		}
	}
	return cfg
}

// handleConfigShow displays the current configuration.
func handleConfigShow() error {
	cfg := loadOrWarn()
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		dataDir = ""
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("convstore Configuration"))
	fmt.Println(RenderSeparator())
	fmt.Println()

	fmt.Println(SectionStyle.Render("[storage]"))
	fmt.Printf("  %s%s\n",
		RenderLabel("backend:", 16),
		HighlightStyle.Render(cfg.Storage.Backend))
	dirDisplay := cfg.Storage.DataDir
	if dirDisplay == "" {
		dirDisplay = fmt.Sprintf("(default: %s)", dataDir)
	}
	fmt.Printf("  %s%s\n",
		RenderLabel("data_dir:", 16),
		ValueStyle.Render(dirDisplay))
	fmt.Println()

	fmt.Println(SectionStyle.Render("[context]"))
	fmt.Printf("  %s%s\n",
		RenderLabel("message_limit:", 16),
		HighlightStyle.Render(fmt.Sprintf("%d", cfg.Context.MessageLimit)))
	fmt.Println()

	fmt.Println(SectionStyle.Render("[search]"))
	fmt.Printf("  %s%s\n",
		RenderLabel("max_results:", 16),
		HighlightStyle.Render(fmt.Sprintf("%d", cfg.Search.MaxResults)))
	fmt.Println()

	fmt.Println(SectionStyle.Render("[export]"))
	fmt.Printf("  %s%s\n",
		RenderLabel("format:", 16),
		HighlightStyle.Render(cfg.Export.Format))
	exportDir := cfg.Export.Directory
	if exportDir == "" {
		exportDir = "(current directory)"
	}
	fmt.Printf("  %s%s\n",
		RenderLabel("directory:", 16),
		ValueStyle.Render(exportDir))
	fmt.Println()

	fmt.Println(RenderRule())
	fmt.Printf("Config file: %s\n", DimStyle.Render(configPath()))
	fmt.Println()

	return nil
}

// handleConfigShowJSON outputs configuration in JSON format.
func handleConfigShowJSON() error {
	cfg := loadOrWarn()
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		dataDir = ""
	}

	data := ConfigData{
		Version: cfg.Version,
		Storage: cfg.Storage,
		Context: cfg.Context,
		Search:  cfg.Search,
		Export:  cfg.Export,
		Path:    configPath(),
		DataDir: dataDir,
	}
	return NewJSONResponse("config show", data).Print()
}

// handleConfigSet sets a configuration value.
func handleConfigSet(key, value string) error {
	if key == "" {
		return ErrMissingArgument("key",
			"convstore config set <key> <value>")
	}
	if value == "" {
		return ErrMissingArgument("value",
			fmt.Sprintf("convstore config set %s <value>", key))
	}

	cfg := loadOrWarn()

	key = strings.ToLower(key)
	if err := cfg.Set(key, value); err != nil {
		return NewValidationErrorWithExample(
			"config key", key,
			fmt.Sprintf("could not set value: %v\nValid keys: %s",
				err, strings.Join(config.GetAllKeys(), ", ")),
			"convstore config set storage.backend sqlite",
		)
	}

	// Normalize aliases and validate before anything touches disk.
	if err := cfg.Migrate(); err != nil {
		return WrapError(err, "failed to normalize config")
	}
	if err := cfg.Validate(); err != nil {
		return WrapError(err, "invalid configuration value")
	}
	if err := config.Save(cfg); err != nil {
		return WrapError(err, "failed to save config")
	}

	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), key, value)
	return nil
}

// handleConfigReset resets configuration to defaults.
func handleConfigReset() error {
	if err := config.Save(config.Default()); err != nil {
		return WrapError(err, "failed to save config")
	}

	fmt.Printf("%s Configuration reset to defaults\n", SuccessStyle.Render("[OK]"))
	fmt.Printf("Config file: %s\n", DimStyle.Render(configPath()))
	return nil
}

// handleConfigPath shows the config file path.
func handleConfigPath() error {
	path := configPath()
	fmt.Println(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		StderrPrintln(DimStyle.Render("Note") +
			" (file does not exist - will be created on first use)")
	}
	return nil
}

// handleConfigPathJSON outputs the config path in JSON format.
func handleConfigPathJSON() error {
	path := configPath()
	_, err := os.Stat(path)

	data := map[string]interface{}{
		"path":   path,
		"exists": !os.IsNotExist(err),
	}
	return NewJSONResponse("config path", data).Print()
}
