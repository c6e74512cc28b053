// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for convstore.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - StorageConfig: Storage engine selection and data location
//   - ContextConfig: Context window defaults for conversation retrieval
//   - SearchConfig: Search result limits
//   - ExportConfig: Export format and output defaults
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CONVSTORE_*)
//   - ~/.convstore/config.toml
//   - ~/.convstore/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	backend := cfg.Storage.Backend
//	limit := cfg.Context.MessageLimit
package config
