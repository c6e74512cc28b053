// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared across convstore.
//
// This package contains common helper functions for crash-safe file writes,
// display-aware string handling, and number formatting for CLI output.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth, StringWidth, PadRight: display-cell aware helpers
//   - FirstLine: first line of a multi-line string
//
// Formatting:
//   - FormatCount: comma-grouped integers for stats output
//   - FormatFloat: fixed-precision float rendering
//
// # Usage
//
//	// Truncate long message content for previews
//	preview := util.TruncateRunes(content, 50)
//
//	// Write the snapshot document atomically
//	err := util.AtomicWriteFile(path, data, 0644)
package util
