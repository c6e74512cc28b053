// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect provides language and kind detection for artifacts.
//
// Detection combines filename matching with content analysis so artifacts
// added without explicit annotations still carry useful labels.
//
// # Key Functions
//
//   - Language: identifies the programming language from a path or content
//   - Kind: classifies an artifact as code, document, config, or data
//
// # Usage
//
// Fill in missing artifact labels before storing:
//
//	lang := detect.Language(path, content)
//	kind := detect.Kind(path, lang)
package detect
