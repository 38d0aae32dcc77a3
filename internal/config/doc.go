// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// inkwell.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.inkwell/config.toml
//   - ~/.inkwell/config.json
//   - Built-in defaults
//
// # Key Types
//
//   - Config: the complete configuration tree
//   - GatewayConfig / AssistConfig / UIConfig / StorageConfig: sections
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    cfg = config.Default()
//	}
package config
