// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the inkwell TUI.
//
// A Theme bundles every lipgloss style the views render with, built from a
// shared adaptive color palette so light and dark terminals both look
// right. Construct one Theme at startup and pass it down; styles are
// cheap value copies after that.
//
// # Key Types
//
//   - Theme: all configured styles plus terminal capability flags
//
// # Usage
//
//	theme := styles.NewTheme()
//	header := theme.Header.Render("inkwell")
package styles
