// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor provides the drafting view for the inkwell TUI.
//
// The Model hosts the document buffer, the AI preview overlay and the
// assist orchestrator inside one Bubble Tea event loop. Document edits
// flow through the buffer's transaction listener, which repositions the
// overlay anchors and arms the autosaver; stream progress re-enters the
// loop as StreamEventMsg values delivered through the program.
//
// # Key Types
//
//   - Model: the Bubble Tea model for the drafting view
//   - Deps: everything the model needs wired in at startup
//   - KeyMap: keyboard bindings
package editor
