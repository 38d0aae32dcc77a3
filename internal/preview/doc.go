// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package preview holds the state machine for the in-document AI preview
// overlay.
//
// The overlay is a single-slot state: either Empty (nothing shown) or
// Active (anchored at a tracked document range, showing streamed text).
// State only changes through three explicit commands (Set, Update, Clear)
// dispatched through one writer path, plus an implicit reposition step that
// remaps the anchors through a document Mapping on every content-changing
// transaction.
//
// # Key Types
//
//   - State: the overlay slot {anchors, text, loading, kind, visible}
//   - Command: Set / Update / Clear transition triggers
//   - Store: the single-writer command dispatcher owned by the editor
//   - Kind: generation mode (polish, expand, summary)
//
// # Transition Rules
//
//   - Set fully replaces the state and forces visibility
//   - Update merges only the provided fields and is ignored while Empty
//   - Clear resets to Empty and is idempotent
//   - Reposition touches anchors only, never text/loading/kind/visible
package preview
